package note

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound     = errors.New("note not found")
	ErrAlreadySaved = errors.New("note already saved")
	ErrNotSaved     = errors.New("note not in dashboard")
)

type (
	Repository interface {
		QueryPublishedNotes() ([]Note, error)
		QueryAllNotes() ([]Note, error)
		GetNoteByID(id int) (Note, error)
		CreateNote(n Note) (Note, error)
		UpdateNote(n Note) (Note, error)
		// DeleteNotesByID ignores unresolvable ids and reports how many rows it deleted.
		DeleteNotesByID(ids ...int) (int, error)
		// FilterNotes applies AND over the supplied QueryOptions criteria and
		// returns the requested page plus the total matching count.
		FilterNotes(opts QueryOptions) ([]Note, int, error)
		UniqueSubjects() ([]string, error)

		CreateUserNote(userID, noteID int, addedAt time.Time) (SavedNote, error)
		QueryUserNotes(userID int) ([]SavedNote, error)
		DeleteUserNote(userID, noteID int) error
	}

	Service interface {
		QueryPublished() ([]Note, error)
		QueryAll() ([]Note, error)
		GetByID(id int) (Note, error)
		Create(nn NewNote) (Note, error)
		Update(id int, un UpdateNote) (Note, error)
		Delete(ids ...int) (int, error)
		Filter(opts QueryOptions) ([]Note, int, error)
		UniqueSubjects() ([]string, error)

		Save(userID, noteID int) (SavedNote, error)
		QuerySaved(userID int) ([]SavedNote, error)
		Remove(userID, noteID int) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryPublished() ([]Note, error) {
	return svc.repo.QueryPublishedNotes()
}

func (svc *service) QueryAll() ([]Note, error) {
	return svc.repo.QueryAllNotes()
}

func (svc *service) GetByID(id int) (Note, error) {
	return svc.repo.GetNoteByID(id)
}

func (svc *service) Create(nn NewNote) (Note, error) {
	n := Note{
		Label:       nn.Label,
		ChapterName: nn.ChapterName,
		SubjectName: nn.SubjectName,
		Goals:       nn.Goals,
		Cost:        nn.Cost,
		IsPublished: nn.IsPublished,
		CreatedAt:   time.Now().UTC(),
	}
	if nn.DriveLink != "" {
		n.DriveLink.SetValid(nn.DriveLink)
	}
	return svc.repo.CreateNote(n)
}

func (svc *service) Update(id int, un UpdateNote) (Note, error) {
	n, err := svc.repo.GetNoteByID(id)
	if err != nil {
		return Note{}, err
	}

	if un.ChapterName != "" {
		n.ChapterName = un.ChapterName
	}
	if un.Label != "" {
		n.Label = un.Label
	}
	if un.SubjectName != "" {
		n.SubjectName = un.SubjectName
	}
	if un.Cost != "" {
		n.Cost = un.Cost
	}
	if un.Goals != nil {
		n.Goals = un.Goals
	}
	if un.DriveLink != nil {
		if *un.DriveLink == "" {
			n.DriveLink.Valid = false
			n.DriveLink.String = ""
		} else {
			n.DriveLink.SetValid(*un.DriveLink)
		}
	}
	if un.IsPublished != nil {
		n.IsPublished = *un.IsPublished
	}
	return svc.repo.UpdateNote(n)
}

func (svc *service) Delete(ids ...int) (int, error) {
	return svc.repo.DeleteNotesByID(ids...)
}

func (svc *service) Filter(opts QueryOptions) ([]Note, int, error) {
	opts.Clean()
	return svc.repo.FilterNotes(opts)
}

func (svc *service) UniqueSubjects() ([]string, error) {
	return svc.repo.UniqueSubjects()
}

func (svc *service) Save(userID, noteID int) (SavedNote, error) {
	if _, err := svc.repo.GetNoteByID(noteID); err != nil {
		return SavedNote{}, err
	}
	return svc.repo.CreateUserNote(userID, noteID, time.Now().UTC())
}

func (svc *service) QuerySaved(userID int) ([]SavedNote, error) {
	return svc.repo.QueryUserNotes(userID)
}

func (svc *service) Remove(userID, noteID int) error {
	return svc.repo.DeleteUserNote(userID, noteID)
}
