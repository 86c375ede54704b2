package inmemdb

import (
	"sort"
	"time"

	"github.com/vaaniprep/vaani/core/note"
)

type noteRepository struct {
	db *noteTable
}

var _ note.Repository = (*noteRepository)(nil)

func NewNoteRepository(db *DB) *noteRepository {
	return &noteRepository{db: db.note}
}

func (repo *noteRepository) query(match func(note.Note) bool) []note.Note {
	notes := make([]note.Note, 0, len(repo.db.table))
	for _, n := range repo.db.table {
		if match(*n) {
			notes = append(notes, *n)
		}
	}
	// newest first, id as tiebreaker
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID > notes[j].ID
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes
}

func (repo *noteRepository) QueryPublishedNotes() ([]note.Note, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(n note.Note) bool { return n.IsPublished }), nil
}

func (repo *noteRepository) QueryAllNotes() ([]note.Note, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(note.Note) bool { return true }), nil
}

func (repo *noteRepository) GetNoteByID(id int) (note.Note, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return *n, nil
	}
	return note.Note{}, note.ErrNotFound
}

func (repo *noteRepository) CreateNote(n note.Note) (note.Note, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.lastID++
	n.ID = repo.db.lastID
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *noteRepository) UpdateNote(n note.Note) (note.Note, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[n.ID]; !ok {
		return note.Note{}, note.ErrNotFound
	}
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *noteRepository) DeleteNotesByID(ids ...int) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; !ok {
			continue
		}
		delete(repo.db.table, id)
		for sid, sn := range repo.db.saved {
			if sn.NoteID == id {
				delete(repo.db.saved, sid)
			}
		}
		cnt++
	}
	return cnt, nil
}

func (repo *noteRepository) FilterNotes(opts note.QueryOptions) ([]note.Note, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matches := repo.query(opts.Matches)
	total := len(matches)

	start := (opts.Page - 1) * opts.Limit
	if start >= total {
		return []note.Note{}, total, nil
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

func (repo *noteRepository) UniqueSubjects() ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	seen := make(map[string]struct{})
	for _, n := range repo.db.table {
		seen[n.SubjectName] = struct{}{}
	}
	subjects := make([]string, 0, len(seen))
	for s := range seen {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// Saved notes

func (repo *noteRepository) CreateUserNote(userID, noteID int, addedAt time.Time) (note.SavedNote, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n, ok := repo.db.table[noteID]
	if !ok {
		return note.SavedNote{}, note.ErrNotFound
	}
	for _, sn := range repo.db.saved {
		if sn.UserID == userID && sn.NoteID == noteID {
			return note.SavedNote{}, note.ErrAlreadySaved
		}
	}

	repo.db.lastSaveID++
	sn := note.SavedNote{
		ID:      repo.db.lastSaveID,
		UserID:  userID,
		NoteID:  noteID,
		AddedAt: addedAt,
		Note:    *n,
	}
	repo.db.saved[sn.ID] = &sn
	return sn, nil
}

func (repo *noteRepository) QueryUserNotes(userID int) ([]note.SavedNote, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	saved := make([]note.SavedNote, 0)
	for _, sn := range repo.db.saved {
		if sn.UserID != userID {
			continue
		}
		cp := *sn
		if n, ok := repo.db.table[sn.NoteID]; ok {
			cp.Note = *n
		}
		saved = append(saved, cp)
	}
	sort.Slice(saved, func(i, j int) bool {
		if saved[i].Note.SubjectName == saved[j].Note.SubjectName {
			return saved[i].AddedAt.After(saved[j].AddedAt)
		}
		return saved[i].Note.SubjectName < saved[j].Note.SubjectName
	})
	return saved, nil
}

func (repo *noteRepository) DeleteUserNote(userID, noteID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for sid, sn := range repo.db.saved {
		if sn.UserID == userID && sn.NoteID == noteID {
			delete(repo.db.saved, sid)
			return nil
		}
	}
	return note.ErrNotSaved
}
