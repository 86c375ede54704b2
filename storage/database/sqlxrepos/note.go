package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/vaaniprep/vaani/core/note"
)

type dbNote struct {
	ID          int            `db:"id"`
	Label       string         `db:"label"`
	ChapterName string         `db:"chapter_name"`
	SubjectName string         `db:"subject_name"`
	Goals       pq.StringArray `db:"goals"`
	Cost        string         `db:"cost"`
	DriveLink   null.String    `db:"drive_link"`
	IsPublished bool           `db:"is_published"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (n dbNote) toNote() note.Note {
	return note.Note{
		ID:          n.ID,
		Label:       n.Label,
		ChapterName: n.ChapterName,
		SubjectName: n.SubjectName,
		Goals:       []string(n.Goals),
		Cost:        n.Cost,
		DriveLink:   n.DriveLink,
		IsPublished: n.IsPublished,
		CreatedAt:   n.CreatedAt.UTC(),
	}
}

const selectNote = `
SELECT id, label, chapter_name, subject_name, goals, cost, drive_link, is_published, created_at
FROM note`

type noteRepository struct {
	db *sqlx.DB
}

var _ note.Repository = (*noteRepository)(nil)

func NewNoteRepository(db *sqlx.DB) *noteRepository {
	return &noteRepository{db: db}
}

func (repo *noteRepository) queryNotes(query string, args ...interface{}) ([]note.Note, error) {
	var rows []dbNote
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	notes := make([]note.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.toNote())
	}
	return notes, nil
}

func (repo *noteRepository) QueryPublishedNotes() ([]note.Note, error) {
	return repo.queryNotes(selectNote + ` WHERE is_published ORDER BY created_at DESC, id DESC`)
}

func (repo *noteRepository) QueryAllNotes() ([]note.Note, error) {
	return repo.queryNotes(selectNote + ` ORDER BY created_at DESC, id DESC`)
}

func (repo *noteRepository) GetNoteByID(id int) (note.Note, error) {
	var n dbNote
	if err := repo.db.Get(&n, selectNote+` WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, errors.Wrap(err, "finding note")
	}
	return n.toNote(), nil
}

func (repo *noteRepository) CreateNote(n note.Note) (note.Note, error) {
	row := repo.db.QueryRow(
		`INSERT INTO note (label, chapter_name, subject_name, goals, cost, drive_link, is_published, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		n.Label, n.ChapterName, n.SubjectName, pq.StringArray(n.Goals),
		n.Cost, n.DriveLink, n.IsPublished, n.CreatedAt,
	)
	if err := row.Scan(&n.ID); err != nil {
		return note.Note{}, errors.Wrap(err, "creating note")
	}
	return n, nil
}

func (repo *noteRepository) UpdateNote(n note.Note) (note.Note, error) {
	res, err := repo.db.Exec(
		`UPDATE note
		 SET label = $1, chapter_name = $2, subject_name = $3, goals = $4,
		     cost = $5, drive_link = $6, is_published = $7
		 WHERE id = $8`,
		n.Label, n.ChapterName, n.SubjectName, pq.StringArray(n.Goals),
		n.Cost, n.DriveLink, n.IsPublished, n.ID,
	)
	if err != nil {
		return note.Note{}, errors.Wrap(err, "updating note")
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return note.Note{}, note.ErrNotFound
	}
	return n, nil
}

func (repo *noteRepository) DeleteNotesByID(ids ...int) (int, error) {
	arr := make([]int64, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	res, err := repo.db.Exec(`DELETE FROM note WHERE id = ANY($1)`, pq.Array(arr))
	if err != nil {
		return 0, errors.Wrap(err, "deleting notes")
	}
	cnt, err := res.RowsAffected()
	return int(cnt), errors.Wrap(err, "deleting notes")
}

func (repo *noteRepository) FilterNotes(opts note.QueryOptions) ([]note.Note, int, error) {
	where, args := filterClauses(opts)

	var total int
	if err := repo.db.Get(&total, `SELECT COUNT(*) FROM note`+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting notes")
	}

	offset := (opts.Page - 1) * opts.Limit
	query := fmt.Sprintf(
		selectNote+`%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	notes, err := repo.queryNotes(query, append(args, opts.Limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// filterClauses renders QueryOptions as a WHERE clause; criteria AND together.
func filterClauses(opts note.QueryOptions) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.Search != "" {
		p := arg("%" + opts.Search + "%")
		clauses = append(clauses, fmt.Sprintf("(chapter_name ILIKE %s OR subject_name ILIKE %s)", p, p))
	}
	if opts.Goal != "" {
		clauses = append(clauses, fmt.Sprintf("%s = ANY(goals)", arg(opts.Goal)))
	}
	if opts.Subject != "" {
		clauses = append(clauses, fmt.Sprintf("subject_name = %s", arg(opts.Subject)))
	}
	switch opts.Kind {
	case note.KindNotes:
		clauses = append(clauses, fmt.Sprintf("label = %s", arg(note.LabelNote)))
	case note.KindFormulas:
		clauses = append(clauses, fmt.Sprintf("label IN (%s, %s)", arg(note.LabelFormula), arg(note.LabelDerivation)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (repo *noteRepository) UniqueSubjects() ([]string, error) {
	subjects := []string{}
	err := repo.db.Select(&subjects, `SELECT DISTINCT subject_name FROM note ORDER BY subject_name`)
	return subjects, errors.Wrap(err, "querying note subjects")
}

// Saved notes

func (repo *noteRepository) CreateUserNote(userID, noteID int, addedAt time.Time) (note.SavedNote, error) {
	sn := note.SavedNote{UserID: userID, NoteID: noteID, AddedAt: addedAt}
	row := repo.db.QueryRow(
		`INSERT INTO user_note (user_id, note_id, added_at) VALUES ($1, $2, $3) RETURNING id`,
		userID, noteID, addedAt,
	)
	if err := row.Scan(&sn.ID); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return note.SavedNote{}, note.ErrAlreadySaved
		}
		return note.SavedNote{}, errors.Wrap(err, "saving note")
	}

	n, err := repo.GetNoteByID(noteID)
	if err != nil {
		return note.SavedNote{}, err
	}
	sn.Note = n
	return sn, nil
}

func (repo *noteRepository) QueryUserNotes(userID int) ([]note.SavedNote, error) {
	var rows []struct {
		ID      int       `db:"user_note_id"`
		AddedAt time.Time `db:"added_at"`
		dbNote
	}
	err := repo.db.Select(
		&rows,
		`SELECT un.id AS user_note_id, un.added_at,
		        n.id, n.label, n.chapter_name, n.subject_name, n.goals, n.cost,
		        n.drive_link, n.is_published, n.created_at
		 FROM user_note un
		 JOIN note n ON n.id = un.note_id
		 WHERE un.user_id = $1
		 ORDER BY n.subject_name, un.added_at DESC`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying saved notes")
	}

	saved := make([]note.SavedNote, 0, len(rows))
	for _, row := range rows {
		saved = append(saved, note.SavedNote{
			ID:      row.ID,
			UserID:  userID,
			NoteID:  row.dbNote.ID,
			AddedAt: row.AddedAt.UTC(),
			Note:    row.toNote(),
		})
	}
	return saved, nil
}

func (repo *noteRepository) DeleteUserNote(userID, noteID int) error {
	res, err := repo.db.Exec(`DELETE FROM user_note WHERE user_id = $1 AND note_id = $2`, userID, noteID)
	if err != nil {
		return errors.Wrap(err, "removing saved note")
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return note.ErrNotSaved
	}
	return nil
}
