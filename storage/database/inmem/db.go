// Package inmemdb provides map-backed Repository implementations. They keep
// the HTTP layer and its tests free of any running database.
package inmemdb

import (
	"sync"

	"github.com/vaaniprep/vaani/core/admin"
	"github.com/vaaniprep/vaani/core/note"
	"github.com/vaaniprep/vaani/core/taxonomy"
	"github.com/vaaniprep/vaani/core/user"
)

type (
	userTable struct {
		mutex  sync.RWMutex
		table  map[int]*user.User
		tokens map[string]user.ResetToken // keyed by string(TokenHash)
		lastID int
	}

	taxonomyTable struct {
		mutex      sync.RWMutex
		goals      map[int]*taxonomy.Goal
		subjects   map[int]*taxonomy.Subject
		lastGoalID int
		lastSubjID int
	}

	noteTable struct {
		mutex      sync.RWMutex
		table      map[int]*note.Note
		saved      map[int]*note.SavedNote
		lastID     int
		lastSaveID int
	}

	adminTable struct {
		mutex  sync.RWMutex
		table  map[int]*admin.Admin
		lastID int
	}

	DB struct {
		user     *userTable
		taxonomy *taxonomyTable
		note     *noteTable
		admin    *adminTable
	}
)

func NewDB() *DB {
	return &DB{
		user: &userTable{
			table:  make(map[int]*user.User),
			tokens: make(map[string]user.ResetToken),
		},
		taxonomy: &taxonomyTable{
			goals:    make(map[int]*taxonomy.Goal),
			subjects: make(map[int]*taxonomy.Subject),
		},
		note: &noteTable{
			table: make(map[int]*note.Note),
			saved: make(map[int]*note.SavedNote),
		},
		admin: &adminTable{
			table: make(map[int]*admin.Admin),
		},
	}
}
