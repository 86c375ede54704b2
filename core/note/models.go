package note

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/vaaniprep/vaani/core"
)

// Labels distinguish the three kinds of catalog content.
const (
	LabelNote       = "Note"
	LabelFormula    = "Formula"
	LabelDerivation = "Derivation"
)

// CostFree is the price-tier marker for free content; anything else is a
// currency-formatted string (eg. "Rs. 99").
const CostFree = "Free"

// Kind is the content-kind filter of the admin listing ("activeTab").
type Kind string

const (
	KindAll      Kind = ""
	KindNotes    Kind = "notes"    // label == "Note"
	KindFormulas Kind = "formulas" // label in {"Formula", "Derivation"}
)

// Note is a chapter note, formula sheet or derivation. Goal and subject are
// kept as denormalized strings matching the taxonomy names.
type Note struct {
	ID          int         `json:"id"`
	Label       string      `json:"label"`
	ChapterName string      `json:"chapterName"`
	SubjectName string      `json:"subjectName"`
	Goals       []string    `json:"goals"`
	Cost        string      `json:"cost"`
	DriveLink   null.String `json:"driveLink,omitempty"`
	IsPublished bool        `json:"isPublished"`
	CreatedAt   time.Time   `json:"createdAt"` // UTC
}

// SavedNote records that a user added a note to their dashboard.
// The (user, note) pair is unique.
type SavedNote struct {
	ID      int       `json:"id"`
	UserID  int       `json:"-"`
	NoteID  int       `json:"noteId"`
	AddedAt time.Time `json:"addedAt"` // UTC
	Note    Note      `json:"note"`
}

// NewNote contains information needed to create a Note.
type NewNote struct {
	ChapterName string   `json:"chapterName" validate:"required"`
	Label       string   `json:"label" validate:"required,oneof=Note Formula Derivation"`
	SubjectName string   `json:"subjectName" validate:"required"`
	Cost        string   `json:"cost" validate:"required"`
	Goals       []string `json:"goals" validate:"required,min=1,dive,required"`
	DriveLink   string   `json:"driveLink" validate:"omitempty,url"`
	IsPublished bool     `json:"isPublished"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.ChapterName = core.CleanString(nn.ChapterName)
	nn.SubjectName = core.CleanString(nn.SubjectName)
	nn.Cost = core.CleanString(nn.Cost)
	nn.DriveLink = core.CleanString(nn.DriveLink)
	for i, g := range nn.Goals {
		nn.Goals[i] = core.CleanString(g)
	}
	return validate.Struct(nn)
}

// UpdateNote defines what information may be provided to modify a Note;
// all fields are optional.
type UpdateNote struct {
	ChapterName string   `json:"chapterName"`
	Label       string   `json:"label" validate:"omitempty,oneof=Note Formula Derivation"`
	SubjectName string   `json:"subjectName"`
	Cost        string   `json:"cost"`
	Goals       []string `json:"goals" validate:"omitempty,min=1,dive,required"`
	DriveLink   *string  `json:"driveLink" validate:"omitempty,url"`
	IsPublished *bool    `json:"isPublished"`
}

func (un *UpdateNote) Validate(validate *validator.Validate) error {
	un.ChapterName = core.CleanString(un.ChapterName)
	un.Label = core.CleanString(un.Label)
	un.SubjectName = core.CleanString(un.SubjectName)
	un.Cost = core.CleanString(un.Cost)
	for i, g := range un.Goals {
		un.Goals[i] = core.CleanString(g)
	}
	return validate.Struct(un)
}

// QueryOptions is the typed filter of the paginated admin listing.
// All supplied criteria combine as a logical AND.
type QueryOptions struct {
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
	Search  string `query:"search"`
	Goal    string `query:"goal"`
	Subject string `query:"subject"`
	Kind    Kind   `query:"activeTab"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (qo *QueryOptions) Clean() {
	qo.Search = core.CleanString(qo.Search)
	qo.Goal = core.CleanString(qo.Goal)
	qo.Subject = core.CleanString(qo.Subject)
	if qo.Page < 1 {
		qo.Page = 1
	}
	if qo.Limit < 1 {
		qo.Limit = defaultPageSize
	} else if qo.Limit > maxPageSize {
		qo.Limit = maxPageSize
	}
}

// Matches reports whether a note satisfies every supplied criterion.
func (qo QueryOptions) Matches(n Note) bool {
	if qo.Search != "" {
		s := strings.ToLower(qo.Search)
		if !strings.Contains(strings.ToLower(n.ChapterName), s) &&
			!strings.Contains(strings.ToLower(n.SubjectName), s) {
			return false
		}
	}
	if qo.Goal != "" {
		var found bool
		for _, g := range n.Goals {
			if g == qo.Goal {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if qo.Subject != "" && n.SubjectName != qo.Subject {
		return false
	}
	switch qo.Kind {
	case KindNotes:
		return n.Label == LabelNote
	case KindFormulas:
		return n.Label == LabelFormula || n.Label == LabelDerivation
	}
	return true
}
