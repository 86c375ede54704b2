package taxonomy

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/vaaniprep/vaani/core"
)

// Goal is an exam track (eg. "CEE", "IOE"). Reference data: seeded once,
// rarely mutated, never deleted in normal operation.
type Goal struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Subject is a topic area scoped to exactly one Goal, optionally tagged with
// a category label (eg. "Science" vs "Commerce" within a Goal).
type Subject struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	GoalID   int         `json:"goalId"`
	Category null.String `json:"category,omitempty"`
}

type NewGoal struct {
	Name string `json:"name" validate:"required"`
}

func (ng *NewGoal) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	return validate.Struct(ng)
}

type NewSubject struct {
	Name     string `json:"name" validate:"required"`
	GoalID   int    `json:"goalId" validate:"required"`
	Category string `json:"category"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Category = core.CleanString(ns.Category)
	return validate.Struct(ns)
}
