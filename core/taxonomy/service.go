package taxonomy

import (
	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
)

var (
	// errors
	ErrGoalNotFound = errors.New("goal not found")
	ErrGoalExists   = errors.New("a goal with this name already exists")
)

type (
	Repository interface {
		QueryAllGoals() ([]Goal, error)
		GetGoalByID(id int) (Goal, error)
		GetGoalByName(name string) (Goal, error)
		CreateGoal(g Goal) (Goal, error)

		QueryAllSubjects() ([]Subject, error)
		// QuerySubjectsByGoalID returns an empty set for unknown goal ids, not an error.
		QuerySubjectsByGoalID(goalID int) ([]Subject, error)
		CreateSubject(s Subject) (Subject, error)
	}

	Service interface {
		QueryAllGoals() ([]Goal, error)
		QueryAllSubjects() ([]Subject, error)
		QueryGoalSubjects(goalID int) ([]Subject, error)
		CreateGoal(ng NewGoal) (Goal, error)
		CreateSubject(ns NewSubject) (Subject, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryAllGoals() ([]Goal, error) {
	return svc.repo.QueryAllGoals()
}

func (svc *service) QueryAllSubjects() ([]Subject, error) {
	return svc.repo.QueryAllSubjects()
}

func (svc *service) QueryGoalSubjects(goalID int) ([]Subject, error) {
	return svc.repo.QuerySubjectsByGoalID(goalID)
}

func (svc *service) CreateGoal(ng NewGoal) (Goal, error) {
	if _, err := svc.repo.GetGoalByName(ng.Name); err == nil {
		return Goal{}, core.NewValidationError(ErrGoalExists, core.FieldError{Field: "name", Error: ErrGoalExists.Error()})
	} else if errors.Cause(err) != ErrGoalNotFound {
		return Goal{}, err
	}
	return svc.repo.CreateGoal(Goal{Name: ng.Name})
}

func (svc *service) CreateSubject(ns NewSubject) (Subject, error) {
	if _, err := svc.repo.GetGoalByID(ns.GoalID); err != nil {
		if errors.Cause(err) == ErrGoalNotFound {
			return Subject{}, core.NewValidationError(err, core.FieldError{Field: "goalId", Error: ErrGoalNotFound.Error()})
		}
		return Subject{}, err
	}

	subj := Subject{Name: ns.Name, GoalID: ns.GoalID}
	if ns.Category != "" {
		subj.Category.SetValid(ns.Category)
	}
	return svc.repo.CreateSubject(subj)
}
