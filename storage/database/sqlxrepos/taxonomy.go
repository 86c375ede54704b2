package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/vaaniprep/vaani/core/taxonomy"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = pq.ErrorCode("23505")

type dbSubject struct {
	ID       int         `db:"id"`
	Name     string      `db:"name"`
	GoalID   int         `db:"goal_id"`
	Category null.String `db:"category"`
}

func (s dbSubject) toSubject() taxonomy.Subject {
	return taxonomy.Subject{ID: s.ID, Name: s.Name, GoalID: s.GoalID, Category: s.Category}
}

type taxonomyRepository struct {
	db *sqlx.DB
}

var _ taxonomy.Repository = (*taxonomyRepository)(nil)

func NewTaxonomyRepository(db *sqlx.DB) *taxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (repo *taxonomyRepository) QueryAllGoals() ([]taxonomy.Goal, error) {
	goals := []taxonomy.Goal{}
	err := repo.db.Select(&goals, `SELECT id, name FROM goal ORDER BY name`)
	return goals, errors.Wrap(err, "querying goals")
}

func (repo *taxonomyRepository) GetGoalByID(id int) (taxonomy.Goal, error) {
	var g taxonomy.Goal
	if err := repo.db.Get(&g, `SELECT id, name FROM goal WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return taxonomy.Goal{}, taxonomy.ErrGoalNotFound
		}
		return taxonomy.Goal{}, errors.Wrap(err, "finding goal")
	}
	return g, nil
}

func (repo *taxonomyRepository) GetGoalByName(name string) (taxonomy.Goal, error) {
	var g taxonomy.Goal
	if err := repo.db.Get(&g, `SELECT id, name FROM goal WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return taxonomy.Goal{}, taxonomy.ErrGoalNotFound
		}
		return taxonomy.Goal{}, errors.Wrap(err, "finding goal")
	}
	return g, nil
}

func (repo *taxonomyRepository) CreateGoal(g taxonomy.Goal) (taxonomy.Goal, error) {
	row := repo.db.QueryRow(`INSERT INTO goal (name) VALUES ($1) RETURNING id`, g.Name)
	if err := row.Scan(&g.ID); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return taxonomy.Goal{}, taxonomy.ErrGoalExists
		}
		return taxonomy.Goal{}, errors.Wrap(err, "creating goal")
	}
	return g, nil
}

func (repo *taxonomyRepository) querySubjects(query string, args ...interface{}) ([]taxonomy.Subject, error) {
	var rows []dbSubject
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]taxonomy.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.toSubject())
	}
	return subjects, nil
}

func (repo *taxonomyRepository) QueryAllSubjects() ([]taxonomy.Subject, error) {
	return repo.querySubjects(`SELECT id, name, goal_id, category FROM subject ORDER BY name`)
}

func (repo *taxonomyRepository) QuerySubjectsByGoalID(goalID int) ([]taxonomy.Subject, error) {
	return repo.querySubjects(`SELECT id, name, goal_id, category FROM subject WHERE goal_id = $1 ORDER BY name`, goalID)
}

func (repo *taxonomyRepository) CreateSubject(s taxonomy.Subject) (taxonomy.Subject, error) {
	row := repo.db.QueryRow(
		`INSERT INTO subject (name, goal_id, category) VALUES ($1, $2, $3) RETURNING id`,
		s.Name, s.GoalID, s.Category,
	)
	if err := row.Scan(&s.ID); err != nil {
		return taxonomy.Subject{}, errors.Wrap(err, "creating subject")
	}
	return s, nil
}
