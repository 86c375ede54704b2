package inmemdb

import (
	"sort"

	"github.com/vaaniprep/vaani/core/taxonomy"
)

type taxonomyRepository struct {
	db *taxonomyTable
}

var _ taxonomy.Repository = (*taxonomyRepository)(nil)

func NewTaxonomyRepository(db *DB) *taxonomyRepository {
	return &taxonomyRepository{db: db.taxonomy}
}

func (repo *taxonomyRepository) QueryAllGoals() ([]taxonomy.Goal, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	goals := make([]taxonomy.Goal, 0, len(repo.db.goals))
	for _, g := range repo.db.goals {
		goals = append(goals, *g)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].Name < goals[j].Name })
	return goals, nil
}

func (repo *taxonomyRepository) GetGoalByID(id int) (taxonomy.Goal, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if g, ok := repo.db.goals[id]; ok {
		return *g, nil
	}
	return taxonomy.Goal{}, taxonomy.ErrGoalNotFound
}

func (repo *taxonomyRepository) GetGoalByName(name string) (taxonomy.Goal, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, g := range repo.db.goals {
		if g.Name == name {
			return *g, nil
		}
	}
	return taxonomy.Goal{}, taxonomy.ErrGoalNotFound
}

func (repo *taxonomyRepository) CreateGoal(g taxonomy.Goal) (taxonomy.Goal, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.goals {
		if existing.Name == g.Name {
			return taxonomy.Goal{}, taxonomy.ErrGoalExists
		}
	}
	repo.db.lastGoalID++
	g.ID = repo.db.lastGoalID
	repo.db.goals[g.ID] = &g
	return g, nil
}

func (repo *taxonomyRepository) querySubjects(match func(taxonomy.Subject) bool) []taxonomy.Subject {
	subjects := make([]taxonomy.Subject, 0, len(repo.db.subjects))
	for _, s := range repo.db.subjects {
		if match(*s) {
			subjects = append(subjects, *s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects
}

func (repo *taxonomyRepository) QueryAllSubjects() ([]taxonomy.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.querySubjects(func(taxonomy.Subject) bool { return true }), nil
}

func (repo *taxonomyRepository) QuerySubjectsByGoalID(goalID int) ([]taxonomy.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.querySubjects(func(s taxonomy.Subject) bool { return s.GoalID == goalID }), nil
}

func (repo *taxonomyRepository) CreateSubject(s taxonomy.Subject) (taxonomy.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.lastSubjID++
	s.ID = repo.db.lastSubjID
	repo.db.subjects[s.ID] = &s
	return s, nil
}
