package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/note"
	"github.com/vaaniprep/vaani/core/taxonomy"
)

// examTracks is the launch taxonomy: exam tracks and their subjects.
var examTracks = []struct {
	goal     string
	subjects []string
}{
	{"CEE", []string{"Physics", "Chemistry", "Botany", "Zoology", "MAT"}},
	{"IOE", []string{"Physics", "Chemistry", "Mathematics", "English", "Engineering Aptitude"}},
}

var demoNotes = []note.NewNote{
	{ChapterName: "Ray Optics", Label: note.LabelNote, SubjectName: "Physics", Cost: note.CostFree, Goals: []string{"CEE", "IOE"}, IsPublished: true},
	{ChapterName: "Electrostatics", Label: note.LabelFormula, SubjectName: "Physics", Cost: note.CostFree, Goals: []string{"IOE"}, IsPublished: true},
	{ChapterName: "Chemical Bonding", Label: note.LabelNote, SubjectName: "Chemistry", Cost: "Rs. 99", Goals: []string{"CEE"}, IsPublished: true},
	{ChapterName: "Lens Maker's Formula", Label: note.LabelDerivation, SubjectName: "Physics", Cost: note.CostFree, Goals: []string{"CEE"}},
}

// seed loads the launch taxonomy and a handful of demo notes. It is
// idempotent: existing goals are reused and notes are only created once.
func (cli *commandLine) seed() error {
	for _, track := range examTracks {
		goal, err := cli.seedGoal(track.goal)
		if err != nil {
			return err
		}

		existing, err := cli.taxSvc.QueryGoalSubjects(goal.ID)
		if err != nil {
			return err
		}
		names := make(map[string]bool, len(existing))
		for _, s := range existing {
			names[s.Name] = true
		}

		for _, subject := range track.subjects {
			if names[subject] {
				continue
			}
			if _, err := cli.taxSvc.CreateSubject(taxonomy.NewSubject{Name: subject, GoalID: goal.ID}); err != nil {
				return errors.Wrapf(err, "creating subject %q", subject)
			}
		}
	}

	notes, err := cli.noteSvc.QueryAll()
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		for _, nn := range demoNotes {
			if _, err := cli.noteSvc.Create(nn); err != nil {
				return errors.Wrapf(err, "creating note %q", nn.ChapterName)
			}
		}
	}

	fmt.Println("seed complete")
	return nil
}

func (cli *commandLine) seedGoal(name string) (taxonomy.Goal, error) {
	goal, err := cli.taxSvc.CreateGoal(taxonomy.NewGoal{Name: name})
	if err == nil {
		return goal, nil
	}
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		return taxonomy.Goal{}, errors.Wrapf(err, "creating goal %q", name)
	}

	// already seeded; look it up
	goals, err := cli.taxSvc.QueryAllGoals()
	if err != nil {
		return taxonomy.Goal{}, err
	}
	for _, g := range goals {
		if g.Name == name {
			return g, nil
		}
	}
	return taxonomy.Goal{}, errors.Errorf("goal %q exists but could not be found", name)
}
