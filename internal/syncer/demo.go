package syncer

import (
	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/google/uuid"
)

// demoGoals returns the placeholder records substituted on a first run
// with no remote data and no cached records. None carry a remote id, so
// they are never pushed to the remote store.
func demoGoals() []*model.Goal {
	seed := []struct {
		title     string
		category  string
		target    float64
		current   float64
		unit      string
		frequency string
	}{
		{"Read 12 books", model.CategoryLearning, 12, 3, "books", model.FrequencyMonthly},
		{"Run 500 km", model.CategoryFitness, 500, 87, "km", model.FrequencyWeekly},
		{"Save for vacation", model.CategoryFinance, 3000, 1200, "dollars", model.FrequencyMonthly},
		{"Meditate daily", model.CategoryHealth, 365, 42, "sessions", model.FrequencyDaily},
		{"Ship a side project", model.CategoryCareer, 1, 0, "projects", model.FrequencyYearly},
	}

	goals := make([]*model.Goal, len(seed))
	for i, s := range seed {
		goals[i] = &model.Goal{
			ID:        uuid.New().String(),
			Title:     s.title,
			Category:  s.category,
			Target:    s.target,
			Current:   s.current,
			Unit:      s.unit,
			Frequency: s.frequency,
		}
	}
	return goals
}
