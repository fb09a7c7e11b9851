// Package catalog holds the canonical risk factor table: nine traits with
// severity multipliers and the raw scores of the two assessed subjects,
// Polly and Lisa. The table is the seed for the database migration and the
// full data set of the in-memory repository used in standalone mode.
package catalog

import "riskapi/internal/model"

var factors = []model.RiskFactor{
	{
		Name:     "Spontaneous Behavior",
		Severity: 8,
		Scores:   map[string]float64{"Polly": 2, "Lisa": 2},
	},
	{
		Name:     "Career Stability",
		Severity: 7,
		// Freelance/waitress work vs a corporate job.
		Scores: map[string]float64{"Polly": 2, "Lisa": 2},
	},
	{
		Name:     "Insurance/Health Coverage",
		Severity: 9,
		Scores:   map[string]float64{"Polly": 2, "Lisa": -2},
	},
	{
		Name:     "Lifestyle Stability",
		Severity: 6,
		Scores:   map[string]float64{"Polly": 4, "Lisa": -2},
	},
	{
		Name:     "High School Compatibility",
		Severity: 3,
		Scores:   map[string]float64{"Polly": 0, "Lisa": 0},
	},
	{
		Name:     "Childhood Affection",
		Severity: 5,
		Scores:   map[string]float64{"Polly": 0, "Lisa": 1},
	},
	{
		Name:     "Food Allergy & IBS",
		Severity: 4,
		Scores:   map[string]float64{"Polly": 3, "Lisa": 0},
	},
	{
		Name:     "Credit Score",
		Severity: 7,
		Scores:   map[string]float64{"Polly": 3, "Lisa": -2},
	},
	{
		Name:     "Family Health Background",
		Severity: 6,
		Scores:   map[string]float64{"Polly": 4, "Lisa": 0},
	},
}

// Factors returns a fresh copy of the canonical table in its stable order,
// with Position set from the table index. Callers may mutate the result.
func Factors() []model.RiskFactor {
	out := make([]model.RiskFactor, len(factors))
	for i, f := range factors {
		scores := make(map[string]float64, len(f.Scores))
		for subject, score := range f.Scores {
			scores[subject] = score
		}
		out[i] = model.RiskFactor{
			Name:     f.Name,
			Severity: f.Severity,
			Scores:   scores,
			Position: i,
		}
	}
	return out
}
