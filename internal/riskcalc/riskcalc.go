// Package riskcalc computes weighted risk from a risk factor table.
// Each factor contributes severity * score to a subject's total; the
// breakdown keeps the table order.
package riskcalc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"riskapi/internal/model"
)

// ErrUnknownSubject is returned when a subject has no scores in the table.
var ErrUnknownSubject = errors.New("unknown subject")

// Summary holds one subject's total and per-factor weighted breakdown.
type Summary struct {
	Total   float64
	Details []model.FactorWeight
}

// Subjects returns every subject scored in the table, sorted for
// deterministic output.
func Subjects(factors []model.RiskFactor) []string {
	seen := make(map[string]struct{})
	for _, f := range factors {
		for subject := range f.Scores {
			seen[subject] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for subject := range seen {
		out = append(out, subject)
	}
	sort.Strings(out)
	return out
}

// Weighted computes the weighted risk of one subject: the per-factor
// breakdown in table order and the summed total. Subject match is exact and
// case-sensitive.
func Weighted(factors []model.RiskFactor, subject string) (float64, []model.FactorWeight, error) {
	known := Subjects(factors)
	if !contains(known, subject) {
		return 0, nil, fmt.Errorf("%w: must be one of %s", ErrUnknownSubject, quoteList(known))
	}

	var total float64
	details := make([]model.FactorWeight, 0, len(factors))
	for _, f := range factors {
		weighted := f.Severity * f.Scores[subject]
		details = append(details, model.FactorWeight{Factor: f.Name, Weighted: weighted})
		total += weighted
	}
	return total, details, nil
}

// All computes summaries for every subject in the table.
func All(factors []model.RiskFactor) map[string]Summary {
	out := make(map[string]Summary)
	for _, subject := range Subjects(factors) {
		total, details, err := Weighted(factors, subject)
		if err != nil {
			// Subjects came from the table itself; Weighted cannot miss.
			continue
		}
		out[subject] = Summary{Total: total, Details: details}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func quoteList(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}
