// Package model contains pure domain models with no database-specific
// dependencies or tags beyond JSON. Types here are shared across layers
// (HTTP, service, repository) without coupling to persistence.
package model

// RiskFactor is one row of the risk table: a named trait with a severity
// multiplier (1-10) and the raw risk score of every known subject.
// Weighted risk for a subject is Severity * Scores[subject]; negative
// scores reduce the total.
type RiskFactor struct {
	Name     string             `json:"factor"`
	Severity float64            `json:"severity"`
	Scores   map[string]float64 `json:"scores"`

	// Position fixes the canonical table order in listings and reports.
	Position int `json:"-"`
}
