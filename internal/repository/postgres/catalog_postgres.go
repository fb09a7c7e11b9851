package postgres

import (
	"context"
	"database/sql"

	"riskapi/internal/model"
	"riskapi/internal/repository"
)

// CatalogPostgres is a PostgreSQL implementation of repository.CatalogRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type CatalogPostgres struct {
	db *sql.DB
}

// NewCatalogPostgres creates a new CatalogPostgres repository.
func NewCatalogPostgres(db *sql.DB) *CatalogPostgres {
	return &CatalogPostgres{db: db}
}

var _ repository.CatalogRepository = (*CatalogPostgres)(nil)

// ListFactors returns every factor with its per-subject scores, in table order.
func (r *CatalogPostgres) ListFactors(ctx context.Context) ([]model.RiskFactor, error) {
	const q = `
		SELECT f.name, f.severity, f.position, s.subject, s.score
		FROM risk_factors f
		LEFT JOIN risk_scores s ON s.factor_name = f.name
		ORDER BY f.position, s.subject
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	factors := make([]model.RiskFactor, 0)
	for rows.Next() {
		var (
			name     string
			severity float64
			position int
			subject  sql.NullString
			score    sql.NullFloat64
		)
		if err := rows.Scan(&name, &severity, &position, &subject, &score); err != nil {
			return nil, err
		}

		// Rows arrive ordered by position, so consecutive rows with the same
		// name belong to the same factor.
		if len(factors) == 0 || factors[len(factors)-1].Name != name {
			factors = append(factors, model.RiskFactor{
				Name:     name,
				Severity: severity,
				Position: position,
				Scores:   make(map[string]float64),
			})
		}
		if subject.Valid {
			factors[len(factors)-1].Scores[subject.String] = score.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return factors, nil
}
