package repository

import (
	"context"

	"riskapi/internal/model"
)

// CatalogRepository defines data access for the risk factor catalog.
// Factors are returned in canonical table order.
type CatalogRepository interface {
	// ListFactors returns every risk factor with its per-subject scores.
	ListFactors(ctx context.Context) ([]model.RiskFactor, error)
}
