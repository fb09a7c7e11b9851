package repository

import (
	"context"

	"riskapi/internal/model"
)

// AssessmentRepository defines data access for stored assessments using SQL queries only.
// No business logic here, strictly persistence operations.
type AssessmentRepository interface {
	// Create inserts a new assessment record.
	// The caller should provide required fields (e.g., ID, CreatedAt) according to the database schema defaults.
	// Returns the stored assessment (may include values set by the DB).
	Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error)

	// FindByID returns an assessment by its ID.
	FindByID(ctx context.Context, id string) (*model.Assessment, error)

	// List returns a paginated list of assessments, newest first, and the total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Assessment], error)

	// SetReportKey records the object storage key of an archived report.
	SetReportKey(ctx context.Context, id, key string) error

	// Delete removes an assessment by ID.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
