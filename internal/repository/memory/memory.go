// Package memory provides in-memory implementations of the repository
// interfaces for running without a database. The factor catalog is fixed at
// construction time and assessments live only as long as the process.
package memory

import (
	"context"
	"database/sql"
	"sync"

	"riskapi/internal/model"
	"riskapi/internal/repository"
)

// Store implements repository.CatalogRepository and
// repository.AssessmentRepository backed by process memory.
//
// Not-found conditions are reported as sql.ErrNoRows so callers can treat
// memory and PostgreSQL repositories uniformly.
type Store struct {
	factors []model.RiskFactor

	mu          sync.RWMutex
	assessments []model.Assessment
}

// NewStore creates a Store serving the given factor catalog.
func NewStore(factors []model.RiskFactor) *Store {
	return &Store{factors: factors}
}

var (
	_ repository.CatalogRepository    = (*Store)(nil)
	_ repository.AssessmentRepository = (*Store)(nil)
)

// ListFactors returns a copy of the factor catalog in table order.
func (s *Store) ListFactors(ctx context.Context) ([]model.RiskFactor, error) {
	out := make([]model.RiskFactor, len(s.factors))
	for i, f := range s.factors {
		scores := make(map[string]float64, len(f.Scores))
		for subject, score := range f.Scores {
			scores[subject] = score
		}
		f.Scores = scores
		out[i] = f
	}
	return out, nil
}

// Create stores a new assessment.
func (s *Store) Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assessments = append(s.assessments, cloneAssessment(*a))
	stored := cloneAssessment(s.assessments[len(s.assessments)-1])
	return &stored, nil
}

// FindByID returns an assessment by its ID, or sql.ErrNoRows if absent.
func (s *Store) FindByID(ctx context.Context, id string) (*model.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.assessments {
		if a.ID == id {
			out := cloneAssessment(a)
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

// List returns assessments newest first using LIMIT/OFFSET pagination.
func (s *Store) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Assessment], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.assessments)
	items := make([]model.Assessment, 0)
	// Assessments are appended in creation order, so walk backwards for
	// newest-first like the SQL ORDER BY created_at DESC.
	for i := total - 1 - pq.Offset; i >= 0 && len(items) < pq.Limit; i-- {
		items = append(items, cloneAssessment(s.assessments[i]))
	}

	return &repository.PageResult[model.Assessment]{
		Items: items,
		Total: total,
	}, nil
}

// SetReportKey records the storage key of an archived report.
// Returns sql.ErrNoRows if the assessment does not exist.
func (s *Store) SetReportKey(ctx context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.assessments {
		if s.assessments[i].ID == id {
			s.assessments[i].ReportKey = key
			return nil
		}
	}
	return sql.ErrNoRows
}

// Delete removes an assessment by ID. It returns nil if the row did not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.assessments {
		if s.assessments[i].ID == id {
			s.assessments = append(s.assessments[:i], s.assessments[i+1:]...)
			return nil
		}
	}
	return nil
}

func cloneAssessment(a model.Assessment) model.Assessment {
	out := a
	out.Details = append([]model.FactorWeight(nil), a.Details...)
	return out
}
