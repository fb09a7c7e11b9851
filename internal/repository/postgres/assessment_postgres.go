package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"riskapi/internal/model"
	"riskapi/internal/repository"
)

// AssessmentPostgres is a PostgreSQL implementation of repository.AssessmentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AssessmentPostgres struct {
	db *sql.DB
}

// NewAssessmentPostgres creates a new AssessmentPostgres repository.
func NewAssessmentPostgres(db *sql.DB) *AssessmentPostgres {
	return &AssessmentPostgres{db: db}
}

var _ repository.AssessmentRepository = (*AssessmentPostgres)(nil)

// Create inserts a new assessment row and returns the stored record.
// Details are persisted as JSONB in the wire format.
func (r *AssessmentPostgres) Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO assessments (id, subject, total, details, report_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, subject, total, details, report_key, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.Subject,
		a.Total,
		details,
		a.ReportKey,
		a.CreatedAt,
	)
	var (
		out        model.Assessment
		detailsRaw []byte
	)
	if err := row.Scan(
		&out.ID,
		&out.Subject,
		&out.Total,
		&detailsRaw,
		&out.ReportKey,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(detailsRaw, &out.Details); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single assessment by its ID.
func (r *AssessmentPostgres) FindByID(ctx context.Context, id string) (*model.Assessment, error) {
	const q = `
		SELECT id, subject, total, details, report_key, created_at
		FROM assessments
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var (
		a          model.Assessment
		detailsRaw []byte
	)
	if err := row.Scan(
		&a.ID,
		&a.Subject,
		&a.Total,
		&detailsRaw,
		&a.ReportKey,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(detailsRaw, &a.Details); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns assessments using LIMIT/OFFSET pagination and a total count.
func (r *AssessmentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Assessment], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM assessments`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT id, subject, total, details, report_key, created_at
		FROM assessments
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Assessment, 0)
	for rows.Next() {
		var (
			a          model.Assessment
			detailsRaw []byte
		)
		if err := rows.Scan(
			&a.ID,
			&a.Subject,
			&a.Total,
			&detailsRaw,
			&a.ReportKey,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsRaw, &a.Details); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Assessment]{
		Items: items,
		Total: total,
	}, nil
}

// SetReportKey records the storage key of an archived report.
// Returns sql.ErrNoRows if the assessment does not exist.
func (r *AssessmentPostgres) SetReportKey(ctx context.Context, id, key string) error {
	const q = `UPDATE assessments SET report_key = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an assessment by ID. Deleting a missing row is not an error.
func (r *AssessmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM assessments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
