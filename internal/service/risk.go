package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"riskapi/internal/model"
	"riskapi/internal/render"
	"riskapi/internal/repository"
	"riskapi/internal/riskcalc"
	"riskapi/internal/storage"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrSubjectRequired = errors.New("subject is required")
	ErrNotFound        = errors.New("assessment not found")
	ErrNoReport        = errors.New("report not archived")
	ErrArchiveDisabled = errors.New("report archive is not configured")
)

// reportURLExpiry bounds how long presigned report download URLs stay valid.
const reportURLExpiry = 15 * time.Minute

// RiskTable is the service-level DTO for the full weighted risk table.
// Row keys are data-driven: "factor", "severity", one key per subject name
// holding the raw score, and "<lowercased subject>_weighted" per subject.
type RiskTable struct {
	Rows   []map[string]any   `json:"rows"`
	Totals map[string]float64 `json:"totals"`
}

// SubjectRisk is the weighted risk breakdown for a single subject.
type SubjectRisk struct {
	Person  string               `json:"person"`
	Total   float64              `json:"total"`
	Details []model.FactorWeight `json:"details"`
}

// AssessmentListResult is the service-level DTO for paginated assessments.
type AssessmentListResult struct {
	Items []model.Assessment `json:"data"`
	Total int                `json:"total"`
}

// ReportArchive describes an archived report and a time-limited download URL.
type ReportArchive struct {
	ID         string `json:"id"`
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

// Renderer renders a named template with the given context.
type Renderer interface {
	Render(name string, data map[string]any) (string, error)
}

// RiskService defines the use cases for risk analysis and assessments.
type RiskService interface {
	// Table returns the full risk table with per-subject weighted values and totals.
	Table(ctx context.Context) (*RiskTable, error)

	// SubjectRisk returns the total and per-factor weighted risks for one subject.
	// Unknown subjects yield riskcalc.ErrUnknownSubject.
	SubjectRisk(ctx context.Context, subject string) (*SubjectRisk, error)

	// IndexHTML renders the frontend page with the current risk table injected
	// as initial data.
	IndexHTML(ctx context.Context) (string, error)

	// CreateAssessment computes the current weighted risk for the subject and
	// persists it as an immutable snapshot.
	CreateAssessment(ctx context.Context, subject string) (*model.Assessment, error)

	// ListAssessments returns assessments using limit/offset and a total count.
	ListAssessments(ctx context.Context, limit, offset int) (*AssessmentListResult, error)

	// GetAssessment returns a single assessment by its ID.
	GetAssessment(ctx context.Context, id string) (*model.Assessment, error)

	// ArchiveReport renders the HTML report for an assessment, uploads it to
	// object storage, records the storage key, and returns a presigned URL.
	// Rolls the uploaded object back if recording the key fails.
	ArchiveReport(ctx context.Context, id string) (*ReportArchive, error)

	// DownloadReport streams a previously archived report back from storage.
	DownloadReport(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)

	// DeleteAssessment removes an assessment and its archived report, if any.
	DeleteAssessment(ctx context.Context, id string) error
}

// riskService is a concrete implementation of RiskService.
// store is nil when no object storage is configured; archive operations then
// fail with ErrArchiveDisabled.
type riskService struct {
	catalog  repository.CatalogRepository
	repo     repository.AssessmentRepository
	store    storage.Storage
	renderer Renderer
}

// NewRiskService constructs a new RiskService.
func NewRiskService(catalog repository.CatalogRepository, repo repository.AssessmentRepository, store storage.Storage, renderer Renderer) RiskService {
	return &riskService{catalog: catalog, repo: repo, store: store, renderer: renderer}
}

func (s *riskService) Table(ctx context.Context) (*RiskTable, error) {
	factors, err := s.catalog.ListFactors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list factors: %w", err)
	}

	subjects := riskcalc.Subjects(factors)
	rows := make([]map[string]any, 0, len(factors))
	for _, f := range factors {
		row := map[string]any{
			"factor":   f.Name,
			"severity": f.Severity,
		}
		for _, subject := range subjects {
			score := f.Scores[subject]
			row[subject] = score
			row[strings.ToLower(subject)+"_weighted"] = f.Severity * score
		}
		rows = append(rows, row)
	}

	all := riskcalc.All(factors)
	totals := make(map[string]float64, len(all))
	for subject, summary := range all {
		totals[subject] = summary.Total
	}

	return &RiskTable{Rows: rows, Totals: totals}, nil
}

func (s *riskService) SubjectRisk(ctx context.Context, subject string) (*SubjectRisk, error) {
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	factors, err := s.catalog.ListFactors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list factors: %w", err)
	}
	total, details, err := riskcalc.Weighted(factors, subject)
	if err != nil {
		return nil, err
	}
	return &SubjectRisk{Person: subject, Total: total, Details: details}, nil
}

// IndexHTML renders the frontend with the current table injected so the first
// paint needs no API round trip.
func (s *riskService) IndexHTML(ctx context.Context) (string, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return "", err
	}
	initial, err := json.Marshal(table)
	if err != nil {
		return "", fmt.Errorf("marshal initial data: %w", err)
	}
	html, err := s.renderer.Render(render.IndexTemplate, map[string]any{
		"initial_data": string(initial),
	})
	if err != nil {
		return "", fmt.Errorf("render frontend: %w", err)
	}
	return html, nil
}

func (s *riskService) CreateAssessment(ctx context.Context, subject string) (*model.Assessment, error) {
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	factors, err := s.catalog.ListFactors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list factors: %w", err)
	}
	total, details, err := riskcalc.Weighted(factors, subject)
	if err != nil {
		return nil, err
	}

	a := &model.Assessment{
		ID:        uuid.New().String(),
		Subject:   subject,
		Total:     total,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// ListAssessments returns paginated assessments without exposing repository types.
func (s *riskService) ListAssessments(ctx context.Context, limit, offset int) (*AssessmentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AssessmentListResult{Items: res.Items, Total: res.Total}, nil
}

// GetAssessment returns an assessment by ID.
func (s *riskService) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *riskService) ArchiveReport(ctx context.Context, id string) (*ReportArchive, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if s.store == nil {
		return nil, ErrArchiveDisabled
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	html, err := s.renderer.Render(render.ReportTemplate, reportContext(a))
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	key := "reports/" + a.ID + ".html"
	_, err = s.store.Put(ctx, key, strings.NewReader(html), storage.PutObjectOptions{
		Size:        int64(len(html)),
		ContentType: "text/html; charset=utf-8",
		Metadata: map[string]string{
			"subject": a.Subject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.repo.SetReportKey(ctx, id, key); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, reportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign report url: %w", err)
	}

	return &ReportArchive{ID: a.ID, StorageKey: key, URL: url}, nil
}

// DownloadReport streams an archived report from object storage.
func (s *riskService) DownloadReport(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	if id == "" {
		return nil, storage.ObjectInfo{}, ErrIDRequired
	}
	if s.store == nil {
		return nil, storage.ObjectInfo{}, ErrArchiveDisabled
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	if a.ReportKey == "" {
		return nil, storage.ObjectInfo{}, ErrNoReport
	}

	rc, info, err := s.store.Get(ctx, a.ReportKey)
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("read report from storage: %w", err)
	}
	return rc, info, nil
}

// DeleteAssessment removes the archived report from storage, then deletes the record.
func (s *riskService) DeleteAssessment(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep the DB row so the report reference survives
	if a.ReportKey != "" && s.store != nil {
		if err := s.store.Delete(ctx, a.ReportKey); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	return s.repo.Delete(ctx, id)
}

func reportContext(a *model.Assessment) map[string]any {
	details := make([]map[string]any, 0, len(a.Details))
	for _, d := range a.Details {
		details = append(details, map[string]any{
			"factor":   d.Factor,
			"weighted": formatNumber(d.Weighted),
		})
	}
	return map[string]any{
		"id":         a.ID,
		"subject":    a.Subject,
		"total":      formatNumber(a.Total),
		"created_at": a.CreatedAt.UTC().Format(time.RFC3339),
		"details":    details,
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
