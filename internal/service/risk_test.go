package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"riskapi/internal/catalog"
	"riskapi/internal/model"
	"riskapi/internal/render"
	"riskapi/internal/repository"
	repoMocks "riskapi/internal/repository/mocks"
	"riskapi/internal/riskcalc"
	"riskapi/internal/storage"
	storeMocks "riskapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockRenderer keeps service tests free of real template parsing.
type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(name string, data map[string]any) (string, error) {
	args := m.Called(name, data)
	return args.String(0), args.Error(1)
}

func TestRiskService_Table(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mCatalog.On("ListFactors", ctx).Return(catalog.Factors(), nil)
		svc := NewRiskService(mCatalog, nil, nil, nil)

		table, err := svc.Table(ctx)

		require.NoError(t, err)
		require.Len(t, table.Rows, 9)
		first := table.Rows[0]
		assert.Equal(t, "Spontaneous Behavior", first["factor"])
		assert.Equal(t, 8.0, first["severity"])
		assert.Equal(t, 2.0, first["Polly"])
		assert.Equal(t, 2.0, first["Lisa"])
		assert.Equal(t, 16.0, first["polly_weighted"])
		assert.Equal(t, 16.0, first["lisa_weighted"])
		assert.Equal(t, map[string]float64{"Polly": 129, "Lisa": -9}, table.Totals)
		mCatalog.AssertExpectations(t)
	})

	t.Run("catalog error", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mCatalog.On("ListFactors", ctx).Return(nil, errors.New("db fail"))
		svc := NewRiskService(mCatalog, nil, nil, nil)

		table, err := svc.Table(ctx)

		assert.Error(t, err)
		assert.Nil(t, table)
	})
}

func TestRiskService_SubjectRisk(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		subject    string
		setupMocks func(mCatalog *repoMocks.MockCatalogRepository)
		wantErr    error
		checkRes   func(t *testing.T, res *SubjectRisk)
	}{
		{
			name:    "happy path",
			subject: "Polly",
			setupMocks: func(mCatalog *repoMocks.MockCatalogRepository) {
				mCatalog.On("ListFactors", ctx).Return(catalog.Factors(), nil)
			},
			checkRes: func(t *testing.T, res *SubjectRisk) {
				assert.Equal(t, "Polly", res.Person)
				assert.Equal(t, 129.0, res.Total)
				require.Len(t, res.Details, 9)
				assert.Equal(t, model.FactorWeight{Factor: "Spontaneous Behavior", Weighted: 16}, res.Details[0])
			},
		},
		{
			name:    "unknown subject",
			subject: "Reuben",
			setupMocks: func(mCatalog *repoMocks.MockCatalogRepository) {
				mCatalog.On("ListFactors", ctx).Return(catalog.Factors(), nil)
			},
			wantErr: riskcalc.ErrUnknownSubject,
		},
		{
			name:       "validation - empty subject",
			subject:    "",
			setupMocks: func(mCatalog *repoMocks.MockCatalogRepository) {},
			wantErr:    ErrSubjectRequired,
		},
		{
			name:    "catalog error",
			subject: "Polly",
			setupMocks: func(mCatalog *repoMocks.MockCatalogRepository) {
				mCatalog.On("ListFactors", ctx).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mCatalog := new(repoMocks.MockCatalogRepository)
			svc := NewRiskService(mCatalog, nil, nil, nil)

			tt.setupMocks(mCatalog)

			res, err := svc.SubjectRisk(ctx, tt.subject)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrSubjectRequired) || errors.Is(tt.wantErr, riskcalc.ErrUnknownSubject) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, res)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mCatalog.AssertExpectations(t)
		})
	}
}

func TestRiskService_IndexHTML(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mCatalog.On("ListFactors", ctx).Return(catalog.Factors(), nil)

		mRenderer := new(mockRenderer)
		mRenderer.On("Render", render.IndexTemplate, mock.MatchedBy(func(data map[string]any) bool {
			initial, ok := data["initial_data"].(string)
			return ok && strings.Contains(initial, `"totals"`) && strings.Contains(initial, `"Polly":129`)
		})).Return("<html>frontend</html>", nil)

		svc := NewRiskService(mCatalog, nil, nil, mRenderer)

		html, err := svc.IndexHTML(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "<html>frontend</html>", html)
		mRenderer.AssertExpectations(t)
	})

	t.Run("render error", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mCatalog.On("ListFactors", ctx).Return(catalog.Factors(), nil)

		mRenderer := new(mockRenderer)
		mRenderer.On("Render", render.IndexTemplate, mock.Anything).
			Return("", errors.New("template fail"))

		svc := NewRiskService(mCatalog, nil, nil, mRenderer)

		_, err := svc.IndexHTML(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "render frontend")
	})
}

func TestRiskService_CreateAssessment(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		subject    string
		setupMocks func(mCatalog *repoMocks.MockCatalogRepository, mRepo *repoMocks.MockAssessmentRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:    "happy path",
			subject: "Polly",
			setupMocks: func(mCatalog *repoMocks.MockCatalogRepository, mRepo *repoMocks.MockAssessmentRepository) {
				mCatalog.On("ListFactors", ctx).Return(catalog.Factors(), nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Assessment) bool {
					return a.ID != "" && a.Subject == "Polly" && a.Total == 129 && len(a.Details) == 9
				})).Return(&model.Assessment{ID: "gen-id", Subject: "Polly", Total: 129}, nil)
			},
		},
		{
			name:    "unknown subject",
			subject: "Reuben",
			setupMocks: func(mCatalog *repoMocks.MockCatalogRepository, mRepo *repoMocks.MockAssessmentRepository) {
				mCatalog.On("ListFactors", ctx).Return(catalog.Factors(), nil)
			},
			wantErr: riskcalc.ErrUnknownSubject,
		},
		{
			name:       "validation - empty subject",
			subject:    "",
			setupMocks: func(mCatalog *repoMocks.MockCatalogRepository, mRepo *repoMocks.MockAssessmentRepository) {},
			wantErr:    ErrSubjectRequired,
		},
		{
			name:    "repository error",
			subject: "Lisa",
			setupMocks: func(mCatalog *repoMocks.MockCatalogRepository, mRepo *repoMocks.MockAssessmentRepository) {
				mCatalog.On("ListFactors", ctx).Return(catalog.Factors(), nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErrMsg: "db save failed: db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mCatalog := new(repoMocks.MockCatalogRepository)
			mRepo := new(repoMocks.MockAssessmentRepository)
			svc := NewRiskService(mCatalog, mRepo, nil, nil)

			tt.setupMocks(mCatalog, mRepo)

			a, err := svc.CreateAssessment(ctx, tt.subject)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, a)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, a)
			}
			mCatalog.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestRiskService_ListAssessments(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockAssessmentRepository)
		wantErr    error
		checkRes   func(t *testing.T, res *AssessmentListResult)
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Assessment]{
						Items: []model.Assessment{{ID: "1"}, {ID: "2"}},
						Total: 2,
					}, nil)
			},
			checkRes: func(t *testing.T, res *AssessmentListResult) {
				assert.Equal(t, 2, len(res.Items))
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			limit:  0,
			offset: -1,
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Assessment]{Items: []model.Assessment{}, Total: 0}, nil)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAssessmentRepository)
			svc := NewRiskService(nil, mRepo, nil, nil)

			tt.setupMocks(mRepo)

			res, err := svc.ListAssessments(ctx, tt.limit, tt.offset)

			if tt.wantErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestRiskService_GetAssessment(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockAssessmentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("FindByID", ctx, "valid-id").Return(&model.Assessment{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   "error-id",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("FindByID", ctx, "error-id").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAssessmentRepository)
			svc := NewRiskService(nil, mRepo, nil, nil)

			tt.setupMocks(mRepo)

			a, err := svc.GetAssessment(ctx, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, a)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, a)
				assert.Equal(t, tt.id, a.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestRiskService_ArchiveReport(t *testing.T) {
	ctx := context.Background()
	const reportHTML = "<html>report</html>"

	stored := &model.Assessment{
		ID:      "aid",
		Subject: "Polly",
		Total:   129,
		Details: []model.FactorWeight{
			{Factor: "Spontaneous Behavior", Weighted: 16},
			{Factor: "Credit Score", Weighted: 21},
		},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name       string
		id         string
		nilStore   bool
		setupMocks func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer)
		wantErr    error
		wantErrMsg string
		checkRes   func(t *testing.T, res *ReportArchive)
	}{
		{
			name: "happy path",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {
				mRepo.On("FindByID", ctx, "aid").Return(stored, nil)
				mRenderer.On("Render", render.ReportTemplate, mock.MatchedBy(func(data map[string]any) bool {
					return data["subject"] == "Polly" && data["total"] == "129"
				})).Return(reportHTML, nil)
				mStore.On("Put", ctx, "reports/aid.html", mock.Anything, storage.PutObjectOptions{
					Size:        int64(len(reportHTML)),
					ContentType: "text/html; charset=utf-8",
					Metadata:    map[string]string{"subject": "Polly"},
				}).Return(storage.ObjectInfo{Key: "reports/aid.html"}, nil)
				mRepo.On("SetReportKey", ctx, "aid", "reports/aid.html").Return(nil)
				mStore.On("PresignGet", ctx, "reports/aid.html", reportURLExpiry).
					Return("https://minio/presigned", nil)
			},
			checkRes: func(t *testing.T, res *ReportArchive) {
				assert.Equal(t, "aid", res.ID)
				assert.Equal(t, "reports/aid.html", res.StorageKey)
				assert.Equal(t, "https://minio/presigned", res.URL)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {},
			wantErr:    ErrIDRequired,
		},
		{
			name:       "archive disabled",
			id:         "aid",
			nilStore:   true,
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {},
			wantErr:    ErrArchiveDisabled,
		},
		{
			name: "not found",
			id:   "missing",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "render error",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {
				mRepo.On("FindByID", ctx, "aid").Return(stored, nil)
				mRenderer.On("Render", render.ReportTemplate, mock.Anything).
					Return("", errors.New("template fail"))
			},
			wantErrMsg: "render report: template fail",
		},
		{
			name: "storage error",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {
				mRepo.On("FindByID", ctx, "aid").Return(stored, nil)
				mRenderer.On("Render", render.ReportTemplate, mock.Anything).Return(reportHTML, nil)
				mStore.On("Put", ctx, "reports/aid.html", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name: "record error with successful rollback",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {
				mRepo.On("FindByID", ctx, "aid").Return(stored, nil)
				mRenderer.On("Render", render.ReportTemplate, mock.Anything).Return(reportHTML, nil)
				mStore.On("Put", ctx, "reports/aid.html", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "reports/aid.html"}, nil)
				mRepo.On("SetReportKey", ctx, "aid", "reports/aid.html").Return(errors.New("db fail"))
				mStore.On("Delete", ctx, "reports/aid.html").Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name: "record error with failed rollback",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {
				mRepo.On("FindByID", ctx, "aid").Return(stored, nil)
				mRenderer.On("Render", render.ReportTemplate, mock.Anything).Return(reportHTML, nil)
				mStore.On("Put", ctx, "reports/aid.html", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "reports/aid.html"}, nil)
				mRepo.On("SetReportKey", ctx, "aid", "reports/aid.html").Return(errors.New("db fail"))
				mStore.On("Delete", ctx, "reports/aid.html").Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
		{
			name: "presign error",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage, mRenderer *mockRenderer) {
				mRepo.On("FindByID", ctx, "aid").Return(stored, nil)
				mRenderer.On("Render", render.ReportTemplate, mock.Anything).Return(reportHTML, nil)
				mStore.On("Put", ctx, "reports/aid.html", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "reports/aid.html"}, nil)
				mRepo.On("SetReportKey", ctx, "aid", "reports/aid.html").Return(nil)
				mStore.On("PresignGet", ctx, "reports/aid.html", reportURLExpiry).
					Return("", errors.New("presign fail"))
			},
			wantErrMsg: "presign report url: presign fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAssessmentRepository)
			mStore := new(storeMocks.MockStorage)
			mRenderer := new(mockRenderer)

			var svc RiskService
			if tt.nilStore {
				svc = NewRiskService(nil, mRepo, nil, mRenderer)
			} else {
				svc = NewRiskService(nil, mRepo, mStore, mRenderer)
			}

			tt.setupMocks(mRepo, mStore, mRenderer)

			res, err := svc.ArchiveReport(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Nil(t, res)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
			mStore.AssertExpectations(t)
			mRenderer.AssertExpectations(t)
		})
	}
}

func TestRiskService_DownloadReport(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		nilStore   bool
		setupMocks func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("FindByID", ctx, "aid").
					Return(&model.Assessment{ID: "aid", ReportKey: "reports/aid.html"}, nil)
				mStore.On("Get", ctx, "reports/aid.html").
					Return(io.NopCloser(strings.NewReader("<html>report</html>")), storage.ObjectInfo{
						Key:         "reports/aid.html",
						ContentType: "text/html; charset=utf-8",
					}, nil)
			},
		},
		{
			name:       "archive disabled",
			id:         "aid",
			nilStore:   true,
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage) {},
			wantErr:    ErrArchiveDisabled,
		},
		{
			name: "not found",
			id:   "missing",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "never archived",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("FindByID", ctx, "aid").Return(&model.Assessment{ID: "aid"}, nil)
			},
			wantErr: ErrNoReport,
		},
		{
			name: "storage error",
			id:   "aid",
			setupMocks: func(mRepo *repoMocks.MockAssessmentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("FindByID", ctx, "aid").
					Return(&model.Assessment{ID: "aid", ReportKey: "reports/aid.html"}, nil)
				mStore.On("Get", ctx, "reports/aid.html").
					Return(nil, storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "read report from storage: storage fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAssessmentRepository)
			mStore := new(storeMocks.MockStorage)

			var svc RiskService
			if tt.nilStore {
				svc = NewRiskService(nil, mRepo, nil, nil)
			} else {
				svc = NewRiskService(nil, mRepo, mStore, nil)
			}

			tt.setupMocks(mRepo, mStore)

			rc, info, err := svc.DownloadReport(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rc)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Nil(t, rc)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, rc)
				defer rc.Close()
				body, readErr := io.ReadAll(rc)
				assert.NoError(t, readErr)
				assert.Equal(t, "<html>report</html>", string(body))
				assert.Equal(t, "text/html; charset=utf-8", info.ContentType)
			}
			mRepo.AssertExpectations(t)
			mStore.AssertExpectations(t)
		})
	}
}

func TestRiskService_DeleteAssessment(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAssessmentRepository)
		wantErr    error
	}{
		{
			name: "happy path with archived report",
			id:   "valid-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("FindByID", ctx, "valid-id").
					Return(&model.Assessment{ID: "valid-id", ReportKey: "reports/valid-id.html"}, nil)
				mStore.On("Delete", ctx, "reports/valid-id.html").Return(nil)
				mRepo.On("Delete", ctx, "valid-id").Return(nil)
			},
		},
		{
			name: "happy path without report",
			id:   "valid-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("FindByID", ctx, "valid-id").Return(&model.Assessment{ID: "valid-id"}, nil)
				mRepo.On("Delete", ctx, "valid-id").Return(nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAssessmentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "storage delete error",
			id:   "storage-fail-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("FindByID", ctx, "storage-fail-id").
					Return(&model.Assessment{ID: "id", ReportKey: "reports/id.html"}, nil)
				mStore.On("Delete", ctx, "reports/id.html").Return(errors.New("storage fail"))
			},
			wantErr: errors.New("delete storage: storage fail"),
		},
		{
			name: "repository delete error",
			id:   "repo-fail-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAssessmentRepository) {
				mRepo.On("FindByID", ctx, "repo-fail-id").Return(&model.Assessment{ID: "id"}, nil)
				mRepo.On("Delete", ctx, "repo-fail-id").Return(errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockAssessmentRepository)
			svc := NewRiskService(nil, mRepo, mStore, nil)

			tt.setupMocks(mStore, mRepo)

			err := svc.DeleteAssessment(ctx, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
