package mocks

import (
	"context"
	"io"

	"riskapi/internal/model"
	"riskapi/internal/service"
	"riskapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockRiskService struct {
	mock.Mock
}

func (m *MockRiskService) Table(ctx context.Context) (*service.RiskTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RiskTable), args.Error(1)
}

func (m *MockRiskService) SubjectRisk(ctx context.Context, subject string) (*service.SubjectRisk, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubjectRisk), args.Error(1)
}

func (m *MockRiskService) IndexHTML(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRiskService) CreateAssessment(ctx context.Context, subject string) (*model.Assessment, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *MockRiskService) ListAssessments(ctx context.Context, limit, offset int) (*service.AssessmentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssessmentListResult), args.Error(1)
}

func (m *MockRiskService) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *MockRiskService) ArchiveReport(ctx context.Context, id string) (*service.ReportArchive, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReportArchive), args.Error(1)
}

func (m *MockRiskService) DownloadReport(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockRiskService) DeleteAssessment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
