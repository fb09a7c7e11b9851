package mocks

import (
	"context"

	"riskapi/internal/model"
	"riskapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) FindByID(ctx context.Context, id string) (*model.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Assessment], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Assessment]), args.Error(1)
}

func (m *MockAssessmentRepository) SetReportKey(ctx context.Context, id, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockAssessmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
