package mocks

import (
	"context"

	"riskapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListFactors(ctx context.Context) ([]model.RiskFactor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RiskFactor), args.Error(1)
}
