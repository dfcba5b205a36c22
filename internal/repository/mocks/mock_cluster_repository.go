package mocks

import (
	"context"

	"bgcapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockClusterRepository struct {
	mock.Mock
}

func (m *MockClusterRepository) ClustersByCategory(ctx context.Context, category, term string) ([]int64, error) {
	args := m.Called(ctx, category, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockClusterRepository) ClusterRecords(ctx context.Context, ids []int64) ([]model.Cluster, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Cluster), args.Error(1)
}

func (m *MockClusterRepository) GuessCategory(ctx context.Context, word string) (string, string, bool, error) {
	args := m.Called(ctx, word)
	return args.String(0), args.String(1), args.Bool(2), args.Error(3)
}

func (m *MockClusterRepository) StatsByType(ctx context.Context, ids []int64) (model.StatSeries, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(model.StatSeries), args.Error(1)
}

func (m *MockClusterRepository) StatsByPhylum(ctx context.Context, ids []int64) (model.StatSeries, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(model.StatSeries), args.Error(1)
}

func (m *MockClusterRepository) AvailableTerms(ctx context.Context, category, prefix string) ([]string, error) {
	args := m.Called(ctx, category, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
