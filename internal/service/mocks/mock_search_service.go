package mocks

import (
	"context"

	"bgcapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, q string, offset, paginate int) (*service.SearchResult, error) {
	args := m.Called(ctx, q, offset, paginate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

func (m *MockSearchService) ExportCSV(ctx context.Context, q string) (string, error) {
	args := m.Called(ctx, q)
	return args.String(0), args.Error(1)
}

func (m *MockSearchService) ExportArchive(ctx context.Context, q string) (string, error) {
	args := m.Called(ctx, q)
	return args.String(0), args.Error(1)
}

func (m *MockSearchService) Available(ctx context.Context, category, term string) ([]string, error) {
	args := m.Called(ctx, category, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
