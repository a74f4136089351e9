package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiruna/internal/model"
	"kiruna/internal/service"
)

type MockCoordinateService struct {
	mock.Mock
}

var _ service.CoordinateService = (*MockCoordinateService)(nil)

func (m *MockCoordinateService) Create(ctx context.Context, in service.CoordinateInput) (*model.Coordinate, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coordinate), args.Error(1)
}

func (m *MockCoordinateService) Get(ctx context.Context, id string) (*model.Coordinate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coordinate), args.Error(1)
}

func (m *MockCoordinateService) List(ctx context.Context) ([]model.Coordinate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coordinate), args.Error(1)
}

func (m *MockCoordinateService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
