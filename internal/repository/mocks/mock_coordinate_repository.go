package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

type MockCoordinateRepository struct {
	mock.Mock
}

var _ repository.CoordinateRepository = (*MockCoordinateRepository)(nil)

func (m *MockCoordinateRepository) Create(ctx context.Context, c *model.Coordinate) (*model.Coordinate, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coordinate), args.Error(1)
}

func (m *MockCoordinateRepository) FindByID(ctx context.Context, id string) (*model.Coordinate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coordinate), args.Error(1)
}

func (m *MockCoordinateRepository) List(ctx context.Context) ([]model.Coordinate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coordinate), args.Error(1)
}

func (m *MockCoordinateRepository) Referenced(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCoordinateRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
