package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

type MockMediaRepository struct {
	mock.Mock
}

var _ repository.MediaRepository = (*MockMediaRepository)(nil)

func (m *MockMediaRepository) Create(ctx context.Context, media *model.Media) (*model.Media, error) {
	args := m.Called(ctx, media)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Media), args.Error(1)
}

func (m *MockMediaRepository) FindByID(ctx context.Context, id string) (*model.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Media), args.Error(1)
}

func (m *MockMediaRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Media, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Media), args.Error(1)
}
