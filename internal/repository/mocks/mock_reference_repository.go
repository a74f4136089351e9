package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

type MockStakeholderRepository struct {
	mock.Mock
}

var _ repository.StakeholderRepository = (*MockStakeholderRepository)(nil)

func (m *MockStakeholderRepository) Create(ctx context.Context, s *model.Stakeholder) (*model.Stakeholder, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stakeholder), args.Error(1)
}

func (m *MockStakeholderRepository) List(ctx context.Context) ([]model.Stakeholder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Stakeholder), args.Error(1)
}

func (m *MockStakeholderRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Stakeholder, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Stakeholder), args.Error(1)
}

type MockDocumentTypeRepository struct {
	mock.Mock
}

var _ repository.DocumentTypeRepository = (*MockDocumentTypeRepository)(nil)

func (m *MockDocumentTypeRepository) Create(ctx context.Context, t *model.DocumentType) (*model.DocumentType, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) List(ctx context.Context) ([]model.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) FindByIDs(ctx context.Context, ids []string) ([]model.DocumentType, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentType), args.Error(1)
}
