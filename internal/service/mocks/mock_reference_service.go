package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiruna/internal/model"
	"kiruna/internal/service"
)

type MockStakeholderService struct {
	mock.Mock
}

var _ service.StakeholderService = (*MockStakeholderService)(nil)

func (m *MockStakeholderService) Create(ctx context.Context, in service.ReferenceInput) (*model.Stakeholder, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stakeholder), args.Error(1)
}

func (m *MockStakeholderService) List(ctx context.Context) ([]model.Stakeholder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Stakeholder), args.Error(1)
}

type MockDocumentTypeService struct {
	mock.Mock
}

var _ service.DocumentTypeService = (*MockDocumentTypeService)(nil)

func (m *MockDocumentTypeService) Create(ctx context.Context, in service.ReferenceInput) (*model.DocumentType, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeService) List(ctx context.Context) ([]model.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentType), args.Error(1)
}
