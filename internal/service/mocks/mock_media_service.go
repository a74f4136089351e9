package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiruna/internal/model"
	"kiruna/internal/service"
)

type MockMediaService struct {
	mock.Mock
}

var _ service.MediaService = (*MockMediaService)(nil)

func (m *MockMediaService) Upload(ctx context.Context, in service.UploadInput) (*model.Media, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Media), args.Error(1)
}

func (m *MockMediaService) Get(ctx context.Context, id string) (*service.MediaLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MediaLink), args.Error(1)
}

func (m *MockMediaService) Open(ctx context.Context, id string) (*service.MediaContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MediaContent), args.Error(1)
}
