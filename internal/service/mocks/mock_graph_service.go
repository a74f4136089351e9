package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiruna/internal/model"
	"kiruna/internal/service"
)

type MockGraphService struct {
	mock.Mock
}

var _ service.GraphService = (*MockGraphService)(nil)

func (m *MockGraphService) Timeline(ctx context.Context) (*model.Graph, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Graph), args.Error(1)
}
