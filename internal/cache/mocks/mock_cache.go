package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiruna/internal/cache"
)

type MockCache struct {
	mock.Mock
}

var _ cache.Cache = (*MockCache)(nil)

// Get returns the configured hit flag; on a hit the optional third return
// value, a func(dest any), fills dest.
func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	if len(args) > 2 {
		if fill, ok := args.Get(2).(func(any)); ok && args.Bool(0) {
			fill(dest)
		}
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
