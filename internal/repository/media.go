package repository

import (
	"context"

	"kiruna/internal/model"
)

// MediaRepository stores metadata of files kept in the object store.
type MediaRepository interface {
	Create(ctx context.Context, m *model.Media) (*model.Media, error)
	FindByID(ctx context.Context, id string) (*model.Media, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Media, error)
}
