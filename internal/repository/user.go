package repository

import (
	"context"

	"kiruna/internal/model"
)

// UserRepository persists accounts. Emails are unique ignoring case.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}
