package repository

import (
	"context"

	"kiruna/internal/model"
)

// StakeholderRepository persists stakeholders. Names are unique ignoring
// case; a clash returns ErrDuplicate.
type StakeholderRepository interface {
	Create(ctx context.Context, s *model.Stakeholder) (*model.Stakeholder, error)
	List(ctx context.Context) ([]model.Stakeholder, error)
	// FindByIDs returns the stakeholders among ids that exist.
	FindByIDs(ctx context.Context, ids []string) ([]model.Stakeholder, error)
}

// DocumentTypeRepository persists document types with the same rules as stakeholders.
type DocumentTypeRepository interface {
	Create(ctx context.Context, t *model.DocumentType) (*model.DocumentType, error)
	List(ctx context.Context) ([]model.DocumentType, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.DocumentType, error)
}
