package repository

import (
	"context"
	"time"

	"kiruna/internal/model"
)

// DocumentFilter narrows List. Zero values do not filter.
type DocumentFilter struct {
	// Title matches case-insensitively anywhere in the title.
	Title string
	// StakeholderIDs keeps documents involving any of the stakeholders.
	StakeholderIDs []string
	TypeID         string
	Scale          model.Scale
	Language       string
	// From and To bound the first day of the issuance date, inclusive.
	From *time.Time
	To   *time.Time
}

// DocumentRepository defines data access for documents and their links.
type DocumentRepository interface {
	// Create inserts the document row and all of its links atomically.
	Create(ctx context.Context, d *model.DocumentDraft) error

	// Update replaces the mutable columns and all links. It returns
	// sql.ErrNoRows when the document does not exist.
	Update(ctx context.Context, d *model.DocumentDraft) error

	// FindByID returns a fully populated document.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of populated documents and the total matching the filter.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// ExistingIDs returns the subset of ids that name stored documents.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)

	// Connections returns the outgoing and incoming links of one document.
	Connections(ctx context.Context, id string) (*model.DocumentConnections, error)

	// Summaries returns every document in the projection used by the diagram.
	Summaries(ctx context.Context) ([]model.DocumentSummary, error)

	// Edges returns every connection.
	Edges(ctx context.Context) ([]model.Edge, error)
}
