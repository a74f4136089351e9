package repository

import (
	"context"

	"kiruna/internal/model"
)

// CoordinateRepository persists Point and Polygon geometries.
type CoordinateRepository interface {
	Create(ctx context.Context, c *model.Coordinate) (*model.Coordinate, error)
	FindByID(ctx context.Context, id string) (*model.Coordinate, error)
	List(ctx context.Context) ([]model.Coordinate, error)

	// Referenced reports whether any document points at the coordinate.
	Referenced(ctx context.Context, id string) (bool, error)

	// Delete removes a coordinate. A coordinate still used by a document
	// yields ErrReferenced; a missing row yields sql.ErrNoRows.
	Delete(ctx context.Context, id string) error
}
