package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

// CoordinatePostgres is a PostgreSQL implementation of repository.CoordinateRepository.
// Positions are stored as a JSONB array of [lon, lat] pairs.
type CoordinatePostgres struct {
	db *sqlx.DB
}

func NewCoordinatePostgres(db *sqlx.DB) *CoordinatePostgres {
	return &CoordinatePostgres{db: db}
}

var _ repository.CoordinateRepository = (*CoordinatePostgres)(nil)

type coordinateRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Positions []byte    `db:"positions"`
	CreatedAt time.Time `db:"created_at"`
}

func (row coordinateRow) toModel() (*model.Coordinate, error) {
	var positions []model.Position
	if err := json.Unmarshal(row.Positions, &positions); err != nil {
		return nil, fmt.Errorf("decode positions of coordinate %s: %w", row.ID, err)
	}
	return &model.Coordinate{
		ID:        row.ID,
		Name:      row.Name,
		Type:      model.GeometryType(row.Type),
		Positions: positions,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *CoordinatePostgres) Create(ctx context.Context, c *model.Coordinate) (*model.Coordinate, error) {
	const q = `
		INSERT INTO coordinates (id, name, type, positions, created_at)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING id, name, type, positions, created_at
	`
	positions, err := json.Marshal(c.Positions)
	if err != nil {
		return nil, fmt.Errorf("encode positions: %w", err)
	}
	var row coordinateRow
	if err := r.db.GetContext(ctx, &row, q, c.ID, c.Name, string(c.Type), string(positions), c.CreatedAt); err != nil {
		return nil, mapWriteError(err)
	}
	return row.toModel()
}

func (r *CoordinatePostgres) FindByID(ctx context.Context, id string) (*model.Coordinate, error) {
	const q = `SELECT id, name, type, positions, created_at FROM coordinates WHERE id = $1`
	var row coordinateRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *CoordinatePostgres) List(ctx context.Context) ([]model.Coordinate, error) {
	const q = `SELECT id, name, type, positions, created_at FROM coordinates ORDER BY created_at, id`
	var rows []coordinateRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	out := make([]model.Coordinate, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *CoordinatePostgres) Referenced(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM documents WHERE coordinate_id = $1)`
	var used bool
	if err := r.db.GetContext(ctx, &used, q, id); err != nil {
		return false, err
	}
	return used, nil
}

func (r *CoordinatePostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coordinates WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
