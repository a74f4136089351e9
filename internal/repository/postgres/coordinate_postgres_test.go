package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

var coordinateColumns = []string{"id", "name", "type", "positions", "created_at"}

func TestCoordinatePostgres_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCoordinatePostgres(db)
	now := time.Now().UTC()

	c := &model.Coordinate{
		ID:        "coord-1",
		Name:      "Ore body",
		Type:      model.GeometryPolygon,
		Positions: []model.Position{{20.2, 67.8}, {20.3, 67.8}, {20.3, 67.9}, {20.2, 67.8}},
		CreatedAt: now,
	}
	positions := `[[20.2,67.8],[20.3,67.8],[20.3,67.9],[20.2,67.8]]`

	mock.ExpectQuery("INSERT INTO coordinates").
		WithArgs("coord-1", "Ore body", "Polygon", positions, now).
		WillReturnRows(sqlmock.NewRows(coordinateColumns).AddRow("coord-1", "Ore body", "Polygon", []byte(positions), now))

	out, err := repo.Create(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, c, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinatePostgres_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt positions", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCoordinatePostgres(db)

		mock.ExpectQuery("FROM coordinates WHERE id = \\$1").
			WithArgs("coord-1").
			WillReturnRows(sqlmock.NewRows(coordinateColumns).AddRow("coord-1", "x", "Point", []byte(`{`), time.Now()))

		_, err := repo.FindByID(ctx, "coord-1")
		assert.ErrorContains(t, err, "decode positions of coordinate coord-1")
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCoordinatePostgres(db)

		mock.ExpectQuery("FROM coordinates WHERE id = \\$1").WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(ctx, "nope")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestCoordinatePostgres_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCoordinatePostgres(db)

	mock.ExpectQuery("FROM coordinates ORDER BY created_at").
		WillReturnRows(sqlmock.NewRows(coordinateColumns).
			AddRow("coord-1", "Town hall", "Point", []byte(`[[20.22,67.85]]`), time.Now()))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.GeometryPoint, list[0].Type)
}

func TestCoordinatePostgres_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCoordinatePostgres(db)

		mock.ExpectExec("DELETE FROM coordinates WHERE id = \\$1").WithArgs("coord-1").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "coord-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCoordinatePostgres(db)

		mock.ExpectExec("DELETE FROM coordinates").WithArgs("coord-1").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "coord-1"), sql.ErrNoRows)
	})

	t.Run("still referenced", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCoordinatePostgres(db)

		mock.ExpectExec("DELETE FROM coordinates").
			WithArgs("coord-1").
			WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "documents_coordinate_id_fkey"})

		assert.ErrorIs(t, repo.Delete(ctx, "coord-1"), repository.ErrReferenced)
	})
}

func TestCoordinatePostgres_Referenced(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCoordinatePostgres(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("coord-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	used, err := repo.Referenced(context.Background(), "coord-1")
	require.NoError(t, err)
	assert.True(t, used)
}
