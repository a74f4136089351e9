package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

func TestStakeholderPostgres(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewStakeholderPostgres(db)

		mock.ExpectQuery("INSERT INTO stakeholders \\(id, name\\)").
			WithArgs("sh-1", "LKAB").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("sh-1", "LKAB"))

		s, err := repo.Create(ctx, &model.Stakeholder{ID: "sh-1", Name: "LKAB"})
		require.NoError(t, err)
		assert.Equal(t, &model.Stakeholder{ID: "sh-1", Name: "LKAB"}, s)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewStakeholderPostgres(db)

		mock.ExpectQuery("INSERT INTO stakeholders").
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_stakeholders_name"})

		s, err := repo.Create(ctx, &model.Stakeholder{ID: "sh-2", Name: "lkab"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Nil(t, s)
	})

	t.Run("list", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewStakeholderPostgres(db)

		mock.ExpectQuery("SELECT id, name FROM stakeholders ORDER BY lower\\(name\\)").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow("sh-1", "Citizens").
				AddRow("sh-2", "LKAB"))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		assert.Equal(t, "Citizens", list[0].Name)
	})

	t.Run("find by ids skips the query when empty", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewStakeholderPostgres(db)

		list, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentTypePostgres(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewDocumentTypePostgres(db)

	mock.ExpectQuery("SELECT id, name FROM document_types WHERE id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("type-1", "Agreement"))

	list, err := repo.FindByIDs(ctx, []string{"type-1", "type-9"})
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentType{{ID: "type-1", Name: "Agreement"}}, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
