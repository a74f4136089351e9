package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiruna/internal/model"
)

var mediaRowColumns = []string{"id", "filename", "url", "mime_type", "media_type", "size", "pages", "owner_id", "created_at"}

func TestMediaPostgres_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMediaPostgres(db)
	now := time.Now().UTC()
	pages := 3

	m := &model.Media{
		ID:        "media-1",
		Filename:  "plan.pdf",
		URL:       "documents/media-1.pdf",
		MimeType:  "application/pdf",
		Type:      model.MediaDocument,
		Size:      1024,
		Pages:     &pages,
		Owner:     "user-1",
		CreatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO media AS m").
		WithArgs("media-1", "plan.pdf", "documents/media-1.pdf", "application/pdf", "document", int64(1024),
			sqlmock.AnyArg(), sqlmock.AnyArg(), now).
		WillReturnRows(sqlmock.NewRows(mediaRowColumns).
			AddRow("media-1", "plan.pdf", "documents/media-1.pdf", "application/pdf", "document", 1024, 3, "user-1", now))

	out, err := repo.Create(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, m, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaPostgres_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMediaPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM media m WHERE m.id = \\$1").
		WithArgs("media-1").
		WillReturnRows(sqlmock.NewRows(mediaRowColumns).
			AddRow("media-1", "photo.jpg", "images/media-1.jpg", "image/jpeg", "image", 10, nil, nil, now))

	m, err := repo.FindByID(context.Background(), "media-1")
	require.NoError(t, err)
	assert.Nil(t, m.Pages)
	assert.Equal(t, model.MediaImage, m.Type)

	mock.ExpectQuery("FROM media m WHERE m.id = \\$1").WithArgs("gone").WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByID(context.Background(), "gone")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMediaPostgres_FindByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMediaPostgres(db)

	list, err := repo.FindByIDs(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, list)

	mock.ExpectQuery("FROM media m WHERE m.id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(mediaRowColumns).
			AddRow("media-1", "notes.txt", "texts/media-1.txt", "text/plain", "text", 10, nil, nil, time.Now()))

	list, err = repo.FindByIDs(context.Background(), []string{"media-1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
