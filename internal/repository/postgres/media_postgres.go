package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

// MediaPostgres is a PostgreSQL implementation of repository.MediaRepository.
type MediaPostgres struct {
	db *sqlx.DB
}

func NewMediaPostgres(db *sqlx.DB) *MediaPostgres {
	return &MediaPostgres{db: db}
}

var _ repository.MediaRepository = (*MediaPostgres)(nil)

const mediaColumns = `m.id, m.filename, m.url, m.mime_type, m.media_type, m.size, m.pages, m.owner_id, m.created_at`

type mediaRow struct {
	ID        string         `db:"id"`
	Filename  string         `db:"filename"`
	URL       string         `db:"url"`
	MimeType  string         `db:"mime_type"`
	MediaType string         `db:"media_type"`
	Size      int64          `db:"size"`
	Pages     sql.NullInt64  `db:"pages"`
	OwnerID   sql.NullString `db:"owner_id"`
	CreatedAt time.Time      `db:"created_at"`
}

func (row mediaRow) toModel() model.Media {
	m := model.Media{
		ID:        row.ID,
		Filename:  row.Filename,
		URL:       row.URL,
		MimeType:  row.MimeType,
		Type:      model.MediaType(row.MediaType),
		Size:      row.Size,
		Owner:     row.OwnerID.String,
		CreatedAt: row.CreatedAt,
	}
	if row.Pages.Valid {
		p := int(row.Pages.Int64)
		m.Pages = &p
	}
	return m
}

func (r *MediaPostgres) Create(ctx context.Context, m *model.Media) (*model.Media, error) {
	const q = `
		INSERT INTO media AS m (id, filename, url, mime_type, media_type, size, pages, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + mediaColumns
	var pages sql.NullInt64
	if m.Pages != nil {
		pages = sql.NullInt64{Int64: int64(*m.Pages), Valid: true}
	}
	var row mediaRow
	if err := r.db.GetContext(ctx, &row, q,
		m.ID, m.Filename, m.URL, m.MimeType, string(m.Type), m.Size, pages, nullString(m.Owner), m.CreatedAt,
	); err != nil {
		return nil, mapWriteError(err)
	}
	out := row.toModel()
	return &out, nil
}

func (r *MediaPostgres) FindByID(ctx context.Context, id string) (*model.Media, error) {
	const q = `SELECT ` + mediaColumns + ` FROM media m WHERE m.id = $1`
	var row mediaRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	out := row.toModel()
	return &out, nil
}

func (r *MediaPostgres) FindByIDs(ctx context.Context, ids []string) ([]model.Media, error) {
	out := make([]model.Media, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const q = `SELECT ` + mediaColumns + ` FROM media m WHERE m.id = ANY($1) ORDER BY m.created_at, m.id`
	var rows []mediaRow
	if err := r.db.SelectContext(ctx, &rows, q, pq.Array(ids)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}
