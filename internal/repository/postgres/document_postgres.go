package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// Stakeholders, connections and media live in link tables that are rewritten
// together with the document row.
type DocumentPostgres struct {
	db *sqlx.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sqlx.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentSelect = `
		SELECT d.id, d.title, d.scale, COALESCE(d.architectural_scale, '') AS architectural_scale,
			d.issuance_date, COALESCE(d.language, '') AS language, COALESCE(d.summary, '') AS summary,
			d.created_at, d.updated_at, t.id AS type_id, t.name AS type_name,
			c.id AS coordinate_id, c.name AS coordinate_name, c.type AS coordinate_type,
			c.positions AS coordinate_positions, c.created_at AS coordinate_created_at
		FROM documents d
		JOIN document_types t ON t.id = d.type_id
		LEFT JOIN coordinates c ON c.id = d.coordinate_id`

type documentRow struct {
	ID                  string         `db:"id"`
	Title               string         `db:"title"`
	Scale               string         `db:"scale"`
	ArchitecturalScale  string         `db:"architectural_scale"`
	Date                string         `db:"issuance_date"`
	Language            string         `db:"language"`
	Summary             string         `db:"summary"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
	TypeID              string         `db:"type_id"`
	TypeName            string         `db:"type_name"`
	CoordinateID        sql.NullString `db:"coordinate_id"`
	CoordinateName      sql.NullString `db:"coordinate_name"`
	CoordinateType      sql.NullString `db:"coordinate_type"`
	CoordinatePositions []byte         `db:"coordinate_positions"`
	CoordinateCreatedAt sql.NullTime   `db:"coordinate_created_at"`
}

func (row documentRow) toModel() (*model.Document, error) {
	d := &model.Document{
		ID:                 row.ID,
		Title:              row.Title,
		Stakeholders:       []model.Stakeholder{},
		Scale:              model.Scale(row.Scale),
		ArchitecturalScale: row.ArchitecturalScale,
		Type:               model.DocumentType{ID: row.TypeID, Name: row.TypeName},
		Date:               row.Date,
		Language:           row.Language,
		Summary:            row.Summary,
		Connections:        []model.Connection{},
		Media:              []model.Media{},
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if row.CoordinateID.Valid {
		c, err := coordinateRow{
			ID:        row.CoordinateID.String,
			Name:      row.CoordinateName.String,
			Type:      row.CoordinateType.String,
			Positions: row.CoordinatePositions,
			CreatedAt: row.CoordinateCreatedAt.Time,
		}.toModel()
		if err != nil {
			return nil, err
		}
		d.Coordinates = c
	}
	return d, nil
}

type connectionRow struct {
	DocumentID string `db:"document_id"`
	TargetID   string `db:"target_id"`
	Type       string `db:"type"`
}

// Create inserts the document row and its links in one transaction.
func (r *DocumentPostgres) Create(ctx context.Context, d *model.DocumentDraft) error {
	const q = `
		INSERT INTO documents (id, title, scale, architectural_scale, type_id, issuance_date,
			date_from, date_to, language, summary, coordinate_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, q,
			d.ID, d.Title, string(d.Scale), nullString(d.ArchitecturalScale), d.TypeID, d.Date,
			d.DateFrom, d.DateTo, nullString(d.Language), nullString(d.Summary), nullString(d.CoordinateID),
			d.CreatedAt, d.UpdatedAt,
		); err != nil {
			return mapWriteError(err)
		}
		return insertLinks(ctx, tx, d)
	})
}

// Update rewrites the document row and replaces every link.
func (r *DocumentPostgres) Update(ctx context.Context, d *model.DocumentDraft) error {
	const q = `
		UPDATE documents
		SET title = $2, scale = $3, architectural_scale = $4, type_id = $5, issuance_date = $6,
			date_from = $7, date_to = $8, language = $9, summary = $10, coordinate_id = $11, updated_at = $12
		WHERE id = $1
	`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q,
			d.ID, d.Title, string(d.Scale), nullString(d.ArchitecturalScale), d.TypeID, d.Date,
			d.DateFrom, d.DateTo, nullString(d.Language), nullString(d.Summary), nullString(d.CoordinateID),
			d.UpdatedAt,
		)
		if err != nil {
			return mapWriteError(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}

		for _, table := range []string{"document_stakeholders", "document_connections", "document_media"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE document_id = $1`, d.ID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return insertLinks(ctx, tx, d)
	})
}

func insertLinks(ctx context.Context, tx *sqlx.Tx, d *model.DocumentDraft) error {
	for _, id := range d.StakeholderIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_stakeholders (document_id, stakeholder_id) VALUES ($1, $2)`,
			d.ID, id,
		); err != nil {
			return mapWriteError(err)
		}
	}
	for _, c := range d.Connections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_connections (document_id, target_id, type) VALUES ($1, $2, $3)`,
			d.ID, c.Document, string(c.Type),
		); err != nil {
			return mapWriteError(err)
		}
	}
	for _, id := range d.MediaIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_media (document_id, media_id) VALUES ($1, $2)`,
			d.ID, id,
		); err != nil {
			return mapWriteError(err)
		}
	}
	return nil
}

// FindByID fetches a single document with all of its references.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var row documentRow
	if err := r.db.GetContext(ctx, &row, documentSelect+` WHERE d.id = $1`, id); err != nil {
		return nil, err
	}
	d, err := row.toModel()
	if err != nil {
		return nil, err
	}
	if err := r.populate(ctx, []*model.Document{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns documents ordered by issuance date using LIMIT/OFFSET
// pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, page repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where, args := documentWhere(f)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents d`+where, args...); err != nil {
		return nil, err
	}

	q := documentSelect + where +
		fmt.Sprintf(` ORDER BY d.date_from, lower(d.title), d.id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, q, append(args, page.Limit, page.Offset)...); err != nil {
		return nil, err
	}

	docs := make([]*model.Document, 0, len(rows))
	for _, row := range rows {
		d, err := row.toModel()
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := r.populate(ctx, docs); err != nil {
		return nil, err
	}

	items := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		items = append(items, *d)
	}
	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// documentWhere renders f as a WHERE clause over the alias d.
func documentWhere(f repository.DocumentFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Title != "" {
		add(`d.title ILIKE $%d`, "%"+likeEscaper.Replace(f.Title)+"%")
	}
	if len(f.StakeholderIDs) > 0 {
		add(`EXISTS (SELECT 1 FROM document_stakeholders ds WHERE ds.document_id = d.id AND ds.stakeholder_id = ANY($%d))`,
			pq.Array(f.StakeholderIDs))
	}
	if f.TypeID != "" {
		add(`d.type_id = $%d`, f.TypeID)
	}
	if f.Scale != "" {
		add(`d.scale = $%d`, string(f.Scale))
	}
	if f.Language != "" {
		add(`lower(d.language) = lower($%d)`, f.Language)
	}
	// A partial issuance date spans a period; it matches when the period
	// overlaps [From, To].
	if f.From != nil {
		add(`d.date_to >= $%d`, *f.From)
	}
	if f.To != nil {
		add(`d.date_from <= $%d`, *f.To)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// populate loads stakeholders, connections and media for docs in three
// batched queries.
func (r *DocumentPostgres) populate(ctx context.Context, docs []*model.Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(docs))
	byID := make(map[string]*model.Document, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
		byID[d.ID] = d
	}

	var stakeholders []struct {
		DocumentID string `db:"document_id"`
		referenceRow
	}
	if err := r.db.SelectContext(ctx, &stakeholders, `
		SELECT ds.document_id, s.id, s.name
		FROM document_stakeholders ds
		JOIN stakeholders s ON s.id = ds.stakeholder_id
		WHERE ds.document_id = ANY($1)
		ORDER BY lower(s.name), s.id`, pq.Array(ids)); err != nil {
		return fmt.Errorf("load stakeholders: %w", err)
	}
	for _, s := range stakeholders {
		d := byID[s.DocumentID]
		d.Stakeholders = append(d.Stakeholders, model.Stakeholder{ID: s.ID, Name: s.Name})
	}

	var connections []connectionRow
	if err := r.db.SelectContext(ctx, &connections, `
		SELECT document_id, target_id, type
		FROM document_connections
		WHERE document_id = ANY($1)
		ORDER BY type, target_id`, pq.Array(ids)); err != nil {
		return fmt.Errorf("load connections: %w", err)
	}
	for _, c := range connections {
		d := byID[c.DocumentID]
		d.Connections = append(d.Connections, model.Connection{Document: c.TargetID, Type: model.ConnectionType(c.Type)})
	}

	var media []struct {
		DocumentID string `db:"document_id"`
		mediaRow
	}
	if err := r.db.SelectContext(ctx, &media, `
		SELECT dm.document_id, `+mediaColumns+`
		FROM document_media dm
		JOIN media m ON m.id = dm.media_id
		WHERE dm.document_id = ANY($1)
		ORDER BY m.created_at, m.id`, pq.Array(ids)); err != nil {
		return fmt.Errorf("load media: %w", err)
	}
	for _, m := range media {
		d := byID[m.DocumentID]
		d.Media = append(d.Media, m.toModel())
	}
	return nil
}

func (r *DocumentPostgres) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.SelectContext(ctx, &out, `SELECT id FROM documents WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DocumentPostgres) Connections(ctx context.Context, id string) (*model.DocumentConnections, error) {
	out := &model.DocumentConnections{Outgoing: []model.Connection{}, Incoming: []model.Connection{}}

	var outgoing []connectionRow
	if err := r.db.SelectContext(ctx, &outgoing, `
		SELECT document_id, target_id, type FROM document_connections
		WHERE document_id = $1 ORDER BY type, target_id`, id); err != nil {
		return nil, err
	}
	for _, c := range outgoing {
		out.Outgoing = append(out.Outgoing, model.Connection{Document: c.TargetID, Type: model.ConnectionType(c.Type)})
	}

	var incoming []connectionRow
	if err := r.db.SelectContext(ctx, &incoming, `
		SELECT document_id, target_id, type FROM document_connections
		WHERE target_id = $1 ORDER BY type, document_id`, id); err != nil {
		return nil, err
	}
	for _, c := range incoming {
		out.Incoming = append(out.Incoming, model.Connection{Document: c.DocumentID, Type: model.ConnectionType(c.Type)})
	}
	return out, nil
}

func (r *DocumentPostgres) Summaries(ctx context.Context) ([]model.DocumentSummary, error) {
	var rows []struct {
		ID                 string `db:"id"`
		Title              string `db:"title"`
		Date               string `db:"issuance_date"`
		Scale              string `db:"scale"`
		ArchitecturalScale string `db:"architectural_scale"`
		TypeName           string `db:"type_name"`
	}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT d.id, d.title, d.issuance_date, d.scale,
			COALESCE(d.architectural_scale, '') AS architectural_scale, t.name AS type_name
		FROM documents d
		JOIN document_types t ON t.id = d.type_id
		ORDER BY d.date_from, d.id`); err != nil {
		return nil, err
	}
	out := make([]model.DocumentSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DocumentSummary{
			ID:                 row.ID,
			Title:              row.Title,
			Date:               row.Date,
			Scale:              model.Scale(row.Scale),
			ArchitecturalScale: row.ArchitecturalScale,
			TypeName:           row.TypeName,
		})
	}
	return out, nil
}

func (r *DocumentPostgres) Edges(ctx context.Context) ([]model.Edge, error) {
	var rows []connectionRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT document_id, target_id, type FROM document_connections
		ORDER BY document_id, target_id, type`); err != nil {
		return nil, err
	}
	out := make([]model.Edge, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Edge{From: row.DocumentID, To: row.TargetID, Type: model.ConnectionType(row.Type)})
	}
	return out, nil
}
