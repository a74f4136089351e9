package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

type referenceRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// referenceTable holds the queries shared by the name-only registries.
type referenceTable struct {
	db    *sqlx.DB
	table string
}

func (t referenceTable) create(ctx context.Context, id, name string) (referenceRow, error) {
	q := fmt.Sprintf(`INSERT INTO %s (id, name) VALUES ($1, $2) RETURNING id, name`, t.table)
	var row referenceRow
	if err := t.db.GetContext(ctx, &row, q, id, name); err != nil {
		return referenceRow{}, mapWriteError(err)
	}
	return row, nil
}

func (t referenceTable) list(ctx context.Context) ([]referenceRow, error) {
	q := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY lower(name), id`, t.table)
	rows := make([]referenceRow, 0)
	if err := t.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t referenceTable) findByIDs(ctx context.Context, ids []string) ([]referenceRow, error) {
	rows := make([]referenceRow, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}
	q := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = ANY($1) ORDER BY lower(name), id`, t.table)
	if err := t.db.SelectContext(ctx, &rows, q, pq.Array(ids)); err != nil {
		return nil, err
	}
	return rows, nil
}

// StakeholderPostgres is a PostgreSQL implementation of repository.StakeholderRepository.
type StakeholderPostgres struct {
	t referenceTable
}

func NewStakeholderPostgres(db *sqlx.DB) *StakeholderPostgres {
	return &StakeholderPostgres{t: referenceTable{db: db, table: "stakeholders"}}
}

var _ repository.StakeholderRepository = (*StakeholderPostgres)(nil)

func (r *StakeholderPostgres) Create(ctx context.Context, s *model.Stakeholder) (*model.Stakeholder, error) {
	row, err := r.t.create(ctx, s.ID, s.Name)
	if err != nil {
		return nil, err
	}
	return &model.Stakeholder{ID: row.ID, Name: row.Name}, nil
}

func (r *StakeholderPostgres) List(ctx context.Context) ([]model.Stakeholder, error) {
	rows, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	return toStakeholders(rows), nil
}

func (r *StakeholderPostgres) FindByIDs(ctx context.Context, ids []string) ([]model.Stakeholder, error) {
	rows, err := r.t.findByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toStakeholders(rows), nil
}

func toStakeholders(rows []referenceRow) []model.Stakeholder {
	out := make([]model.Stakeholder, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Stakeholder{ID: row.ID, Name: row.Name})
	}
	return out
}

// DocumentTypePostgres is a PostgreSQL implementation of repository.DocumentTypeRepository.
type DocumentTypePostgres struct {
	t referenceTable
}

func NewDocumentTypePostgres(db *sqlx.DB) *DocumentTypePostgres {
	return &DocumentTypePostgres{t: referenceTable{db: db, table: "document_types"}}
}

var _ repository.DocumentTypeRepository = (*DocumentTypePostgres)(nil)

func (r *DocumentTypePostgres) Create(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	row, err := r.t.create(ctx, dt.ID, dt.Name)
	if err != nil {
		return nil, err
	}
	return &model.DocumentType{ID: row.ID, Name: row.Name}, nil
}

func (r *DocumentTypePostgres) List(ctx context.Context) ([]model.DocumentType, error) {
	rows, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	return toDocumentTypes(rows), nil
}

func (r *DocumentTypePostgres) FindByIDs(ctx context.Context, ids []string) ([]model.DocumentType, error) {
	rows, err := r.t.findByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toDocumentTypes(rows), nil
}

func toDocumentTypes(rows []referenceRow) []model.DocumentType {
	out := make([]model.DocumentType, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DocumentType{ID: row.ID, Name: row.Name})
	}
	return out
}
