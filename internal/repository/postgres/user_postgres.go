package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"kiruna/internal/model"
	"kiruna/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sqlx.DB
}

func NewUserPostgres(db *sqlx.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, email, password_hash, name, surname, phone, role, created_at`

type userRow struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Name         string         `db:"name"`
	Surname      string         `db:"surname"`
	Phone        sql.NullString `db:"phone"`
	Role         string         `db:"role"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (row userRow) toModel() *model.User {
	return &model.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Name:         row.Name,
		Surname:      row.Surname,
		Phone:        row.Phone.String,
		Role:         model.Role(row.Role),
		CreatedAt:    row.CreatedAt,
	}
}

func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns
	var row userRow
	if err := r.db.GetContext(ctx, &row, q,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Surname, nullString(u.Phone), string(u.Role), u.CreatedAt,
	); err != nil {
		return nil, mapWriteError(err)
	}
	return row.toModel(), nil
}

func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	var row userRow
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var row userRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}
