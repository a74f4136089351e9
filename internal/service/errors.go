package service

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrCoordinateInUse    = errors.New("coordinate is referenced by a document")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("operation not allowed for this role")
	ErrReaderNil          = errors.New("reader is nil")
	ErrEmptyFile          = errors.New("file is empty")
)

// notFound turns sql.ErrNoRows into ErrNotFound naming the resource.
func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return err
}
