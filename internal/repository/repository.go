// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Lookups of a single missing row return sql.ErrNoRows unchanged.
package repository

import "errors"

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenced is returned when a row cannot be removed because other rows point at it.
	ErrReferenced = errors.New("row is still referenced")
	// ErrDanglingReference is returned when a write points at a row that does not exist.
	ErrDanglingReference = errors.New("referenced row does not exist")
	// ErrConstraint is returned when a CHECK constraint rejects a write.
	ErrConstraint = errors.New("check constraint violated")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
