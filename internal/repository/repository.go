package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/convodocs/internal/domain"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// DocumentFilter narrows document listings; nil fields are unconstrained.
type DocumentFilter struct {
	TeamID *string
	Status *domain.DocumentStatus
}

// Matches reports whether doc satisfies the filter.
func (f DocumentFilter) Matches(doc *domain.Document) bool {
	if f.TeamID != nil && doc.TeamID != *f.TeamID {
		return false
	}
	if f.Status != nil && doc.Status != *f.Status {
		return false
	}
	return true
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
