// Package storage provides the persistence abstraction behind the record
// store server.
package storage

import (
	"context"
	"errors"

	"recordbook/models"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Store persists records grouped by collection name.
type Store interface {
	// Create persists rec. rec.ID must already be assigned.
	Create(ctx context.Context, collection string, rec *models.Record) error

	Get(ctx context.Context, collection, id string) (*models.Record, error)

	// List returns records whose created_at falls in r, newest first.
	List(ctx context.Context, collection string, r models.DateRange) ([]models.Record, error)

	// Update replaces the fields and updated_at of rec.ID. created_at is
	// never written.
	Update(ctx context.Context, collection string, rec *models.Record) error

	Delete(ctx context.Context, collection, id string) error

	Close() error
}
