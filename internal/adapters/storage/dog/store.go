package dog

import (
	"context"

	domain "dogreg/internal/domain/dog"
)

// Order direction for ListByStatus.
const (
	OrderNewestFirst = "desc"
	OrderOldestFirst = "asc"
)

// Store persists dog Record state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Record, error)
	Save(ctx context.Context, value domain.Record) error
	// ListByStatus returns records in the given status ordered by
	// creation time in the given direction.
	ListByStatus(ctx context.Context, status, order string) ([]domain.Record, error)
}
