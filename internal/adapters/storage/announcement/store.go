package announcement

import (
	"context"

	domain "dogreg/internal/domain/announcement"
)

// Store persists Announcement state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Announcement, error)
	Save(ctx context.Context, value domain.Announcement) error
	// ListPublished returns published announcements, newest first.
	ListPublished(ctx context.Context) ([]domain.Announcement, error)
}
