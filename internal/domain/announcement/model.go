package announcement

import (
	"errors"
	"time"
)

// Announcement statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidStatuses contains all valid announcement statuses.
var ValidStatuses = []string{StatusDraft, StatusPublished}

// Domain errors
var (
	ErrEmptyTitle       = errors.New("announcement title cannot be empty")
	ErrEmptyContent     = errors.New("announcement content cannot be empty")
	ErrInvalidStatus    = errors.New("announcement status must be 'draft' or 'published'")
	ErrAlreadyPublished = errors.New("announcement is already published")
)

// Announcement is a club notice shown on the home page.
// Content supports Markdown formatting.
type Announcement struct {
	ID          string
	Status      string // draft, published
	Title       string
	Content     string // Markdown content
	CreatedBy   string // profile ID of the author
	CreatedAt   time.Time
	PublishedAt time.Time
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if a.Title == "" {
		return ErrEmptyTitle
	}
	if a.Content == "" {
		return ErrEmptyContent
	}
	if !isValidStatus(a.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsPublished returns true if the announcement is visible on the home page.
// INVARIANT: Announcement fields are not mutated
func (a *Announcement) IsPublished() bool {
	return a.Status == StatusPublished
}

// Publish moves the announcement from draft to published.
// PRE: Announcement is in draft status
// POST: Status is published, PublishedAt is set
func (a *Announcement) Publish(now time.Time) error {
	if a.IsPublished() {
		return ErrAlreadyPublished
	}
	a.Status = StatusPublished
	a.PublishedAt = now
	return nil
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
