package orchestrators

import (
	"context"
	"errors"
	"time"

	"dogreg/internal/domain/announcement"
	"dogreg/internal/domain/profile"
)

// AnnouncementStore defines the store interface needed by announcements.
type AnnouncementStore interface {
	Save(ctx context.Context, a announcement.Announcement) error
}

// CreateAnnouncementInput carries input for the orchestrator.
type CreateAnnouncementInput struct {
	Title   string
	Content string // Markdown
	Author  profile.Profile
	Publish bool
}

// CreateAnnouncementDeps holds dependencies for CreateAnnouncement.
type CreateAnnouncementDeps struct {
	AnnouncementStore AnnouncementStore
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteCreateAnnouncement creates (and optionally publishes) a home
// page announcement. Admin-only.
// PRE: author has the admin role; title and content are non-empty
// POST: announcement persisted; published when requested
func ExecuteCreateAnnouncement(ctx context.Context, input CreateAnnouncementInput, deps CreateAnnouncementDeps) (announcement.Announcement, error) {
	if !input.Author.IsAdmin() {
		return announcement.Announcement{}, errors.New("only admins can create announcements")
	}
	a := announcement.Announcement{
		ID:        deps.GenerateID(),
		Status:    announcement.StatusDraft,
		Title:     input.Title,
		Content:   input.Content,
		CreatedBy: input.Author.ID,
		CreatedAt: deps.Now(),
	}
	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}
	if input.Publish {
		if err := a.Publish(deps.Now()); err != nil {
			return announcement.Announcement{}, err
		}
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, err
	}
	return a, nil
}
