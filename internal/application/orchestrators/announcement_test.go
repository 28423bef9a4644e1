package orchestrators

import (
	"context"
	"testing"
	"time"

	"dogreg/internal/domain/announcement"
	"dogreg/internal/domain/profile"
)

// mockAnnouncementStore implements AnnouncementStore for testing.
type mockAnnouncementStore struct {
	saved map[string]announcement.Announcement
}

func (m *mockAnnouncementStore) Save(_ context.Context, a announcement.Announcement) error {
	m.saved[a.ID] = a
	return nil
}

func newMockAnnouncementStore() *mockAnnouncementStore {
	return &mockAnnouncementStore{saved: make(map[string]announcement.Announcement)}
}

var fixedTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "ann-001" }

var adminAuthor = profile.Profile{ID: "p-admin", Username: "admin", Email: "admin@x.com", Role: profile.RoleAdmin}

// TestExecuteCreateAnnouncement_Draft tests creating a draft.
func TestExecuteCreateAnnouncement_Draft(t *testing.T) {
	store := newMockAnnouncementStore()
	a, err := ExecuteCreateAnnouncement(context.Background(), CreateAnnouncementInput{
		Title:   "Show season",
		Content: "**Entries open** next week",
		Author:  adminAuthor,
	}, CreateAnnouncementDeps{
		AnnouncementStore: store,
		GenerateID:        fixedID,
		Now:               fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "ann-001" {
		t.Errorf("expected ID=ann-001, got %s", a.ID)
	}
	if a.Status != announcement.StatusDraft {
		t.Errorf("expected status=draft, got %s", a.Status)
	}
	if a.CreatedBy != "p-admin" {
		t.Errorf("expected CreatedBy=p-admin, got %s", a.CreatedBy)
	}
	if _, ok := store.saved["ann-001"]; !ok {
		t.Error("expected announcement to be persisted")
	}
}

// TestExecuteCreateAnnouncement_Publish tests the publish-on-create path.
func TestExecuteCreateAnnouncement_Publish(t *testing.T) {
	store := newMockAnnouncementStore()
	a, err := ExecuteCreateAnnouncement(context.Background(), CreateAnnouncementInput{
		Title:   "Show season",
		Content: "content",
		Author:  adminAuthor,
		Publish: true,
	}, CreateAnnouncementDeps{
		AnnouncementStore: store,
		GenerateID:        fixedID,
		Now:               fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.IsPublished() {
		t.Error("expected published announcement")
	}
	if !a.PublishedAt.Equal(fixedTime) {
		t.Errorf("expected PublishedAt=%v, got %v", fixedTime, a.PublishedAt)
	}
}

// TestExecuteCreateAnnouncement_NonAdmin tests the author role guard.
func TestExecuteCreateAnnouncement_NonAdmin(t *testing.T) {
	store := newMockAnnouncementStore()
	_, err := ExecuteCreateAnnouncement(context.Background(), CreateAnnouncementInput{
		Title:   "Show season",
		Content: "content",
		Author:  profile.Profile{ID: "p1", Role: profile.RoleUser},
	}, CreateAnnouncementDeps{
		AnnouncementStore: store,
		GenerateID:        fixedID,
		Now:               fixedNow,
	})
	if err == nil {
		t.Error("expected error for non-admin author")
	}
	if len(store.saved) != 0 {
		t.Error("non-admin announcement was persisted")
	}
}

// TestExecuteCreateAnnouncement_EmptyTitle tests validation.
func TestExecuteCreateAnnouncement_EmptyTitle(t *testing.T) {
	store := newMockAnnouncementStore()
	_, err := ExecuteCreateAnnouncement(context.Background(), CreateAnnouncementInput{
		Content: "content",
		Author:  adminAuthor,
	}, CreateAnnouncementDeps{
		AnnouncementStore: store,
		GenerateID:        fixedID,
		Now:               fixedNow,
	})
	if err == nil {
		t.Error("expected error for empty title")
	}
}
