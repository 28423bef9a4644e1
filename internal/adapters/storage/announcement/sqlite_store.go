package announcement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dogreg/internal/adapters/storage"
	domain "dogreg/internal/domain/announcement"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new announcement store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const announcementColumns = "id, status, title, content, created_by, created_at, published_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row rowScanner) (domain.Announcement, error) {
	var entity domain.Announcement
	var createdAt string
	var publishedAt sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.Status,
		&entity.Title,
		&entity.Content,
		&entity.CreatedBy,
		&createdAt,
		&publishedAt,
	)
	if err != nil {
		return domain.Announcement{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if publishedAt.Valid {
		entity.PublishedAt, _ = time.Parse(time.RFC3339, publishedAt.String)
	}
	return entity, nil
}

// GetByID retrieves an Announcement by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Announcement, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+announcementColumns+" FROM announcement WHERE id = ?", id)
	entity, err := scanAnnouncement(row)
	if err == sql.ErrNoRows {
		return domain.Announcement{}, fmt.Errorf("announcement not found: %w", err)
	}
	return entity, err
}

// Save persists an Announcement to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Announcement) error {
	var publishedAt any
	if !entity.PublishedAt.IsZero() {
		publishedAt = entity.PublishedAt.UTC().Format(time.RFC3339)
	}
	query := `INSERT INTO announcement (id, status, title, content, created_by, created_at, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status, title=excluded.title, content=excluded.content,
			published_at=excluded.published_at`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Status,
		entity.Title,
		entity.Content,
		entity.CreatedBy,
		entity.CreatedAt.UTC().Format(time.RFC3339),
		publishedAt,
	)
	return err
}

// ListPublished retrieves published announcements, newest first.
// POST: Returns matching entities
func (s *SQLiteStore) ListPublished(ctx context.Context) ([]domain.Announcement, error) {
	query := "SELECT " + announcementColumns + " FROM announcement WHERE status = ? ORDER BY published_at DESC"
	rows, err := s.db.QueryContext(ctx, query, domain.StatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Announcement
	for rows.Next() {
		entity, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
