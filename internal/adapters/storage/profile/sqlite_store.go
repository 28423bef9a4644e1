package profile

import (
	"context"
	"database/sql"
	"fmt"

	"dogreg/internal/adapters/storage"
	domain "dogreg/internal/domain/profile"
)

// ErrProfileNotFound marks a lookup miss. Callers map it to the
// gateway's not-found condition rather than treating it as a fault.
var ErrProfileNotFound = fmt.Errorf("profile not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new profile store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const profileColumns = "id, username, email, display_name, role"

func scanProfile(row *sql.Row) (domain.Profile, error) {
	var entity domain.Profile
	err := row.Scan(&entity.ID, &entity.Username, &entity.Email, &entity.DisplayName, &entity.Role)
	if err == sql.ErrNoRows {
		return domain.Profile{}, ErrProfileNotFound
	}
	return entity, err
}

// GetByID retrieves a Profile by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrProfileNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profile WHERE id = ?", id)
	return scanProfile(row)
}

// GetByUsername retrieves a Profile by username.
// PRE: username is non-empty
// POST: Returns the entity or ErrProfileNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profile WHERE username = ?", username)
	return scanProfile(row)
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Profile) error {
	query := `INSERT INTO profile (id, username, email, display_name, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username=excluded.username, email=excluded.email,
			display_name=excluded.display_name, role=excluded.role`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Username,
		entity.Email,
		entity.DisplayName,
		entity.Role,
	)
	return err
}
