package dog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dogreg/internal/adapters/storage"
	domain "dogreg/internal/domain/dog"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new dog record store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Joined against profile so each record carries a resolvable owner
// name, the way the hosted backend exposes its dogs_with_owner view.
const recordColumns = `d.id, d.name, d.sex, d.date_of_birth, d.color,
	d.microchip_number, d.pedigree_number, d.notes, d.status, d.owner_id,
	COALESCE(NULLIF(p.display_name, ''), p.email, ''), d.created_at`

const recordFrom = " FROM dog d LEFT JOIN profile p ON p.id = d.owner_id"

type recordScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row recordScanner) (domain.Record, error) {
	var entity domain.Record
	var dob, color, chip, pedigree, notes sql.NullString
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Sex,
		&dob,
		&color,
		&chip,
		&pedigree,
		&notes,
		&entity.Status,
		&entity.OwnerID,
		&entity.OwnerName,
		&createdAt,
	)
	if err != nil {
		return domain.Record{}, err
	}
	entity.DateOfBirth = dob.String
	entity.Color = color.String
	entity.MicrochipNumber = chip.String
	entity.PedigreeNumber = pedigree.String
	entity.Notes = notes.String
	entity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return entity, nil
}

// GetByID retrieves a Record by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+recordFrom+" WHERE d.id = ?", id)
	entity, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return domain.Record{}, fmt.Errorf("dog record not found: %w", err)
	}
	return entity, err
}

// Save persists a Record to the database. Empty optional fields are
// stored as NULL so they stay absent rather than empty-string.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Record) error {
	query := `INSERT INTO dog (id, name, sex, date_of_birth, color,
			microchip_number, pedigree_number, notes, status, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, sex=excluded.sex, date_of_birth=excluded.date_of_birth,
			color=excluded.color, microchip_number=excluded.microchip_number,
			pedigree_number=excluded.pedigree_number, notes=excluded.notes,
			status=excluded.status`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Sex,
		nullable(entity.DateOfBirth),
		nullable(entity.Color),
		nullable(entity.MicrochipNumber),
		nullable(entity.PedigreeNumber),
		nullable(entity.Notes),
		entity.Status,
		entity.OwnerID,
		entity.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// ListByStatus retrieves records in the given status ordered by creation time.
// PRE: status is a valid record status; order is "asc" or "desc"
// POST: Returns matching entities
func (s *SQLiteStore) ListByStatus(ctx context.Context, status, order string) ([]domain.Record, error) {
	dir := "ASC"
	if order == OrderNewestFirst {
		dir = "DESC"
	}
	query := "SELECT " + recordColumns + recordFrom + " WHERE d.status = ? ORDER BY d.created_at " + dir
	rows, err := s.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		entity, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
