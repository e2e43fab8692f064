package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/kidspeak/pkg/models"
)

// EducatorRepository stores educator accounts
type EducatorRepository struct {
	db *sqlx.DB
}

// NewEducatorRepository creates a new repository instance
func NewEducatorRepository(db *sqlx.DB) *EducatorRepository {
	return &EducatorRepository{db: db}
}

// LoadAll returns every educator keyed by username
func (r *EducatorRepository) LoadAll(ctx context.Context) (map[string]*models.EducatorRecord, error) {
	var records []models.EducatorRecord
	err := r.db.SelectContext(ctx, &records, "SELECT id, password_hash, name, role, created_at FROM educators")
	if err != nil {
		return nil, fmt.Errorf("failed to get educators: %v", err)
	}

	educators := make(map[string]*models.EducatorRecord, len(records))
	for i := range records {
		educators[records[i].ID] = &records[i]
	}
	return educators, nil
}

// SaveAll upserts every educator in a single transaction
func (r *EducatorRepository) SaveAll(ctx context.Context, educators map[string]*models.EducatorRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO educators (id, password_hash, name, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			password_hash = excluded.password_hash,
			name = excluded.name,
			role = excluded.role
	`)
	for id, e := range educators {
		if _, err := tx.ExecContext(ctx, query, id, e.PasswordHash, e.Name, e.Role, e.CreatedAt); err != nil {
			return fmt.Errorf("failed to save educator %s: %v", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit educators: %v", err)
	}
	return nil
}
