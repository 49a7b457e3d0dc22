package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// SemesterRepository stores per-semester calendar configuration.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs a SemesterRepository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// FindByID fetches a semester configuration.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.SemesterConfig, error) {
	const query = `SELECT id, name, type_configs, updated_at FROM semesters WHERE id = $1`
	var semester models.SemesterConfig
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// Upsert creates or replaces a semester configuration.
func (r *SemesterRepository) Upsert(ctx context.Context, semester *models.SemesterConfig) error {
	semester.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO semesters (id, name, type_configs, updated_at) VALUES (:id, :name, :type_configs, :updated_at)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type_configs = EXCLUDED.type_configs, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("upsert semester: %w", err)
	}
	return nil
}
