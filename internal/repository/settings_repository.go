package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cardwise/cardwise-api/internal/models"
)

// SettingsRepository manages the application's singleton settings row.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings singleton, creating it with defaults on first
// read.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	const query = `SELECT id, is_maintenance_mode, allow_user_registrations, created_at, updated_at FROM settings LIMIT 1`
	var settings models.Settings
	err := r.db.GetContext(ctx, &settings, query)
	if err == nil {
		return &settings, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	now := time.Now().UTC()
	settings = models.Settings{
		ID:                     uuid.NewString(),
		IsMaintenanceMode:      false,
		AllowUserRegistrations: true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	const insert = `INSERT INTO settings (id, is_maintenance_mode, allow_user_registrations, created_at, updated_at) VALUES (:id, :is_maintenance_mode, :allow_user_registrations, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, insert, &settings); err != nil {
		return nil, fmt.Errorf("create default settings: %w", err)
	}
	return &settings, nil
}

// Update persists settings changes.
func (r *SettingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now().UTC()

	const query = `UPDATE settings SET is_maintenance_mode = :is_maintenance_mode, allow_user_registrations = :allow_user_registrations, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, settings)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
