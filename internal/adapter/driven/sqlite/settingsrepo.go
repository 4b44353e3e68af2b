package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*SettingsRepo)(nil)

// SettingsRepo is the SQLite implementation of the SettingsStore port
// interface. The settings record is stored as a single JSON row so partial
// records written by older versions unmarshal over the current defaults.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new SettingsRepo backed by the given DB.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get retrieves the settings record. An empty store yields the defaults.
func (r *SettingsRepo) Get(ctx context.Context) (model.Settings, error) {
	const query = `SELECT data FROM settings WHERE id = 1`

	settings := model.DefaultSettings()

	var data string
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return model.Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	// Blank templates fall back to the built-ins so a cleared field never
	// renders an empty message.
	defaults := model.DefaultSettings()
	if settings.RequestTemplate == "" {
		settings.RequestTemplate = defaults.RequestTemplate
	}
	if settings.CompleteTemplate == "" {
		settings.CompleteTemplate = defaults.CompleteTemplate
	}
	if settings.MergeTemplate == "" {
		settings.MergeTemplate = defaults.MergeTemplate
	}

	return settings, nil
}

// Set stores or replaces the settings record.
func (r *SettingsRepo) Set(ctx context.Context, settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	const query = `
		INSERT INTO settings (id, data, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`

	_, err = r.db.Writer.ExecContext(ctx, query, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set settings: %w", err)
	}

	return nil
}
