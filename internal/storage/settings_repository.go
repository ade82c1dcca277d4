package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Setting names.
const (
	SettingDefaultTimezone = "default_timezone"
	SettingGigStatuses     = "gig_statuses"
)

// SettingsRepository stores user preferences as name/value pairs.
type SettingsRepository struct {
	BaseRepository
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Get returns the value stored under name and whether it was present.
func (r *SettingsRepository) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := r.DB().GetContext(ctx, &value, r.Rebind(`SELECT value FROM settings WHERE name = ?`), name)
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %s: %w", name, err)
	}
	return value, true, nil
}

// All returns every stored setting.
func (r *SettingsRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Name  string `db:"name"`
		Value string `db:"value"`
	}
	if err := r.DB().SelectContext(ctx, &rows, `SELECT name, value FROM settings`); err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Name] = row.Value
	}
	return settings, nil
}

// Set stores value under name, replacing any previous value.
func (r *SettingsRepository) Set(ctx context.Context, name, value string) error {
	now := r.Now()
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE settings SET value = ?, updated_at = ? WHERE name = ?
		`), value, now, name)
		if err != nil {
			return fmt.Errorf("updating setting %s: %w", name, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO settings (name, value, updated_at) VALUES (?, ?, ?)
		`), name, value, now); err != nil {
			return fmt.Errorf("inserting setting %s: %w", name, err)
		}
		return nil
	})
}

// SettingsGetter reads a single stored setting.
type SettingsGetter interface {
	Get(ctx context.Context, name string) (string, bool, error)
}

// ImportDefaults are the session defaults an upload starts from.
type ImportDefaults struct {
	DefaultTimezone string   `json:"default_timezone"`
	GigStatuses     []string `json:"gig_statuses"`
}

// ResolveImportDefaults layers stored settings over the configured timezone
// and statuses. Empty stored values count as unset. A nil settings reader
// returns the configured values.
func ResolveImportDefaults(ctx context.Context, settings SettingsGetter, timezone string, statuses []string) (ImportDefaults, error) {
	d := ImportDefaults{DefaultTimezone: timezone, GigStatuses: statuses}
	if settings == nil {
		return d, nil
	}

	tz, ok, err := settings.Get(ctx, SettingDefaultTimezone)
	if err != nil {
		return d, err
	}
	if ok && tz != "" {
		d.DefaultTimezone = tz
	}

	raw, ok, err := settings.Get(ctx, SettingGigStatuses)
	if err != nil {
		return d, err
	}
	if ok {
		if stored := SplitList(raw); len(stored) > 0 {
			d.GigStatuses = stored
		}
	}
	return d, nil
}

// SplitList splits a comma separated setting, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
