package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-timetable-api/internal/models"
)

// settingsRowID pins the single settings row.
const settingsRowID = 1

// SettingsRepository persists the timetable settings singleton.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new repository instance.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings row. It returns sql.ErrNoRows when nothing has been saved.
func (r *SettingsRepository) Get(ctx context.Context) (*models.SettingsRow, error) {
	const query = `SELECT id, work_start, work_end, period_duration, number_of_periods, break_times, updated_at FROM timetable_settings WHERE id = $1`
	var row models.SettingsRow
	if err := r.db.GetContext(ctx, &row, query, settingsRowID); err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes the settings singleton.
func (r *SettingsRepository) Upsert(ctx context.Context, row *models.SettingsRow) error {
	row.ID = settingsRowID
	row.UpdatedAt = time.Now().UTC()
	if row.BreakTimes == nil {
		row.BreakTimes = models.BreakTimes{}
	}

	const query = `INSERT INTO timetable_settings (id, work_start, work_end, period_duration, number_of_periods, break_times, updated_at)
		VALUES (:id, :work_start, :work_end, :period_duration, :number_of_periods, :break_times, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET work_start = EXCLUDED.work_start,
		    work_end = EXCLUDED.work_end,
		    period_duration = EXCLUDED.period_duration,
		    number_of_periods = EXCLUDED.number_of_periods,
		    break_times = EXCLUDED.break_times,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert timetable settings: %w", err)
	}
	return nil
}
