package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-timetable-api/internal/models"
)

// TimetableRepository persists one timetable snapshot per department.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new repository instance.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// FindByDepartment returns the stored snapshot for a department.
func (r *TimetableRepository) FindByDepartment(ctx context.Context, departmentID string) (*models.Timetable, error) {
	const query = `SELECT id, department_id, grid, meta, created_at, updated_at FROM timetables WHERE department_id = $1`
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, departmentID); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// Upsert replaces the department's snapshot.
func (r *TimetableRepository) Upsert(ctx context.Context, timetable *models.Timetable) error {
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now
	if len(timetable.Meta) == 0 {
		timetable.Meta = []byte("{}")
	}

	const query = `INSERT INTO timetables (id, department_id, grid, meta, created_at, updated_at)
		VALUES (:id, :department_id, :grid, :meta, :created_at, :updated_at)
		ON CONFLICT (department_id) DO UPDATE
		SET grid = EXCLUDED.grid,
		    meta = EXCLUDED.meta,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, timetable); err != nil {
		return fmt.Errorf("upsert timetable: %w", err)
	}
	return nil
}

// DeleteByDepartment removes the department's snapshot. It reports whether one existed.
func (r *TimetableRepository) DeleteByDepartment(ctx context.Context, departmentID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetables WHERE department_id = $1`, departmentID)
	if err != nil {
		return false, fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete timetable rows affected: %w", err)
	}
	return affected > 0, nil
}
