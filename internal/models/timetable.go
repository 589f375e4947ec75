package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Timetable is the persisted snapshot of a department's generated grid.
type Timetable struct {
	ID           string         `db:"id" json:"id"`
	DepartmentID string         `db:"department_id" json:"department_id"`
	Grid         types.JSONText `db:"grid" json:"timetable"`
	Meta         types.JSONText `db:"meta" json:"meta"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}
