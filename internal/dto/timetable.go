package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/faculty-timetable-api/internal/scheduler"
	"github.com/noah-isme/faculty-timetable-api/pkg/jobs"
)

// DepartmentQuery identifies the department a timetable operation targets.
type DepartmentQuery struct {
	DepartmentID string `form:"departmentId" validate:"required,uuid"`
}

// ExportQuery selects the department and document format of an export.
type ExportQuery struct {
	DepartmentID string `form:"departmentId" validate:"required,uuid"`
	Format       string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// GenerationMeta is stored alongside each timetable snapshot.
type GenerationMeta struct {
	FilledCells   int                 `json:"filledCells"`
	UnfilledCells int                 `json:"unfilledCells"`
	Shortfall     scheduler.Shortfall `json:"shortfall"`
	Blocks        []scheduler.Block   `json:"blocks"`
	BatchJobID    string              `json:"batchJobId,omitempty"`
	GeneratedAt   time.Time           `json:"generatedAt"`
}

// GenerateTimetableResponse reports a freshly generated timetable.
type GenerateTimetableResponse struct {
	DepartmentID  string              `json:"departmentId"`
	Timetable     scheduler.Grid      `json:"timetable"`
	Blocks        []scheduler.Block   `json:"blocks"`
	Shortfall     scheduler.Shortfall `json:"shortfall"`
	FilledCells   int                 `json:"filledCells"`
	UnfilledCells int                 `json:"unfilledCells"`
	Warnings      []string            `json:"warnings,omitempty"`
	GeneratedAt   time.Time           `json:"generatedAt"`
}

// TimetableResponse is a stored timetable snapshot.
type TimetableResponse struct {
	DepartmentID string          `json:"departmentId"`
	Timetable    json.RawMessage `json:"timetable"`
	Meta         GenerationMeta  `json:"meta"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Cached       bool            `json:"-"`
}

// BatchGenerateResponse acknowledges a queued regeneration of every department.
type BatchGenerateResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// BatchDepartmentOutcome is the result of one department inside a batch run.
type BatchDepartmentOutcome struct {
	DepartmentID  string `json:"departmentId"`
	FilledCells   int    `json:"filledCells"`
	UnfilledCells int    `json:"unfilledCells"`
	Skipped       string `json:"skipped,omitempty"`
}

// BatchSummary reports the outcome of a batch run.
type BatchSummary struct {
	Departments []BatchDepartmentOutcome `json:"departments"`
	Claimed     int                      `json:"claimedCells"`
}

// BatchJobStatusResponse reports a batch job and its summary once finished.
type BatchJobStatusResponse struct {
	Job     jobs.Record   `json:"job"`
	Summary *BatchSummary `json:"summary,omitempty"`
}
