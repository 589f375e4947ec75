package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DayAvailability lists the period numbers a faculty member can teach on a day.
type DayAvailability struct {
	Day     string `json:"day"`
	Periods []int  `json:"periods"`
}

// Availability is stored as a JSONB array on the faculty row.
type Availability []DayAvailability

// Value implements driver.Valuer.
func (a Availability) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Availability) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan availability: unsupported type %T", src)
	}
	return json.Unmarshal(raw, a)
}

// Faculty is a teaching staff member bound to one subject and, through it, one department.
type Faculty struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	SubjectID    string       `db:"subject_id" json:"subject_id"`
	SubjectCode  string       `db:"subject_code" json:"subject_code"`
	SubjectName  string       `db:"subject_name" json:"subject_name"`
	DepartmentID string       `db:"department_id" json:"department_id"`
	Availability Availability `db:"availability" json:"availability"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// FacultyFilter narrows roster listings.
type FacultyFilter struct {
	DepartmentID string
}
