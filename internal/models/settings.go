package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WorkingHours is the daily teaching window in "H:MM AM|PM" clock strings.
type WorkingHours struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// BreakTime is a configured non-instructional window.
type BreakTime struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Enabled   bool   `json:"enabled"`
}

// BreakTimes is stored as a JSONB array on the settings row.
type BreakTimes []BreakTime

// Value implements driver.Valuer.
func (b BreakTimes) Value() (driver.Value, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner.
func (b *BreakTimes) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = nil
		return nil
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("scan break times: unsupported type %T", src)
	}
}

// Settings is the administrator-configured day structure.
type Settings struct {
	WorkingHours    WorkingHours `json:"workingHours"`
	PeriodDuration  int          `json:"periodDuration"`
	NumberOfPeriods int          `json:"numberOfPeriods"`
	BreakTimes      BreakTimes   `json:"breakTimes"`
	UpdatedAt       *time.Time   `json:"updatedAt,omitempty"`
}

// SettingsRow is the flattened persistence shape of Settings.
type SettingsRow struct {
	ID              int        `db:"id"`
	WorkStart       string     `db:"work_start"`
	WorkEnd         string     `db:"work_end"`
	PeriodDuration  int        `db:"period_duration"`
	NumberOfPeriods int        `db:"number_of_periods"`
	BreakTimes      BreakTimes `db:"break_times"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// ToSettings converts the stored row into the API shape.
func (r SettingsRow) ToSettings() Settings {
	updated := r.UpdatedAt
	return Settings{
		WorkingHours:    WorkingHours{StartTime: r.WorkStart, EndTime: r.WorkEnd},
		PeriodDuration:  r.PeriodDuration,
		NumberOfPeriods: r.NumberOfPeriods,
		BreakTimes:      r.BreakTimes,
		UpdatedAt:       &updated,
	}
}
