package dto

import "github.com/noah-isme/faculty-timetable-api/internal/scheduler"

// WorkingHoursRequest is the teaching window in "H:MM AM|PM".
type WorkingHoursRequest struct {
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// BreakTimeRequest configures one break.
type BreakTimeRequest struct {
	Name      string `json:"name" validate:"required,max=64"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Enabled   bool   `json:"enabled"`
}

// UpdateSettingsRequest replaces the timetable settings.
type UpdateSettingsRequest struct {
	WorkingHours    WorkingHoursRequest `json:"workingHours" validate:"required"`
	PeriodDuration  int                 `json:"periodDuration" validate:"required,min=1,max=240"`
	NumberOfPeriods int                 `json:"numberOfPeriods" validate:"required,min=1,max=16"`
	BreakTimes      []BreakTimeRequest  `json:"breakTimes" validate:"omitempty,max=10,dive"`
}

// LayoutResponse is the derived day structure for the current settings.
type LayoutResponse struct {
	Blocks           []scheduler.Block   `json:"blocks"`
	RequestedPeriods int                 `json:"requestedPeriods"`
	FittedPeriods    int                 `json:"fittedPeriods"`
	Shortfall        scheduler.Shortfall `json:"shortfall"`
	Warning          string              `json:"warning,omitempty"`
}
