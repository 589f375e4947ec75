package service

import (
	"errors"

	"github.com/noah-isme/faculty-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
)

// fromSchedulerError maps engine errors onto API errors, keeping the engine's message.
func fromSchedulerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, scheduler.ErrNoFaculty):
		return appErrors.Wrap(err, appErrors.ErrNoFacultyForDepartment.Code, appErrors.ErrNoFacultyForDepartment.Status, appErrors.ErrNoFacultyForDepartment.Message)
	case errors.Is(err, scheduler.ErrInvalidSettings), errors.Is(err, scheduler.ErrInvalidClock):
		return appErrors.Wrap(err, appErrors.ErrInvalidSettings.Code, appErrors.ErrInvalidSettings.Status, err.Error())
	case errors.Is(err, scheduler.ErrInvalidAvailability):
		return appErrors.Wrap(err, appErrors.ErrInvalidAvailability.Code, appErrors.ErrInvalidAvailability.Status, err.Error())
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable generation failed")
	}
}
