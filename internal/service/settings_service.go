package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/models"
	"github.com/noah-isme/faculty-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.SettingsRow, error)
	Upsert(ctx context.Context, row *models.SettingsRow) error
}

// SettingsDefaults are served until settings have been saved.
type SettingsDefaults struct {
	WorkStart       string
	WorkEnd         string
	PeriodDuration  int
	NumberOfPeriods int
}

// SettingsService reads and writes the timetable settings and derives the day layout.
// Settings are always read from the repository so layouts never go stale.
type SettingsService struct {
	repo      settingsRepository
	defaults  SettingsDefaults
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo settingsRepository, defaults SettingsDefaults, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, defaults: defaults, metrics: metrics, validator: validate, logger: logger}
}

// Get returns the stored settings, or the configured defaults when none exist.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			settings := s.defaultSettings()
			return &settings, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable settings")
	}
	settings := row.ToSettings()
	return &settings, nil
}

// Update validates and stores new settings.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	settings := models.Settings{
		WorkingHours: models.WorkingHours{
			StartTime: strings.TrimSpace(req.WorkingHours.StartTime),
			EndTime:   strings.TrimSpace(req.WorkingHours.EndTime),
		},
		PeriodDuration:  req.PeriodDuration,
		NumberOfPeriods: req.NumberOfPeriods,
		BreakTimes:      make(models.BreakTimes, 0, len(req.BreakTimes)),
	}
	for _, b := range req.BreakTimes {
		settings.BreakTimes = append(settings.BreakTimes, models.BreakTime{
			Name:      strings.TrimSpace(b.Name),
			StartTime: strings.TrimSpace(b.StartTime),
			EndTime:   strings.TrimSpace(b.EndTime),
			Enabled:   b.Enabled,
		})
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	row := &models.SettingsRow{
		WorkStart:       settings.WorkingHours.StartTime,
		WorkEnd:         settings.WorkingHours.EndTime,
		PeriodDuration:  settings.PeriodDuration,
		NumberOfPeriods: settings.NumberOfPeriods,
		BreakTimes:      settings.BreakTimes,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable settings")
	}
	s.logger.Info("timetable settings updated",
		zap.String("start", row.WorkStart),
		zap.String("end", row.WorkEnd),
		zap.Int("period_duration", row.PeriodDuration),
		zap.Int("number_of_periods", row.NumberOfPeriods),
		zap.Int("breaks", len(row.BreakTimes)),
	)
	saved := row.ToSettings()
	return &saved, nil
}

// Layout derives the day structure from the current settings.
func (s *SettingsService) Layout(ctx context.Context) (*dto.LayoutResponse, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	layout, err := scheduler.BuildLayout(*settings)
	if err != nil {
		return nil, fromSchedulerError(err)
	}
	return layoutResponse(layout, s.metrics), nil
}

func layoutResponse(layout scheduler.Layout, metrics *MetricsService) *dto.LayoutResponse {
	short := layout.Shortfall()
	metrics.SetPeriodShortfall(short.Missing)
	resp := &dto.LayoutResponse{
		Blocks:           layout.Blocks,
		RequestedPeriods: short.Requested,
		FittedPeriods:    short.Fitted,
		Shortfall:        short,
	}
	if short.Any() {
		resp.Warning = shortfallWarning(short)
	}
	return resp
}

func shortfallWarning(short scheduler.Shortfall) string {
	return fmt.Sprintf("only %d of %d periods fit within working hours", short.Fitted, short.Requested)
}

// validateSettings checks every clock string, disabled breaks included.
func validateSettings(settings models.Settings) error {
	invalid := func(msg string) error {
		return appErrors.Clone(appErrors.ErrInvalidSettings, msg)
	}
	if _, err := scheduler.BuildLayout(settings); err != nil {
		return invalid(err.Error())
	}
	for _, b := range settings.BreakTimes {
		if b.Name == "" {
			return invalid("break name is required")
		}
		start, err := scheduler.ParseClock(b.StartTime)
		if err != nil {
			return invalid(fmt.Sprintf("break %q: %v", b.Name, err))
		}
		end, err := scheduler.ParseClock(b.EndTime)
		if err != nil {
			return invalid(fmt.Sprintf("break %q: %v", b.Name, err))
		}
		if start >= end {
			return invalid(fmt.Sprintf("break %q must start before it ends", b.Name))
		}
	}
	return nil
}

func (s *SettingsService) defaultSettings() models.Settings {
	return models.Settings{
		WorkingHours:    models.WorkingHours{StartTime: s.defaults.WorkStart, EndTime: s.defaults.WorkEnd},
		PeriodDuration:  s.defaults.PeriodDuration,
		NumberOfPeriods: s.defaults.NumberOfPeriods,
		BreakTimes:      models.BreakTimes{},
	}
}
