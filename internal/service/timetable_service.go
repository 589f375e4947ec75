package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/models"
	"github.com/noah-isme/faculty-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
	"github.com/noah-isme/faculty-timetable-api/pkg/export"
)

type timetableRepository interface {
	FindByDepartment(ctx context.Context, departmentID string) (*models.Timetable, error)
	Upsert(ctx context.Context, timetable *models.Timetable) error
	DeleteByDepartment(ctx context.Context, departmentID string) (bool, error)
}

type rosterReader interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, error)
}

type departmentDirectory interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// ExportFile is a rendered timetable document.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// TimetableService generates, stores and exports department timetables.
type TimetableService struct {
	timetables  timetableRepository
	roster      rosterReader
	departments departmentDirectory
	settings    settingsProvider
	cache       *CacheService
	metrics     *MetricsService
	renderers   map[string]export.Renderer
	validator   *validator.Validate
	logger      *zap.Logger
	inflight    singleflight.Group
	now         func() time.Time
}

// NewTimetableService wires the timetable orchestration.
func NewTimetableService(
	timetables timetableRepository,
	roster rosterReader,
	departments departmentDirectory,
	settings settingsProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		timetables:  timetables,
		roster:      roster,
		departments: departments,
		settings:    settings,
		cache:       cache,
		metrics:     metrics,
		renderers: map[string]export.Renderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func timetableCacheKey(departmentID string) string {
	return "department:" + departmentID
}

// Generate builds and stores a fresh timetable for one department. Concurrent calls for the
// same department share a single run.
func (s *TimetableService) Generate(ctx context.Context, query dto.DepartmentQuery) (*dto.GenerateTimetableResponse, error) {
	if err := s.validateDepartment(query); err != nil {
		return nil, err
	}
	v, err, shared := s.inflight.Do(query.DepartmentID, func() (interface{}, error) {
		in, err := s.loadInputs(ctx)
		if err != nil {
			return nil, err
		}
		return s.generate(ctx, query.DepartmentID, in, scheduler.NewOccupancy(), "")
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("joined in-flight generation", zap.String("department_id", query.DepartmentID))
	}
	return v.(*dto.GenerateTimetableResponse), nil
}

type generationInputs struct {
	layout scheduler.Layout
	roster []models.Faculty
}

func (s *TimetableService) loadInputs(ctx context.Context) (*generationInputs, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	layout, err := scheduler.BuildLayout(*settings)
	if err != nil {
		s.metrics.ObserveGeneration(OutcomeInvalid, 0, 0)
		return nil, fromSchedulerError(err)
	}
	s.metrics.SetPeriodShortfall(layout.Shortfall().Missing)

	roster, err := s.roster.List(ctx, models.FacultyFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty roster")
	}
	return &generationInputs{layout: layout, roster: roster}, nil
}

func (s *TimetableService) generate(ctx context.Context, departmentID string, in *generationInputs, occ *scheduler.Occupancy, batchJobID string) (*dto.GenerateTimetableResponse, error) {
	start := time.Now()
	result, err := scheduler.Assign(departmentID, in.roster, in.layout, occ)
	if err != nil {
		outcome := OutcomeInvalid
		if errors.Is(err, scheduler.ErrNoFaculty) {
			outcome = OutcomeNoFaculty
		}
		s.metrics.ObserveGeneration(outcome, time.Since(start), 0)
		s.logger.Info("timetable generation rejected", zap.String("department_id", departmentID), zap.String("outcome", outcome), zap.Error(err))
		return nil, fromSchedulerError(err)
	}

	generatedAt := s.now()
	short := in.layout.Shortfall()
	meta := dto.GenerationMeta{
		FilledCells:   result.Filled,
		UnfilledCells: result.Unfilled,
		Shortfall:     short,
		Blocks:        in.layout.Blocks,
		BatchJobID:    batchJobID,
		GeneratedAt:   generatedAt,
	}
	grid, err := json.Marshal(result.Grid)
	if err != nil {
		s.metrics.ObserveGeneration(OutcomeError, time.Since(start), 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable")
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		s.metrics.ObserveGeneration(OutcomeError, time.Since(start), 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable metadata")
	}

	stored := &models.Timetable{DepartmentID: departmentID, Grid: grid, Meta: rawMeta}
	if err := s.timetables.Upsert(ctx, stored); err != nil {
		s.metrics.ObserveGeneration(OutcomeError, time.Since(start), 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable")
	}
	// Overwrite rather than evict: reads only fill absent keys, so an older
	// snapshot loaded concurrently cannot land on top of this one.
	_ = s.cache.Set(ctx, timetableCacheKey(departmentID), &dto.TimetableResponse{
		DepartmentID: departmentID,
		Timetable:    json.RawMessage(grid),
		Meta:         meta,
		UpdatedAt:    stored.UpdatedAt,
	}, 0)

	s.metrics.ObserveGeneration(OutcomeSuccess, time.Since(start), result.Unfilled)
	s.logger.Info("timetable generated",
		zap.String("department_id", departmentID),
		zap.Int("filled_cells", result.Filled),
		zap.Int("unfilled_cells", result.Unfilled),
		zap.Int("periods", short.Fitted),
		zap.Int("period_shortfall", short.Missing),
		zap.Duration("duration", time.Since(start)),
	)

	resp := &dto.GenerateTimetableResponse{
		DepartmentID:  departmentID,
		Timetable:     result.Grid,
		Blocks:        in.layout.Blocks,
		Shortfall:     short,
		FilledCells:   result.Filled,
		UnfilledCells: result.Unfilled,
		GeneratedAt:   generatedAt,
	}
	if short.Any() {
		resp.Warnings = append(resp.Warnings, shortfallWarning(short))
	}
	if result.Unfilled > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d cells have no available faculty", result.Unfilled))
	}
	return resp, nil
}

// Get returns the stored timetable for a department.
func (s *TimetableService) Get(ctx context.Context, query dto.DepartmentQuery) (*dto.TimetableResponse, error) {
	if err := s.validateDepartment(query); err != nil {
		return nil, err
	}
	key := timetableCacheKey(query.DepartmentID)
	var cached dto.TimetableResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		cached.Cached = true
		return &cached, nil
	}

	stored, err := s.timetables.FindByDepartment(ctx, query.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrTimetableNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	resp := &dto.TimetableResponse{
		DepartmentID: stored.DepartmentID,
		Timetable:    json.RawMessage(stored.Grid),
		UpdatedAt:    stored.UpdatedAt,
	}
	if len(stored.Meta) > 0 {
		if err := json.Unmarshal(stored.Meta, &resp.Meta); err != nil {
			s.logger.Warn("ignoring unreadable timetable metadata", zap.String("department_id", stored.DepartmentID), zap.Error(err))
		}
	}
	_, _ = s.cache.SetIfAbsent(ctx, key, resp, 0)
	return resp, nil
}

// Delete removes the stored timetable for a department.
func (s *TimetableService) Delete(ctx context.Context, query dto.DepartmentQuery) error {
	if err := s.validateDepartment(query); err != nil {
		return err
	}
	deleted, err := s.timetables.DeleteByDepartment(ctx, query.DepartmentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrTimetableNotFound, "")
	}
	_ = s.cache.Delete(ctx, timetableCacheKey(query.DepartmentID))
	s.logger.Info("timetable deleted", zap.String("department_id", query.DepartmentID))
	return nil
}

// Export renders the stored timetable as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, query dto.ExportQuery) (*ExportFile, error) {
	query.Format = strings.ToLower(strings.TrimSpace(query.Format))
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "departmentId must be a UUID and format one of csv, pdf")
	}
	if query.Format == "" {
		query.Format = "pdf"
	}
	renderer := s.renderers[query.Format]

	stored, err := s.Get(ctx, dto.DepartmentQuery{DepartmentID: query.DepartmentID})
	if err != nil {
		return nil, err
	}
	var grid scheduler.Grid
	if err := json.Unmarshal(stored.Timetable, &grid); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored timetable is unreadable")
	}

	title := query.DepartmentID
	if dept, err := s.departments.FindByID(ctx, query.DepartmentID); err == nil {
		title = dept.Name
	}
	payload, err := renderer.Render(buildExportTable(title, stored.Meta.Blocks, grid))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("timetable-%s.%s", query.DepartmentID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

// buildExportTable lays the grid out as one row per block. When the stored snapshot predates
// block metadata the rows fall back to bare period numbers.
func buildExportTable(title string, blocks []scheduler.Block, grid scheduler.Grid) export.Table {
	table := export.Table{Title: "Timetable - " + title, Headers: append([]string{"Time"}, scheduler.Week...)}
	if len(blocks) == 0 {
		seen := map[int]bool{}
		for _, row := range grid {
			for period := range row {
				seen[period] = true
			}
		}
		for period := 1; len(seen) > 0; period++ {
			if seen[period] {
				blocks = append(blocks, scheduler.Block{Kind: scheduler.KindPeriod, PeriodNumber: period})
				delete(seen, period)
			}
		}
	}

	for _, b := range blocks {
		label := fmt.Sprintf("%s - %s", b.StartTime, b.EndTime)
		if b.StartTime == "" {
			label = fmt.Sprintf("Period %d", b.PeriodNumber)
		}
		if b.Kind == scheduler.KindBreak {
			table.Rows = append(table.Rows, export.Row{Label: label, Banner: b.Name})
			continue
		}
		cells := make([]string, 0, len(scheduler.Week))
		for _, day := range scheduler.Week {
			slot := grid[day][b.PeriodNumber]
			if slot == nil {
				cells = append(cells, "-")
				continue
			}
			cells = append(cells, fmt.Sprintf("%s (%s)", slot.SubjectName, slot.FacultyName))
		}
		table.Rows = append(table.Rows, export.Row{Label: label, Cells: cells})
	}
	return table
}

// RegenerateAll rebuilds every department's timetable in one run. All departments share a
// single occupancy set so nobody is double-booked across departments. Departments without
// faculty or with invalid availability are skipped and reported.
func (s *TimetableService) RegenerateAll(ctx context.Context, jobID string) (*dto.BatchSummary, error) {
	in, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}

	occ := scheduler.NewOccupancy()
	summary := &dto.BatchSummary{Departments: make([]dto.BatchDepartmentOutcome, 0, len(departments))}
	for _, dept := range departments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome := dto.BatchDepartmentOutcome{DepartmentID: dept.ID}
		resp, err := s.generate(ctx, dept.ID, in, occ, jobID)
		if err != nil {
			appErr := appErrors.FromError(err)
			if appErr.Status >= 500 {
				return nil, err
			}
			outcome.Skipped = appErr.Message
		} else {
			outcome.FilledCells = resp.FilledCells
			outcome.UnfilledCells = resp.UnfilledCells
		}
		summary.Departments = append(summary.Departments, outcome)
	}
	summary.Claimed = occ.Len()
	s.logger.Info("batch timetable generation finished",
		zap.String("job_id", jobID),
		zap.Int("departments", len(departments)),
		zap.Int("claimed_cells", summary.Claimed),
	)
	return summary, nil
}

func (s *TimetableService) validateDepartment(query dto.DepartmentQuery) error {
	if err := s.validator.Struct(query); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "departmentId must be a UUID")
	}
	return nil
}
