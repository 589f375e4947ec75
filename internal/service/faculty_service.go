package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/models"
	"github.com/noah-isme/faculty-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) (bool, error)
}

type subjectFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
}

type settingsProvider interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// FacultyService manages the faculty roster.
type FacultyService struct {
	repo      facultyRepository
	subjects  subjectFinder
	settings  settingsProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs the service.
func NewFacultyService(repo facultyRepository, subjects subjectFinder, settings settingsProvider, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, subjects: subjects, settings: settings, validator: validate, logger: logger}
}

// List returns the roster, optionally narrowed to one department.
func (s *FacultyService) List(ctx context.Context, query dto.FacultyQuery) ([]models.Faculty, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "departmentId must be a UUID")
	}
	roster, err := s.repo.List(ctx, models.FacultyFilter{DepartmentID: query.DepartmentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	if roster == nil {
		roster = []models.Faculty{}
	}
	return roster, nil
}

// Get returns one faculty member.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	if err := s.validateID(id); err != nil {
		return nil, err
	}
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

// Create adds a faculty member.
func (s *FacultyService) Create(ctx context.Context, req dto.FacultyRequest) (*models.Faculty, error) {
	faculty := &models.Faculty{}
	if err := s.apply(ctx, faculty, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}
	s.logger.Info("faculty created", zap.String("faculty_id", faculty.ID), zap.String("department_id", faculty.DepartmentID))
	return faculty, nil
}

// Update replaces a faculty member's details.
func (s *FacultyService) Update(ctx context.Context, id string, req dto.FacultyRequest) (*models.Faculty, error) {
	faculty, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, faculty, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty")
	}
	return faculty, nil
}

// Delete removes a faculty member.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	if err := s.validateID(id); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}
	return nil
}

func (s *FacultyService) validateID(id string) error {
	if err := s.validator.Var(id, "required,uuid"); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "faculty id must be a UUID")
	}
	return nil
}

func (s *FacultyService) apply(ctx context.Context, faculty *models.Faculty, req dto.FacultyRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "name is required")
	}

	subject, err := s.subjects.FindByCode(ctx, strings.TrimSpace(req.SubjectCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUnknownSubject, "subject "+req.SubjectCode+" not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	raw := make(models.Availability, 0, len(req.Availability))
	for _, d := range req.Availability {
		raw = append(raw, models.DayAvailability{Day: d.Day, Periods: d.Periods})
	}
	availability, err := scheduler.NormalizeAvailability(raw, settings.NumberOfPeriods)
	if err != nil {
		return fromSchedulerError(err)
	}

	faculty.Name = name
	faculty.SubjectID = subject.ID
	faculty.SubjectCode = subject.Code
	faculty.SubjectName = subject.Name
	faculty.DepartmentID = subject.DepartmentID
	faculty.Availability = availability
	return nil
}
