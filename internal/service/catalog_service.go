package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/models"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
}

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
}

// CatalogService exposes read-only departments and subjects.
type CatalogService struct {
	departments departmentRepository
	subjects    subjectRepository
	validator   *validator.Validate
}

// NewCatalogService constructs the service.
func NewCatalogService(departments departmentRepository, subjects subjectRepository, validate *validator.Validate) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{departments: departments, subjects: subjects, validator: validate}
}

// Departments lists every department.
func (s *CatalogService) Departments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	if departments == nil {
		departments = []models.Department{}
	}
	return departments, nil
}

// Subjects lists subjects, optionally for one department.
func (s *CatalogService) Subjects(ctx context.Context, query dto.SubjectQuery) ([]models.Subject, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "departmentId must be a UUID")
	}
	subjects, err := s.subjects.List(ctx, models.SubjectFilter{DepartmentID: query.DepartmentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}
