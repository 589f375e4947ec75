package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/models"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
)

type departmentDirectoryStub struct {
	departments []models.Department
	err         error
}

func (s *departmentDirectoryStub) List(context.Context) ([]models.Department, error) {
	return s.departments, s.err
}

func (s *departmentDirectoryStub) FindByID(_ context.Context, id string) (*models.Department, error) {
	for _, d := range s.departments {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, errors.New("not found")
}

type subjectListStub struct {
	filter models.SubjectFilter
}

func (s *subjectListStub) List(_ context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	s.filter = filter
	return nil, nil
}

func TestCatalogServiceDepartments(t *testing.T) {
	svc := NewCatalogService(&departmentDirectoryStub{departments: []models.Department{{ID: testDeptID, Name: "Science"}}}, &subjectListStub{}, nil)

	departments, err := svc.Departments(context.Background())
	require.NoError(t, err)
	assert.Len(t, departments, 1)

	failing := NewCatalogService(&departmentDirectoryStub{err: errors.New("boom")}, &subjectListStub{}, nil)
	_, err = failing.Departments(context.Background())
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceSubjects(t *testing.T) {
	subjects := &subjectListStub{}
	svc := NewCatalogService(&departmentDirectoryStub{}, subjects, nil)

	list, err := svc.Subjects(context.Background(), dto.SubjectQuery{DepartmentID: testDeptID})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Equal(t, testDeptID, subjects.filter.DepartmentID)

	_, err = svc.Subjects(context.Background(), dto.SubjectQuery{DepartmentID: "cse"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
