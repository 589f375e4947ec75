package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/models"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
)

func nopBody(raw string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(raw))
}

type facultyServiceMock struct {
	query   dto.FacultyQuery
	created *dto.FacultyRequest
}

func (m *facultyServiceMock) List(_ context.Context, query dto.FacultyQuery) ([]models.Faculty, error) {
	m.query = query
	return []models.Faculty{{ID: "a", Name: "Ada"}}, nil
}

func (m *facultyServiceMock) Get(_ context.Context, id string) (*models.Faculty, error) {
	if id != "a" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}
	return &models.Faculty{ID: "a", Name: "Ada"}, nil
}

func (m *facultyServiceMock) Create(_ context.Context, req dto.FacultyRequest) (*models.Faculty, error) {
	m.created = &req
	if req.SubjectCode == "XX" {
		return nil, appErrors.Clone(appErrors.ErrUnknownSubject, "subject XX not found")
	}
	return &models.Faculty{ID: "new", Name: req.Name}, nil
}

func (m *facultyServiceMock) Update(_ context.Context, id string, req dto.FacultyRequest) (*models.Faculty, error) {
	return &models.Faculty{ID: id, Name: req.Name}, nil
}

func (m *facultyServiceMock) Delete(_ context.Context, id string) error {
	if id != "a" {
		return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}
	return nil
}

func TestFacultyHandlerList(t *testing.T) {
	svc := &facultyServiceMock{}
	h := NewFacultyHandler(svc)
	c, w := newTestContext(http.MethodGet, "/faculty?departmentId="+deptID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, deptID, svc.query.DepartmentID)
}

func TestFacultyHandlerCreate(t *testing.T) {
	svc := &facultyServiceMock{}
	h := NewFacultyHandler(svc)
	c, w := newTestContext(http.MethodPost, "/faculty")
	c.Request.Body = nopBody(`{"name":"Ada","subjectCode":"CS101","availability":[{"day":"Monday","periods":[1,2]}]}`)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []int{1, 2}, svc.created.Availability[0].Periods)

	c, w = newTestContext(http.MethodPost, "/faculty")
	c.Request.Body = nopBody(`{"name":"Ada","subjectCode":"XX","availability":[{"day":"Monday","periods":[1]}]}`)
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_SUBJECT")
}

func TestFacultyHandlerGetUpdateDelete(t *testing.T) {
	h := NewFacultyHandler(&facultyServiceMock{})

	c, w := newTestContext(http.MethodGet, "/faculty/zzz")
	c.Params = gin.Params{{Key: "id", Value: "zzz"}}
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext(http.MethodPut, "/faculty/a")
	c.Params = gin.Params{{Key: "id", Value: "a"}}
	c.Request.Body = nopBody(`{"name":"Ada L.","subjectCode":"CS101","availability":[{"day":"Friday","periods":[1]}]}`)
	c.Request.Header.Set("Content-Type", "application/json")
	h.Update(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada L.")

	c, w = newTestContext(http.MethodDelete, "/faculty/a")
	c.Params = gin.Params{{Key: "id", Value: "a"}}
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}
