package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/scheduler"
	"github.com/noah-isme/faculty-timetable-api/internal/service"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
	"github.com/noah-isme/faculty-timetable-api/pkg/jobs"
)

const deptID = "3b241101-e2bb-4255-8caf-4136c566a962"

type timetableServiceMock struct {
	generateErr error
	lastQuery   dto.DepartmentQuery
	lastExport  dto.ExportQuery
	deleteErr   error
	stored      *dto.TimetableResponse
}

func (m *timetableServiceMock) Generate(_ context.Context, query dto.DepartmentQuery) (*dto.GenerateTimetableResponse, error) {
	m.lastQuery = query
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &dto.GenerateTimetableResponse{
		DepartmentID:  query.DepartmentID,
		Timetable:     scheduler.Grid{"Monday": {1: {SubjectName: "Algorithms", FacultyName: "Ada", FacultyID: "a"}, 2: nil}},
		UnfilledCells: 1,
		Warnings:      []string{"1 cells have no available faculty"},
	}, nil
}

func (m *timetableServiceMock) Get(_ context.Context, query dto.DepartmentQuery) (*dto.TimetableResponse, error) {
	m.lastQuery = query
	if m.stored != nil {
		return m.stored, nil
	}
	return nil, appErrors.Clone(appErrors.ErrTimetableNotFound, "")
}

func (m *timetableServiceMock) Delete(_ context.Context, query dto.DepartmentQuery) error {
	m.lastQuery = query
	return m.deleteErr
}

func (m *timetableServiceMock) Export(_ context.Context, query dto.ExportQuery) (*service.ExportFile, error) {
	m.lastExport = query
	return &service.ExportFile{Filename: "timetable.csv", ContentType: "text/csv", Payload: []byte("Time,Monday\n")}, nil
}

type batchServiceMock struct {
	enqueueErr error
}

func (m *batchServiceMock) Enqueue(context.Context) (*dto.BatchGenerateResponse, error) {
	if m.enqueueErr != nil {
		return nil, m.enqueueErr
	}
	return &dto.BatchGenerateResponse{JobID: "job-1", Status: "QUEUED"}, nil
}

func (m *batchServiceMock) Status(_ context.Context, id string) (*dto.BatchJobStatusResponse, error) {
	if id != "job-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "batch job not found")
	}
	return &dto.BatchJobStatusResponse{Job: jobs.Record{ID: id, Status: jobs.StatusRunning}}, nil
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestTimetableHandlerGenerate(t *testing.T) {
	svc := &timetableServiceMock{}
	h := NewTimetableHandler(svc, &batchServiceMock{})
	c, w := newTestContext(http.MethodPost, "/timetables/generate?departmentId="+deptID)

	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, deptID, svc.lastQuery.DepartmentID)
	var body struct {
		Data struct {
			Timetable map[string]map[string]*scheduler.Slot `json:"timetable"`
		} `json:"data"`
		Meta map[string][]string `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Ada", body.Data.Timetable["Monday"]["1"].FacultyName)
	assert.Nil(t, body.Data.Timetable["Monday"]["2"])
	assert.Len(t, body.Meta["warnings"], 1)
}

func TestTimetableHandlerGenerateNoFaculty(t *testing.T) {
	svc := &timetableServiceMock{generateErr: appErrors.Clone(appErrors.ErrNoFacultyForDepartment, "")}
	h := NewTimetableHandler(svc, &batchServiceMock{})
	c, w := newTestContext(http.MethodPost, "/timetables/generate?departmentId="+deptID)

	h.Generate(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_FACULTY_FOR_DEPARTMENT")
}

func TestTimetableHandlerGetNotFound(t *testing.T) {
	h := NewTimetableHandler(&timetableServiceMock{}, &batchServiceMock{})
	c, w := newTestContext(http.MethodGet, "/timetables?departmentId="+deptID)

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestTimetableHandlerGetReportsCacheHit(t *testing.T) {
	svc := &timetableServiceMock{stored: &dto.TimetableResponse{
		DepartmentID: deptID,
		Timetable:    json.RawMessage(`{"Monday":{"1":null}}`),
		Cached:       true,
	}}
	h := NewTimetableHandler(svc, &batchServiceMock{})
	c, w := newTestContext(http.MethodGet, "/timetables?departmentId="+deptID)

	h.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"timetable":{"Monday":{"1":null}}`)
	assert.Contains(t, w.Body.String(), `"cache_hit":true`)
}

func TestTimetableHandlerDelete(t *testing.T) {
	h := NewTimetableHandler(&timetableServiceMock{}, &batchServiceMock{})
	c, w := newTestContext(http.MethodDelete, "/timetables?departmentId="+deptID)

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTimetableHandlerExport(t *testing.T) {
	svc := &timetableServiceMock{}
	h := NewTimetableHandler(svc, &batchServiceMock{})
	c, w := newTestContext(http.MethodGet, "/timetables/export?departmentId="+deptID+"&format=csv")

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", svc.lastExport.Format)
	assert.Equal(t, `attachment; filename="timetable.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Time,Monday\n", w.Body.String())
}

func TestTimetableHandlerGenerateAll(t *testing.T) {
	h := NewTimetableHandler(&timetableServiceMock{}, &batchServiceMock{})
	c, w := newTestContext(http.MethodPost, "/timetables/generate-all")

	h.GenerateAll(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"jobId":"job-1"`)

	disabled := NewTimetableHandler(&timetableServiceMock{}, &batchServiceMock{enqueueErr: appErrors.Clone(appErrors.ErrUnavailable, "batch generation is disabled")})
	c, w = newTestContext(http.MethodPost, "/timetables/generate-all")
	disabled.GenerateAll(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTimetableHandlerBatchStatus(t *testing.T) {
	h := NewTimetableHandler(&timetableServiceMock{}, &batchServiceMock{})

	c, w := newTestContext(http.MethodGet, "/timetables/jobs/job-1")
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	h.BatchStatus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RUNNING")

	c, w = newTestContext(http.MethodGet, "/timetables/jobs/nope")
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.BatchStatus(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
