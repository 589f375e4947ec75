package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/middleware"
	"github.com/noah-isme/faculty-timetable-api/internal/service"
	"github.com/noah-isme/faculty-timetable-api/pkg/response"
)

type timetableService interface {
	Generate(ctx context.Context, query dto.DepartmentQuery) (*dto.GenerateTimetableResponse, error)
	Get(ctx context.Context, query dto.DepartmentQuery) (*dto.TimetableResponse, error)
	Delete(ctx context.Context, query dto.DepartmentQuery) error
	Export(ctx context.Context, query dto.ExportQuery) (*service.ExportFile, error)
}

type batchService interface {
	Enqueue(ctx context.Context) (*dto.BatchGenerateResponse, error)
	Status(ctx context.Context, jobID string) (*dto.BatchJobStatusResponse, error)
}

// TimetableHandler exposes timetable generation endpoints.
type TimetableHandler struct {
	service timetableService
	batch   batchService
}

// NewTimetableHandler builds a new handler.
func NewTimetableHandler(service timetableService, batch batchService) *TimetableHandler {
	return &TimetableHandler{service: service, batch: batch}
}

// Generate godoc
// @Summary Generate a department timetable
// @Tags Timetables
// @Produce json
// @Param departmentId query string true "Department ID (UUID)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var query dto.DepartmentQuery
	if !bindQuery(c, &query, "invalid department query") {
		return
	}
	result, err := h.service.Generate(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(result.Warnings) > 0 {
		middleware.SetMeta(c, "warnings", result.Warnings)
	}
	response.JSON(c, http.StatusOK, result, nil, middleware.Meta(c))
}

// Get godoc
// @Summary Get the stored timetable of a department
// @Tags Timetables
// @Produce json
// @Param departmentId query string true "Department ID (UUID)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	var query dto.DepartmentQuery
	if !bindQuery(c, &query, "invalid department query") {
		return
	}
	result, err := h.service.Get(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, result.Cached)
	response.JSON(c, http.StatusOK, result, nil, middleware.Meta(c))
}

// Delete godoc
// @Summary Delete the stored timetable of a department
// @Tags Timetables
// @Param departmentId query string true "Department ID (UUID)"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /timetables [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	var query dto.DepartmentQuery
	if !bindQuery(c, &query, "invalid department query") {
		return
	}
	if err := h.service.Delete(c.Request.Context(), query); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Download a department timetable
// @Tags Timetables
// @Produce application/pdf
// @Produce text/csv
// @Param departmentId query string true "Department ID (UUID)"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /timetables/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if !bindQuery(c, &query, "invalid export query") {
		return
	}
	file, err := h.service.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// GenerateAll godoc
// @Summary Regenerate every department in one batch run
// @Tags Timetables
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /timetables/generate-all [post]
func (h *TimetableHandler) GenerateAll(c *gin.Context) {
	result, err := h.batch.Enqueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// BatchStatus godoc
// @Summary Get batch generation status
// @Tags Timetables
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/jobs/{id} [get]
func (h *TimetableHandler) BatchStatus(c *gin.Context) {
	result, err := h.batch.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
