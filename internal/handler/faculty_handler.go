package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	"github.com/noah-isme/faculty-timetable-api/internal/models"
	"github.com/noah-isme/faculty-timetable-api/pkg/response"
)

type facultyService interface {
	List(ctx context.Context, query dto.FacultyQuery) ([]models.Faculty, error)
	Get(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, req dto.FacultyRequest) (*models.Faculty, error)
	Update(ctx context.Context, id string, req dto.FacultyRequest) (*models.Faculty, error)
	Delete(ctx context.Context, id string) error
}

// FacultyHandler exposes faculty roster endpoints.
type FacultyHandler struct {
	service facultyService
}

// NewFacultyHandler builds a new handler.
func NewFacultyHandler(service facultyService) *FacultyHandler {
	return &FacultyHandler{service: service}
}

// List godoc
// @Summary List faculty
// @Tags Faculty
// @Produce json
// @Param departmentId query string false "Department ID (UUID)"
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	var query dto.FacultyQuery
	if !bindQuery(c, &query, "invalid faculty query") {
		return
	}
	roster, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// Get godoc
// @Summary Get faculty by ID
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID (UUID)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	faculty, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Create godoc
// @Summary Create faculty
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body dto.FacultyRequest true "Faculty payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /faculty [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	var req dto.FacultyRequest
	if !bindJSON(c, &req, "invalid faculty payload") {
		return
	}
	faculty, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty)
}

// Update godoc
// @Summary Update faculty
// @Tags Faculty
// @Accept json
// @Produce json
// @Param id path string true "Faculty ID (UUID)"
// @Param payload body dto.FacultyRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [put]
func (h *FacultyHandler) Update(c *gin.Context) {
	var req dto.FacultyRequest
	if !bindJSON(c, &req, "invalid faculty payload") {
		return
	}
	faculty, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Delete godoc
// @Summary Delete faculty
// @Tags Faculty
// @Param id path string true "Faculty ID (UUID)"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
