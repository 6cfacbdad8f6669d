package handlers

import (
	"errors"
	"strconv"

	"unipass-backend/internal/core/services"
	"unipass-backend/internal/pkg/pagination"
	"unipass-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SchoolHandler handles school management endpoints (admin)
type SchoolHandler struct {
	schoolService *services.SchoolService
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(schoolService *services.SchoolService) *SchoolHandler {
	return &SchoolHandler{
		schoolService: schoolService,
	}
}

// CreateSchoolRequest represents create school request body
type CreateSchoolRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// CreateSchool handles school creation (Admin only)
// @Summary Create school
// @Description Register a new school (Admin only)
// @Tags Schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSchoolRequest true "School data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /schools [post]
func (h *SchoolHandler) CreateSchool(c *fiber.Ctx) error {
	var req CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	school, err := h.schoolService.Create(c.Context(), &services.CreateSchoolInput{
		Name: req.Name,
		City: req.City,
	})
	if err != nil {
		if errors.Is(err, services.ErrSchoolAlreadyExists) {
			return response.Conflict(c, "A school with this name already exists")
		}
		return response.InternalServerError(c, "Failed to create school")
	}

	return response.Created(c, "School created successfully", fiber.Map{
		"school": school,
	})
}

// ListSchools handles listing schools (Admin only)
// @Summary List schools
// @Description Get a paginated list of schools (Admin only)
// @Tags Schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Search by name"
// @Success 200 {object} response.Response
// @Router /schools [get]
func (h *SchoolHandler) ListSchools(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := c.Query("search")

	schools, total, err := h.schoolService.List(c.Context(), search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list schools")
	}

	return response.Success(c, "Schools retrieved successfully", pagination.NewResponse(schools, params, total))
}

// GetSchool handles getting a school by ID (Admin only)
// @Summary Get school by ID
// @Description Get a specific school (Admin only)
// @Tags Schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /schools/{id} [get]
func (h *SchoolHandler) GetSchool(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid school ID")
	}

	school, err := h.schoolService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			return response.NotFound(c, "School not found")
		}
		return response.InternalServerError(c, "Failed to get school")
	}

	memberCount, _ := h.schoolService.MemberCount(c.Context(), school.ID)

	return response.Success(c, "School retrieved successfully", fiber.Map{
		"school":       school,
		"member_count": memberCount,
	})
}

// UpdateSchoolRequest represents update school request body
type UpdateSchoolRequest struct {
	Name     *string `json:"name"`
	City     *string `json:"city"`
	IsActive *bool   `json:"is_active"`
}

// UpdateSchool handles updating a school (Admin only)
// @Summary Update school
// @Description Update a school's information (Admin only)
// @Tags Schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID"
// @Param body body UpdateSchoolRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /schools/{id} [put]
func (h *SchoolHandler) UpdateSchool(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid school ID")
	}

	var req UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	school, err := h.schoolService.Update(c.Context(), uint(id), &services.UpdateSchoolInput{
		Name:     req.Name,
		City:     req.City,
		IsActive: req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSchoolNotFound):
			return response.NotFound(c, "School not found")
		case errors.Is(err, services.ErrSchoolAlreadyExists):
			return response.Conflict(c, "A school with this name already exists")
		default:
			return response.InternalServerError(c, "Failed to update school")
		}
	}

	return response.Success(c, "School updated successfully", fiber.Map{
		"school": school,
	})
}

// DeleteSchool handles deleting a school (Admin only)
// @Summary Delete school
// @Description Delete a school (soft delete) (Admin only)
// @Tags Schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /schools/{id} [delete]
func (h *SchoolHandler) DeleteSchool(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid school ID")
	}

	if err := h.schoolService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			return response.NotFound(c, "School not found")
		}
		return response.InternalServerError(c, "Failed to delete school")
	}

	return response.Success(c, "School deleted successfully", nil)
}
