package handlers

import (
	"errors"
	"strconv"

	"unipass-backend/internal/core/services"
	"unipass-backend/internal/pkg/pagination"
	"unipass-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PartnerHandler handles partner management endpoints
type PartnerHandler struct {
	partnerService *services.PartnerService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// callerPartnerID reads the partner scope set by the auth middleware
func callerPartnerID(c *fiber.Ctx) (uint, bool) {
	partnerID, ok := c.Locals("partnerID").(uint)
	return partnerID, ok && partnerID != 0
}

// CreatePartnerRequest represents create partner request body
type CreatePartnerRequest struct {
	Name            string `json:"name"`
	CNPJ            string `json:"cnpj"`
	StandardBenefit string `json:"standard_benefit"`
}

// CreatePartner handles partner creation (Admin only)
// @Summary Create partner
// @Description Register a new partner business (Admin only)
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePartnerRequest true "Partner data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /partners [post]
func (h *PartnerHandler) CreatePartner(c *fiber.Ctx) error {
	var req CreatePartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	partner, err := h.partnerService.Create(c.Context(), &services.CreatePartnerInput{
		Name:            req.Name,
		CNPJ:            req.CNPJ,
		StandardBenefit: req.StandardBenefit,
	})
	if err != nil {
		if errors.Is(err, services.ErrPartnerAlreadyExists) {
			return response.Conflict(c, "A partner with this name already exists")
		}
		return response.InternalServerError(c, "Failed to create partner")
	}

	return response.Created(c, "Partner created successfully", fiber.Map{
		"partner": partner,
	})
}

// ListPartners handles listing partners (Admin only)
// @Summary List partners
// @Description Get a paginated list of partners (Admin only)
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Search by name"
// @Success 200 {object} response.Response
// @Router /partners [get]
func (h *PartnerHandler) ListPartners(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := c.Query("search")

	partners, total, err := h.partnerService.List(c.Context(), search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list partners")
	}

	return response.Success(c, "Partners retrieved successfully", pagination.NewResponse(partners, params, total))
}

// GetPartner handles getting a partner by ID (Admin only)
// @Summary Get partner by ID
// @Description Get a specific partner (Admin only)
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partners/{id} [get]
func (h *PartnerHandler) GetPartner(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	partner, err := h.partnerService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrPartnerNotFound) {
			return response.NotFound(c, "Partner not found")
		}
		return response.InternalServerError(c, "Failed to get partner")
	}

	return response.Success(c, "Partner retrieved successfully", fiber.Map{
		"partner": partner,
	})
}

// UpdatePartnerRequest represents update partner request body
type UpdatePartnerRequest struct {
	Name            *string `json:"name"`
	CNPJ            *string `json:"cnpj"`
	StandardBenefit *string `json:"standard_benefit"`
	IsActive        *bool   `json:"is_active"`
}

// UpdatePartner handles updating a partner (Admin only)
// @Summary Update partner
// @Description Update a partner's information (Admin only)
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Param body body UpdatePartnerRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /partners/{id} [put]
func (h *PartnerHandler) UpdatePartner(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	var req UpdatePartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	partner, err := h.partnerService.Update(c.Context(), uint(id), &services.UpdatePartnerInput{
		Name:            req.Name,
		CNPJ:            req.CNPJ,
		StandardBenefit: req.StandardBenefit,
		IsActive:        req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPartnerNotFound):
			return response.NotFound(c, "Partner not found")
		case errors.Is(err, services.ErrPartnerAlreadyExists):
			return response.Conflict(c, "A partner with this name already exists")
		default:
			return response.InternalServerError(c, "Failed to update partner")
		}
	}

	return response.Success(c, "Partner updated successfully", fiber.Map{
		"partner": partner,
	})
}

// UpdateStandardBenefitRequest represents the partner's own benefit edit
type UpdateStandardBenefitRequest struct {
	StandardBenefit string `json:"standard_benefit"`
}

// UpdateStandardBenefit handles the partner editing its own benefit
// @Summary Update standard benefit
// @Description Update the calling partner's standard benefit text
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateStandardBenefitRequest true "Benefit data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /partners/me/standard-benefit [put]
func (h *PartnerHandler) UpdateStandardBenefit(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	var req UpdateStandardBenefitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	partner, err := h.partnerService.UpdateStandardBenefit(c.Context(), partnerID, req.StandardBenefit)
	if err != nil {
		if errors.Is(err, services.ErrPartnerNotFound) {
			return response.NotFound(c, "Partner not found")
		}
		return response.InternalServerError(c, "Failed to update standard benefit")
	}

	return response.Success(c, "Standard benefit updated successfully", fiber.Map{
		"partner": partner,
	})
}

// DeletePartner handles deleting a partner (Admin only)
// @Summary Delete partner
// @Description Delete a partner (soft delete) (Admin only)
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partners/{id} [delete]
func (h *PartnerHandler) DeletePartner(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	if err := h.partnerService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrPartnerNotFound) {
			return response.NotFound(c, "Partner not found")
		}
		return response.InternalServerError(c, "Failed to delete partner")
	}

	return response.Success(c, "Partner deleted successfully", nil)
}
