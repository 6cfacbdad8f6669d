package handlers

import (
	"errors"
	"strconv"
	"time"

	"unipass-backend/internal/core/services"
	"unipass-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PromotionHandler handles promotion endpoints (partner role)
type PromotionHandler struct {
	promotionService *services.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionService *services.PromotionService) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotionService,
	}
}

// CreatePromotionRequest represents create promotion request body
type CreatePromotionRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	UsageLimit  string     `json:"usage_limit"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// CreatePromotion handles promotion creation (Partner role)
// @Summary Create promotion
// @Description Create a promotion for the calling partner
// @Tags Promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePromotionRequest true "Promotion data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /promotions [post]
func (h *PromotionHandler) CreatePromotion(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	var req CreatePromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.UsageLimit == "" {
		return response.BadRequest(c, "Usage limit is required")
	}

	promo, err := h.promotionService.Create(c.Context(), partnerID, &services.CreatePromotionInput{
		Title:       req.Title,
		Description: req.Description,
		UsageLimit:  req.UsageLimit,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUsageLimit):
			return response.BadRequest(c, "Usage limit must be UNLIMITED, MONTHLY or ONCE")
		case errors.Is(err, services.ErrPromoExpiryInPast):
			return response.BadRequest(c, "Promotion expiry must be in the future")
		default:
			return response.InternalServerError(c, "Failed to create promotion")
		}
	}

	return response.Created(c, "Promotion created successfully", fiber.Map{
		"promotion": promo,
	})
}

// ListPromotions handles listing the partner's promotions
// @Summary List promotions
// @Description Get all of the calling partner's promotions
// @Tags Promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /promotions [get]
func (h *PromotionHandler) ListPromotions(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	promos, err := h.promotionService.ListByPartner(c.Context(), partnerID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list promotions")
	}

	return response.Success(c, "Promotions retrieved successfully", fiber.Map{
		"promotions": promos,
	})
}

// GetPromotion handles getting a promotion by ID
// @Summary Get promotion by ID
// @Description Get a specific promotion within the caller's partner
// @Tags Promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Promotion ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /promotions/{id} [get]
func (h *PromotionHandler) GetPromotion(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid promotion ID")
	}

	promo, err := h.promotionService.GetByID(c.Context(), uint(id), partnerID)
	if err != nil {
		return h.mapPromotionError(c, err)
	}

	return response.Success(c, "Promotion retrieved successfully", fiber.Map{
		"promotion": promo,
	})
}

// UpdatePromotionRequest represents update promotion request body
type UpdatePromotionRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	UsageLimit  *string    `json:"usage_limit"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsActive    *bool      `json:"is_active"`
}

// UpdatePromotion handles updating a promotion
// @Summary Update promotion
// @Description Update a promotion within the caller's partner
// @Tags Promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Promotion ID"
// @Param body body UpdatePromotionRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /promotions/{id} [put]
func (h *PromotionHandler) UpdatePromotion(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid promotion ID")
	}

	var req UpdatePromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	promo, err := h.promotionService.Update(c.Context(), uint(id), partnerID, &services.UpdatePromotionInput{
		Title:       req.Title,
		Description: req.Description,
		UsageLimit:  req.UsageLimit,
		ExpiresAt:   req.ExpiresAt,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidUsageLimit) {
			return response.BadRequest(c, "Usage limit must be UNLIMITED, MONTHLY or ONCE")
		}
		return h.mapPromotionError(c, err)
	}

	return response.Success(c, "Promotion updated successfully", fiber.Map{
		"promotion": promo,
	})
}

// DeletePromotion handles deleting a promotion
// @Summary Delete promotion
// @Description Delete a promotion (soft delete)
// @Tags Promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Promotion ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /promotions/{id} [delete]
func (h *PromotionHandler) DeletePromotion(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid promotion ID")
	}

	if err := h.promotionService.Delete(c.Context(), uint(id), partnerID); err != nil {
		return h.mapPromotionError(c, err)
	}

	return response.Success(c, "Promotion deleted successfully", nil)
}

func (h *PromotionHandler) mapPromotionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPromotionNotFound):
		return response.NotFound(c, "Promotion not found")
	case errors.Is(err, services.ErrWrongPartner):
		return response.Forbidden(c, "Promotion belongs to another partner")
	default:
		return response.InternalServerError(c, "Failed to process promotion")
	}
}
