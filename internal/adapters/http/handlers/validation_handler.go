package handlers

import (
	"errors"
	"time"

	"unipass-backend/internal/adapters/persistence/repositories"
	"unipass-backend/internal/core/domain"
	"unipass-backend/internal/core/services"
	"unipass-backend/internal/pkg/pagination"
	"unipass-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ValidationHandler handles card validation endpoints (partner role)
type ValidationHandler struct {
	validationService *services.ValidationService
}

// NewValidationHandler creates a new validation handler
func NewValidationHandler(validationService *services.ValidationService) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
	}
}

// ScanRequest represents a scanned card token
type ScanRequest struct {
	CardToken string `json:"card_token"`
}

// Scan handles QR card token validation
// @Summary Validate scanned card
// @Description Resolve a scanned card token and evaluate the partner's offers
// @Tags Validation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScanRequest true "Scanned token"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /validation/scan [post]
func (h *ValidationHandler) Scan(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CardToken == "" {
		return response.BadRequest(c, "Card token is required")
	}

	result, err := h.validationService.ResolveByCardToken(c.Context(), partnerID, req.CardToken)
	if err != nil {
		return h.mapValidationError(c, err)
	}

	return response.Success(c, "Card validated successfully", result)
}

// CPFLookupRequest represents a CPF lookup
type CPFLookupRequest struct {
	CPF string `json:"cpf"`
}

// LookupByCPF handles validation by CPF for partners without a scanner
// @Summary Validate by CPF
// @Description Resolve a member by CPF and evaluate the partner's offers
// @Tags Validation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CPFLookupRequest true "CPF"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /validation/cpf [post]
func (h *ValidationHandler) LookupByCPF(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	var req CPFLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CPF == "" {
		return response.BadRequest(c, "CPF is required")
	}

	result, err := h.validationService.ResolveByCPF(c.Context(), partnerID, req.CPF)
	if err != nil {
		return h.mapValidationError(c, err)
	}

	return response.Success(c, "Card validated successfully", result)
}

// RedeemRequest represents a redemption confirmation
type RedeemRequest struct {
	MemberID uint   `json:"member_id"`
	OfferID  string `json:"offer_id"`
}

// Redeem handles redemption confirmation
// @Summary Confirm redemption
// @Description Re-check the offer's availability and append the redemption
// @Tags Validation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RedeemRequest true "Redemption data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /validation/redeem [post]
func (h *ValidationHandler) Redeem(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}
	operatorID, _ := c.Locals("userID").(uint)

	var req RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MemberID == 0 {
		return response.BadRequest(c, "Member ID is required")
	}
	if req.OfferID == "" {
		return response.BadRequest(c, "Offer ID is required")
	}

	result, err := h.validationService.ConfirmRedemption(c.Context(), partnerID, req.MemberID, req.OfferID, operatorID)
	if err != nil {
		var blocked *services.BlockedOfferError
		if errors.As(err, &blocked) {
			return response.ErrorWithData(c, fiber.StatusConflict, "Offer is not available for this member", fiber.Map{
				"offer": blocked.Status,
			})
		}
		return h.mapValidationError(c, err)
	}

	return response.Created(c, "Redemption confirmed", result)
}

// History handles the partner's redemption log
// @Summary Redemption history
// @Description List the calling partner's redemption log, newest first
// @Tags Validation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param offer_id query string false "Filter by offer id"
// @Param member_id query int false "Filter by member id"
// @Param from query string false "From date (RFC3339)"
// @Param to query string false "To date (RFC3339)"
// @Success 200 {object} response.Response
// @Router /validation/history [get]
func (h *ValidationHandler) History(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	params := pagination.GetParams(c)

	filter := repositories.RedemptionFilter{
		OfferID:  c.Query("offer_id"),
		MemberID: uint(c.QueryInt("member_id", 0)),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "Invalid 'from' date, expected RFC3339")
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "Invalid 'to' date, expected RFC3339")
		}
		filter.To = &t
	}

	events, total, err := h.validationService.History(c.Context(), partnerID, filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to load history")
	}

	return response.Success(c, "History retrieved successfully", pagination.NewResponse(events, params, total))
}

func (h *ValidationHandler) mapValidationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound):
		return response.NotFound(c, "Member not found")
	case errors.Is(err, domain.ErrInvalidCPF):
		return response.UnprocessableEntity(c, "CPF is not valid")
	case errors.Is(err, domain.ErrCardInactive):
		return response.Forbidden(c, "Card is inactive")
	case errors.Is(err, domain.ErrCardExpired):
		return response.Forbidden(c, "Card has expired")
	case errors.Is(err, domain.ErrOfferNotFound):
		return response.NotFound(c, "Offer not found in this partner's catalog")
	case errors.Is(err, services.ErrPartnerNotFound):
		return response.NotFound(c, "Partner not found")
	default:
		return response.InternalServerError(c, "Failed to validate card")
	}
}
