package handlers

import (
	"errors"
	"strconv"
	"time"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/core/services"
	"unipass-backend/internal/pkg/pagination"
	"unipass-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member management endpoints (school role)
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// callerSchoolID reads the school scope set by the auth middleware
func callerSchoolID(c *fiber.Ctx) (uint, bool) {
	schoolID, ok := c.Locals("schoolID").(uint)
	return schoolID, ok && schoolID != 0
}

// EnrollMemberRequest represents member enrollment request body
type EnrollMemberRequest struct {
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Category  string    `json:"category"`
	PhotoURL  string    `json:"photo_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EnrollMember handles member enrollment (School role)
// @Summary Enroll member
// @Description Enroll a student or dependent and issue their card
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EnrollMemberRequest true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) EnrollMember(c *fiber.Ctx) error {
	schoolID, ok := callerSchoolID(c)
	if !ok {
		return response.Forbidden(c, "School account required")
	}

	var req EnrollMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.CPF == "" {
		return response.BadRequest(c, "CPF is required")
	}
	if req.ExpiresAt.IsZero() {
		return response.BadRequest(c, "Card expiry is required")
	}

	member, err := h.memberService.Enroll(c.Context(), schoolID, &services.EnrollMemberInput{
		Name:      req.Name,
		CPF:       req.CPF,
		Category:  req.Category,
		PhotoURL:  req.PhotoURL,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCPFInvalid):
			return response.UnprocessableEntity(c, "CPF is not valid")
		case errors.Is(err, services.ErrCPFAlreadyUsed):
			return response.Conflict(c, "CPF already enrolled")
		case errors.Is(err, services.ErrCategoryInvalid):
			return response.BadRequest(c, "Category must be STUDENT or DEPENDENT")
		case errors.Is(err, services.ErrExpiryInThePast):
			return response.BadRequest(c, "Card expiry must be in the future")
		default:
			return response.InternalServerError(c, "Failed to enroll member")
		}
	}

	return response.Created(c, "Member enrolled successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// ListMembers handles listing the school's members
// @Summary List members
// @Description Get a paginated list of the school's members
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Search by name or CPF"
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	schoolID, ok := callerSchoolID(c)
	if !ok {
		return response.Forbidden(c, "School account required")
	}

	params := pagination.GetParams(c)
	search := c.Query("search")

	members, total, err := h.memberService.ListBySchool(c.Context(), schoolID, search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	out := make([]*models.MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.ToResponse()
	}

	return response.Success(c, "Members retrieved successfully", pagination.NewResponse(out, params, total))
}

// GetMember handles getting a member by ID
// @Summary Get member by ID
// @Description Get a specific member within the caller's school
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	schoolID, ok := callerSchoolID(c)
	if !ok {
		return response.Forbidden(c, "School account required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetByID(c.Context(), uint(id), schoolID)
	if err != nil {
		return h.mapMemberError(c, err)
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// UpdateMemberRequest represents update member request body
type UpdateMemberRequest struct {
	Name      *string    `json:"name"`
	Category  *string    `json:"category"`
	PhotoURL  *string    `json:"photo_url"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsActive  *bool      `json:"is_active"`
}

// UpdateMember handles updating a member
// @Summary Update member
// @Description Update a member within the caller's school
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body UpdateMemberRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	schoolID, ok := callerSchoolID(c)
	if !ok {
		return response.Forbidden(c, "School account required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Update(c.Context(), uint(id), schoolID, &services.UpdateMemberInput{
		Name:      req.Name,
		Category:  req.Category,
		PhotoURL:  req.PhotoURL,
		ExpiresAt: req.ExpiresAt,
		IsActive:  req.IsActive,
	})
	if err != nil {
		if errors.Is(err, services.ErrCategoryInvalid) {
			return response.BadRequest(c, "Category must be STUDENT or DEPENDENT")
		}
		return h.mapMemberError(c, err)
	}

	return response.Success(c, "Member updated successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// ReissueCard handles card reissue
// @Summary Reissue member card
// @Description Revoke the current card token and issue a new one
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/reissue-card [post]
func (h *MemberHandler) ReissueCard(c *fiber.Ctx) error {
	schoolID, ok := callerSchoolID(c)
	if !ok {
		return response.Forbidden(c, "School account required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.ReissueCard(c.Context(), uint(id), schoolID)
	if err != nil {
		return h.mapMemberError(c, err)
	}

	return response.Success(c, "Card reissued successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// DeleteMember handles deleting a member
// @Summary Delete member
// @Description Delete a member (soft delete)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [delete]
func (h *MemberHandler) DeleteMember(c *fiber.Ctx) error {
	schoolID, ok := callerSchoolID(c)
	if !ok {
		return response.Forbidden(c, "School account required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	if err := h.memberService.Delete(c.Context(), uint(id), schoolID); err != nil {
		return h.mapMemberError(c, err)
	}

	return response.Success(c, "Member deleted successfully", nil)
}

func (h *MemberHandler) mapMemberError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		return response.NotFound(c, "Member not found")
	case errors.Is(err, services.ErrWrongSchool):
		return response.Forbidden(c, "Member belongs to another school")
	default:
		return response.InternalServerError(c, "Failed to process member")
	}
}
