package handlers

import (
	"unipass-backend/internal/core/services"
	"unipass-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetAdminDashboard returns admin dashboard data
// @Summary Admin Dashboard
// @Description Get admin dashboard with system overview (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get admin dashboard")
	}

	return response.Success(c, "Admin dashboard retrieved successfully", data)
}

// GetSchoolDashboard returns school dashboard data
// @Summary School Dashboard
// @Description Get the calling school's member counters (School only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/school [get]
func (h *DashboardHandler) GetSchoolDashboard(c *fiber.Ctx) error {
	schoolID, ok := callerSchoolID(c)
	if !ok {
		return response.Forbidden(c, "School account required")
	}

	data, err := h.dashboardService.GetSchoolDashboard(c.Context(), schoolID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get school dashboard")
	}

	return response.Success(c, "School dashboard retrieved successfully", data)
}

// GetPartnerDashboard returns partner dashboard data
// @Summary Partner Dashboard
// @Description Get the calling partner's redemption counters (Partner only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/partner [get]
func (h *DashboardHandler) GetPartnerDashboard(c *fiber.Ctx) error {
	partnerID, ok := callerPartnerID(c)
	if !ok {
		return response.Forbidden(c, "Partner account required")
	}

	data, err := h.dashboardService.GetPartnerDashboard(c.Context(), partnerID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get partner dashboard")
	}

	return response.Success(c, "Partner dashboard retrieved successfully", data)
}
