package handlers

import (
	"strconv"

	"solarhub-transferdesk/internal/core/services"
	"solarhub-transferdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard and analytics endpoints
type DashboardHandler struct {
	analyticsService *services.AnalyticsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(analyticsService *services.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: analyticsService,
	}
}

// GetDashboard returns the staff dashboard rollup
// @Summary Staff dashboard
// @Description Get transfer counts, urgency and recent activity (Officer only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.analyticsService.Dashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// GetAnalytics returns trailing-window analytics
// @Summary Transfer analytics
// @Description Get rollups over a trailing window of days (Officer only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window size in days" default(30)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /analytics [get]
func (h *DashboardHandler) GetAnalytics(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))

	data, err := h.analyticsService.Analytics(c.Context(), days)
	if err != nil {
		return response.InternalServerError(c, "Failed to get analytics")
	}

	return response.Success(c, "Analytics retrieved successfully", data)
}
