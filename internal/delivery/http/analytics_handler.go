package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradevine/internal/delivery/http/dto"
	"tradevine/internal/middleware"
	"tradevine/internal/usecase"
)

// AnalyticsHandler handles dashboard, analytics, export and portfolio
// requests
type AnalyticsHandler struct {
	analyticsService *usecase.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *usecase.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Dashboard returns the account dashboard
// GET /api/accounts/:id/dashboard
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	dashboard, err := h.analyticsService.GetAccountDashboard(ctx, userID, accountID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to build dashboard")
	}

	return SuccessResponse(c, dto.NewAccountDashboardOutput(dashboard))
}

// Analytics returns the extended account analytics
// GET /api/accounts/:id/analytics
func (h *AnalyticsHandler) Analytics(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	analytics, err := h.analyticsService.GetAccountAnalytics(ctx, userID, accountID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to build analytics")
	}

	return SuccessResponse(c, dto.NewAccountAnalyticsOutput(analytics))
}

// Export streams the account's trade register as a CSV attachment
// GET /api/accounts/:id/export
func (h *AnalyticsHandler) Export(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	data, filename, err := h.analyticsService.ExportAccountCSV(ctx, userID, accountID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to export trades")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}

// Portfolio returns the cross-account portfolio dashboard
// GET /api/portfolio/dashboard
func (h *AnalyticsHandler) Portfolio(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	dashboard, err := h.analyticsService.GetPortfolioDashboard(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to build portfolio dashboard")
	}

	return SuccessResponse(c, dto.NewPortfolioDashboardOutput(dashboard))
}
