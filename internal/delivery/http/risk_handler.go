package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradevine/internal/delivery/http/dto"
	"tradevine/internal/domain"
	"tradevine/internal/middleware"
	"tradevine/internal/service"
)

// RiskHandler handles classification labels, position-sizing calculators and
// risk suggestions
type RiskHandler struct {
	classificationRepo domain.ClassificationRepository
	suggestionService  *service.SuggestionService
}

// NewRiskHandler creates a new RiskHandler
func NewRiskHandler(
	classificationRepo domain.ClassificationRepository,
	suggestionService *service.SuggestionService,
) *RiskHandler {
	return &RiskHandler{
		classificationRepo: classificationRepo,
		suggestionService:  suggestionService,
	}
}

// CreateRiskType creates a risk classification label
// POST /api/risk-types
func (h *RiskHandler) CreateRiskType(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	var req dto.CreateRiskTypeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Name == "" {
		return BadRequestResponse(c, "Name is required")
	}
	if req.DefaultRiskPercentage != nil && *req.DefaultRiskPercentage <= 0 {
		return BadRequestResponse(c, "Default risk percentage must be positive")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	riskType := &domain.RiskType{
		ID:                    uuid.New(),
		UserID:                userID,
		Name:                  req.Name,
		Description:           req.Description,
		DefaultRiskPercentage: req.DefaultRiskPercentage,
		CreatedAt:             time.Now(),
	}

	if err := h.classificationRepo.CreateRiskType(ctx, riskType); err != nil {
		return DomainErrorResponse(c, err, "Failed to create risk type")
	}

	return CreatedResponse(c, riskType)
}

// ListRiskTypes returns the user's risk classification labels
// GET /api/risk-types
func (h *RiskHandler) ListRiskTypes(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	riskTypes, err := h.classificationRepo.ListRiskTypes(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to list risk types")
	}

	return SuccessResponse(c, riskTypes)
}

// CreateStrategyTag creates a strategy label
// POST /api/strategy-tags
func (h *RiskHandler) CreateStrategyTag(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	var req dto.CreateStrategyTagRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Name == "" {
		return BadRequestResponse(c, "Name is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tag := &domain.StrategyTag{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	if err := h.classificationRepo.CreateStrategyTag(ctx, tag); err != nil {
		return DomainErrorResponse(c, err, "Failed to create strategy tag")
	}

	return CreatedResponse(c, tag)
}

// ListStrategyTags returns the user's strategy labels
// GET /api/strategy-tags
func (h *RiskHandler) ListStrategyTags(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tags, err := h.classificationRepo.ListStrategyTags(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to list strategy tags")
	}

	return SuccessResponse(c, tags)
}

// PositionSize runs the generic position size calculator
// POST /api/calculators/position-size
func (h *RiskHandler) PositionSize(c echo.Context) error {
	var req dto.PositionSizeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.AccountBalance == nil || req.RiskPercentage == nil ||
		req.EntryPrice == nil || req.StopLossPrice == nil {
		return BadRequestResponse(c,
			"account_balance, risk_percentage, entry_price and stop_loss_price are required")
	}

	result, err := service.CalculatePositionSize(service.PositionSizeInput{
		AccountBalance:  *req.AccountBalance,
		RiskPercentage:  *req.RiskPercentage,
		EntryPrice:      *req.EntryPrice,
		StopLossPrice:   *req.StopLossPrice,
		TakeProfitPrice: req.TakeProfitPrice,
	})
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to calculate position size")
	}

	return SuccessResponse(c, dto.NewPositionSizeOutput(result))
}

// ForexLotSize runs the forex lot size calculator
// POST /api/calculators/forex-lot-size
func (h *RiskHandler) ForexLotSize(c echo.Context) error {
	var req dto.ForexLotSizeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.AccountBalance == nil || req.RiskPercentage == nil || req.StopLossPips == nil {
		return BadRequestResponse(c,
			"account_balance, risk_percentage and stop_loss_pips are required")
	}

	result, err := service.CalculateForexLotSize(service.ForexLotSizeInput{
		AccountBalance: *req.AccountBalance,
		RiskPercentage: *req.RiskPercentage,
		StopLossPips:   *req.StopLossPips,
		CurrencyPair:   req.CurrencyPair,
	})
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to calculate lot size")
	}

	return SuccessResponse(c, dto.NewForexLotSizeOutput(result))
}

// StockShares runs the stock share calculator
// POST /api/calculators/stock-shares
func (h *RiskHandler) StockShares(c echo.Context) error {
	var req dto.StockSharesRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.AccountBalance == nil || req.RiskPercentage == nil ||
		req.EntryPrice == nil || req.StopLossPrice == nil {
		return BadRequestResponse(c,
			"account_balance, risk_percentage, entry_price and stop_loss_price are required")
	}

	result, err := service.CalculateStockShares(service.StockSharesInput{
		AccountBalance: *req.AccountBalance,
		RiskPercentage: *req.RiskPercentage,
		EntryPrice:     *req.EntryPrice,
		StopLossPrice:  *req.StopLossPrice,
	})
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to calculate share count")
	}

	return SuccessResponse(c, dto.NewStockSharesOutput(result))
}

// RiskSuggestions returns advisory risk guidance for an account
// GET /api/accounts/:id/risk-suggestions
func (h *RiskHandler) RiskSuggestions(c echo.Context) error {
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

	advice, err := h.suggestionService.GetRiskSuggestions(ctx, userID, accountID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to build risk suggestions")
	}

	return SuccessResponse(c, dto.NewRiskAdviceOutput(advice))
}
