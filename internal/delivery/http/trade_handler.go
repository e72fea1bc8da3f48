package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradevine/internal/delivery/http/dto"
	"tradevine/internal/domain"
	"tradevine/internal/middleware"
	"tradevine/internal/usecase"
)

// TradeHandler handles trade ledger requests
type TradeHandler struct {
	tradeService *usecase.TradeService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradeService *usecase.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// parseFillDate accepts RFC3339 timestamps and plain dates. Empty means now.
func parseFillDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseTagIDs(tags []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		id, err := uuid.Parse(tag)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Create opens a new trade under an account
// POST /api/accounts/:id/trades
func (h *TradeHandler) Create(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	input := usecase.CreateTradeInput{
		Name:            req.Name,
		Instrument:      req.Instrument,
		Direction:       req.Direction,
		Status:          req.Status,
		StopLossPrice:   req.StopLossPrice,
		TakeProfitPrice: req.TakeProfitPrice,
		Notes:           req.Notes,
	}

	if req.RiskTypeID != nil && *req.RiskTypeID != "" {
		riskTypeID, err := uuid.Parse(*req.RiskTypeID)
		if err != nil {
			return BadRequestResponse(c, "Invalid risk type id")
		}
		input.RiskTypeID = &riskTypeID
	}

	if req.EntryPrice != nil || req.Quantity != nil {
		if req.EntryPrice == nil || req.Quantity == nil {
			return BadRequestResponse(c, "Initial entry requires both entry_price and quantity")
		}
		filledAt, err := parseFillDate(req.EntryDate)
		if err != nil {
			return BadRequestResponse(c, "Invalid entry_date")
		}
		input.InitialEntry = &usecase.FillInput{
			FilledAt:   filledAt,
			Price:      *req.EntryPrice,
			Quantity:   *req.Quantity,
			Commission: req.Commission,
		}
	}

	for _, cost := range req.Costs {
		if cost.Amount == nil {
			return BadRequestResponse(c, "Cost amount is required")
		}
		input.Costs = append(input.Costs, usecase.CostInput{
			Type:        cost.CostType,
			Amount:      *cost.Amount,
			Description: cost.Description,
		})
	}

	tagIDs, err := parseTagIDs(req.StrategyTags)
	if err != nil {
		return BadRequestResponse(c, "Invalid strategy tag id")
	}
	input.StrategyTags = tagIDs

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	trade, err := h.tradeService.CreateTrade(ctx, userID, accountID, input)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to create trade")
	}

	return CreatedResponse(c, dto.NewTradeOutput(trade))
}

// List returns an account's trades, newest first, optionally filtered
// GET /api/accounts/:id/trades
func (h *TradeHandler) List(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	filter := domain.TradeFilter{
		Status:     c.QueryParam("status"),
		Instrument: c.QueryParam("instrument"),
		Direction:  c.QueryParam("direction"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	trades, err := h.tradeService.ListTrades(ctx, userID, accountID, filter)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to list trades")
	}

	return SuccessResponse(c, dto.NewTradeOutputs(trades))
}

// Get returns one trade with its ledger and derived metrics
// GET /api/trades/:id
func (h *TradeHandler) Get(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trade, err := h.tradeService.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to get trade")
	}

	return SuccessResponse(c, dto.NewTradeOutput(trade))
}

// Update applies a partial trade update
// PUT /api/trades/:id
func (h *TradeHandler) Update(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade id")
	}

	var req dto.UpdateTradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	input := usecase.UpdateTradeInput{
		Name:            req.Name,
		Instrument:      req.Instrument,
		Direction:       req.Direction,
		Status:          req.Status,
		StopLossPrice:   req.StopLossPrice,
		TakeProfitPrice: req.TakeProfitPrice,
		Notes:           req.Notes,
	}
	if req.RiskTypeID != nil && *req.RiskTypeID != "" {
		riskTypeID, err := uuid.Parse(*req.RiskTypeID)
		if err != nil {
			return BadRequestResponse(c, "Invalid risk type id")
		}
		input.RiskTypeID = &riskTypeID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	trade, err := h.tradeService.UpdateTrade(ctx, userID, tradeID, input)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to update trade")
	}

	return SuccessResponse(c, dto.NewTradeOutput(trade))
}

// Delete removes a trade and its ledger
// DELETE /api/trades/:id
func (h *TradeHandler) Delete(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.tradeService.DeleteTrade(ctx, userID, tradeID); err != nil {
		return DomainErrorResponse(c, err, "Failed to delete trade")
	}

	return SuccessMessageResponse(c, "Trade deleted", nil)
}

// AddEntry appends an entry fill to a trade
// POST /api/trades/:id/entries
func (h *TradeHandler) AddEntry(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade id")
	}

	var req dto.EntryRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.EntryPrice == nil || req.Quantity == nil {
		return BadRequestResponse(c, "entry_price and quantity are required")
	}
	filledAt, err := parseFillDate(req.EntryDate)
	if err != nil {
		return BadRequestResponse(c, "Invalid entry_date")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	entry, err := h.tradeService.AddEntry(ctx, userID, tradeID, usecase.FillInput{
		FilledAt:   filledAt,
		Price:      *req.EntryPrice,
		Quantity:   *req.Quantity,
		Commission: req.Commission,
	})
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to add entry")
	}

	return CreatedResponse(c, dto.EntryOutput{
		ID:         entry.ID.String(),
		FilledAt:   entry.FilledAt.Format(time.RFC3339),
		Price:      entry.Price,
		Quantity:   entry.Quantity,
		Commission: entry.Commission,
	})
}

// AddExit appends an exit fill to a trade. Exits above the open quantity are
// rejected without mutation; a fill that empties the position closes the
// trade.
// POST /api/trades/:id/exits
func (h *TradeHandler) AddExit(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade id")
	}

	var req dto.ExitRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.ExitPrice == nil || req.Quantity == nil {
		return BadRequestResponse(c, "exit_price and quantity are required")
	}
	filledAt, err := parseFillDate(req.ExitDate)
	if err != nil {
		return BadRequestResponse(c, "Invalid exit_date")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	exit, err := h.tradeService.AddExit(ctx, userID, tradeID, usecase.FillInput{
		FilledAt:   filledAt,
		Price:      *req.ExitPrice,
		Quantity:   *req.Quantity,
		Commission: req.Commission,
		Reason:     req.ExitReason,
	})
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to add exit")
	}

	return CreatedResponse(c, dto.ExitOutput{
		ID:         exit.ID.String(),
		FilledAt:   exit.FilledAt.Format(time.RFC3339),
		Price:      exit.Price,
		Quantity:   exit.Quantity,
		Commission: exit.Commission,
		Reason:     exit.Reason,
	})
}

// AddCost books a cost against a trade
// POST /api/trades/:id/costs
func (h *TradeHandler) AddCost(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade id")
	}

	var req dto.CostRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Amount == nil {
		return BadRequestResponse(c, "amount is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cost, err := h.tradeService.AddCost(ctx, userID, tradeID, usecase.CostInput{
		Type:        req.CostType,
		Amount:      *req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to add cost")
	}

	return CreatedResponse(c, dto.CostOutput{
		ID:          cost.ID.String(),
		CostType:    cost.Type,
		Amount:      cost.Amount,
		Description: cost.Description,
	})
}
