package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradevine/internal/delivery/http/dto"
	"tradevine/internal/domain"
	"tradevine/internal/middleware"
)

// AccountHandler handles account CRUD requests
type AccountHandler struct {
	accountRepo domain.AccountRepository
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountRepo domain.AccountRepository) *AccountHandler {
	return &AccountHandler{
		accountRepo: accountRepo,
	}
}

var validTradingModels = map[string]bool{
	domain.ModelLowRisk:    true,
	domain.ModelMediumRisk: true,
	domain.ModelHighRisk:   true,
	domain.ModelRiskFree:   true,
}

// Create handles account creation
// POST /api/accounts
func (h *AccountHandler) Create(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Name == "" {
		return BadRequestResponse(c, "Account name is required")
	}
	if req.InitialCapital <= 0 {
		return BadRequestResponse(c, "Initial capital must be positive")
	}
	if req.TradingModel == "" {
		req.TradingModel = domain.ModelMediumRisk
	}
	if !validTradingModels[req.TradingModel] {
		return BadRequestResponse(c, "Invalid trading model")
	}
	if req.BaseCurrency == "" {
		req.BaseCurrency = "USD"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	account := &domain.Account{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           req.Name,
		Broker:         req.Broker,
		BaseCurrency:   req.BaseCurrency,
		InitialCapital: req.InitialCapital,
		CurrentBalance: req.InitialCapital,
		ProfitTarget:   req.ProfitTarget,
		MaxDrawdown:    req.MaxDrawdown,
		TradingModel:   req.TradingModel,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.accountRepo.Create(ctx, account); err != nil {
		return DomainErrorResponse(c, err, "Failed to create account")
	}

	return CreatedResponse(c, dto.NewAccountOutput(account))
}

// List returns all of the user's accounts
// GET /api/accounts
func (h *AccountHandler) List(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to list accounts")
	}

	outputs := make([]*dto.AccountOutput, 0, len(accounts))
	for _, account := range accounts {
		outputs = append(outputs, dto.NewAccountOutput(account))
	}

	return SuccessResponse(c, outputs)
}

// Get returns one account
// GET /api/accounts/:id
func (h *AccountHandler) Get(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	account, err := h.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to get account")
	}

	return SuccessResponse(c, dto.NewAccountOutput(account))
}

// Update applies a partial account update
// PUT /api/accounts/:id
func (h *AccountHandler) Update(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	var req dto.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	account, err := h.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return DomainErrorResponse(c, err, "Failed to get account")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return BadRequestResponse(c, "Account name cannot be empty")
		}
		account.Name = *req.Name
	}
	if req.Broker != nil {
		account.Broker = *req.Broker
	}
	if req.BaseCurrency != nil {
		account.BaseCurrency = *req.BaseCurrency
	}
	if req.ProfitTarget != nil {
		account.ProfitTarget = req.ProfitTarget
	}
	if req.MaxDrawdown != nil {
		account.MaxDrawdown = req.MaxDrawdown
	}
	if req.TradingModel != nil {
		if !validTradingModels[*req.TradingModel] {
			return BadRequestResponse(c, "Invalid trading model")
		}
		account.TradingModel = *req.TradingModel
	}
	account.UpdatedAt = time.Now()

	if err := h.accountRepo.Update(ctx, account); err != nil {
		return DomainErrorResponse(c, err, "Failed to update account")
	}

	return SuccessResponse(c, dto.NewAccountOutput(account))
}

// Delete removes an account and its trades
// DELETE /api/accounts/:id
func (h *AccountHandler) Delete(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Authentication required")
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid account id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.accountRepo.Delete(ctx, userID, accountID); err != nil {
		return DomainErrorResponse(c, err, "Failed to delete account")
	}

	return SuccessMessageResponse(c, "Account deleted", nil)
}
