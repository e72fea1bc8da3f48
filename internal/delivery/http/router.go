package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "tradevine/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler      *AuthHandler
	AccountHandler   *AccountHandler
	TradeHandler     *TradeHandler
	AnalyticsHandler *AnalyticsHandler
	RiskHandler      *RiskHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   "tradevine-api",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public except profile)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
		auth.GET("/profile", config.AuthHandler.Profile, custommiddleware.AuthMiddleware)
	}

	// Account routes (protected)
	accounts := api.Group("/accounts", custommiddleware.AuthMiddleware)
	{
		accounts.POST("", config.AccountHandler.Create)
		accounts.GET("", config.AccountHandler.List)
		accounts.GET("/:id", config.AccountHandler.Get)
		accounts.PUT("/:id", config.AccountHandler.Update)
		accounts.DELETE("/:id", config.AccountHandler.Delete)

		accounts.POST("/:id/trades", config.TradeHandler.Create)
		accounts.GET("/:id/trades", config.TradeHandler.List)

		accounts.GET("/:id/dashboard", config.AnalyticsHandler.Dashboard)
		accounts.GET("/:id/analytics", config.AnalyticsHandler.Analytics)
		accounts.GET("/:id/export", config.AnalyticsHandler.Export)
		accounts.GET("/:id/risk-suggestions", config.RiskHandler.RiskSuggestions)
	}

	// Trade routes (protected)
	trades := api.Group("/trades", custommiddleware.AuthMiddleware)
	{
		trades.GET("/:id", config.TradeHandler.Get)
		trades.PUT("/:id", config.TradeHandler.Update)
		trades.DELETE("/:id", config.TradeHandler.Delete)
		trades.POST("/:id/entries", config.TradeHandler.AddEntry)
		trades.POST("/:id/exits", config.TradeHandler.AddExit)
		trades.POST("/:id/costs", config.TradeHandler.AddCost)
	}

	// Classification routes (protected)
	riskTypes := api.Group("/risk-types", custommiddleware.AuthMiddleware)
	{
		riskTypes.POST("", config.RiskHandler.CreateRiskType)
		riskTypes.GET("", config.RiskHandler.ListRiskTypes)
	}
	strategyTags := api.Group("/strategy-tags", custommiddleware.AuthMiddleware)
	{
		strategyTags.POST("", config.RiskHandler.CreateStrategyTag)
		strategyTags.GET("", config.RiskHandler.ListStrategyTags)
	}

	// Calculators (protected, stateless)
	calculators := api.Group("/calculators", custommiddleware.AuthMiddleware)
	{
		calculators.POST("/position-size", config.RiskHandler.PositionSize)
		calculators.POST("/forex-lot-size", config.RiskHandler.ForexLotSize)
		calculators.POST("/stock-shares", config.RiskHandler.StockShares)
	}

	// Portfolio (protected)
	portfolio := api.Group("/portfolio", custommiddleware.AuthMiddleware)
	{
		portfolio.GET("/dashboard", config.AnalyticsHandler.Portfolio)
	}
}
