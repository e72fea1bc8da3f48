package main

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tradevine/configs"
	"tradevine/internal/adapter"
	"tradevine/internal/database"
	delivery "tradevine/internal/delivery/http"
	"tradevine/internal/infra"
	"tradevine/internal/logger"
	"tradevine/internal/repository"
	"tradevine/internal/service"
	"tradevine/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	zapLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, zapLogger); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	classificationRepo := repository.NewClassificationRepository(db)

	// Initialize services
	rateProvider := adapter.NewFixedRateProvider()
	tradeService := usecase.NewTradeService(tradeRepo, accountRepo, classificationRepo, zapLogger)
	analyticsService := usecase.NewAnalyticsService(
		userRepo, accountRepo, tradeRepo, classificationRepo, rateProvider, zapLogger)
	suggestionService := service.NewSuggestionService(accountRepo, tradeRepo, zapLogger)

	// Start the balance reconciliation job
	scheduler := infra.NewScheduler(accountRepo, tradeService, zapLogger)
	if err := scheduler.Start(cfg.Jobs.BalanceReconcileSpec); err != nil {
		zapLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:      delivery.NewAuthHandler(userRepo),
		AccountHandler:   delivery.NewAccountHandler(accountRepo),
		TradeHandler:     delivery.NewTradeHandler(tradeService),
		AnalyticsHandler: delivery.NewAnalyticsHandler(analyticsService),
		RiskHandler:      delivery.NewRiskHandler(classificationRepo, suggestionService),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("starting server",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Env),
	)

	go func() {
		if err := e.Start(addr); err != nil && err != stdhttp.ErrServerClosed {
			zapLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server exited gracefully")
}
