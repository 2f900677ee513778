package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/bootstrap"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/presentation/http/handler"
	"github.com/sangkips/retailpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/retailpos-api/internal/presentation/http/routes"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"github.com/sangkips/retailpos-api/pkg/printer"
	"github.com/sangkips/retailpos-api/pkg/utils"
)

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.Log.Level)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	backend, err := bootstrap.Open(cfg, true)
	if err != nil {
		logger.L.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	if err := backend.Seed(context.Background(), cfg.Seed); err != nil {
		logger.L.Warn("failed to seed default data", "error", err)
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	repos := backend.Repos

	// Initialize services
	authService := service.NewAuthService(repos.Operators, repos.Branches, jwtManager)
	settingsService := service.NewSettingsService(repos.Settings)
	registerService := service.NewRegisterService(repos, backend.Tx)
	cartService := service.NewCartService(repos, backend.Carts, registerService, settingsService)
	checkoutService := service.NewCheckoutService(repos, backend.Tx, backend.Carts, registerService, settingsService)
	saleService := service.NewSaleService(repos)

	ticketPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		logger.L.Warn("printer disabled", "error", err)
		ticketPrinter = printer.NewNullPrinter()
	}
	ticketService := service.NewTicketService(repos, ticketPrinter, cfg.Printer.Width)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Register: handler.NewRegisterHandler(registerService),
		Pos:      handler.NewPosHandler(cartService, checkoutService),
		Sale:     handler.NewSaleHandler(saleService),
		Settings: handler.NewSettingsHandler(settingsService),
		Printer:  handler.NewPrinterHandler(ticketService),
	}

	rateLimiter := middleware.NewBranchRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:  jwtManager,
		Cfg:         cfg,
		RateLimiter: rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.L.Info("starting server",
		"service", cfg.App.Name, "port", port, "env", cfg.App.Env,
		"store", cfg.POS.StoreDriver, "cart_store", cfg.POS.CartStore)

	if err := router.Run(":" + port); err != nil {
		logger.L.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
