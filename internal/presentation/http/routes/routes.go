package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/presentation/http/handler"
	"github.com/sangkips/retailpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/retailpos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Register *handler.RegisterHandler
	Pos      *handler.PosHandler
	Sale     *handler.SaleHandler
	Settings *handler.SettingsHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager  *utils.JWTManager
	Cfg         *config.Config
	RateLimiter *middleware.BranchRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.GET("/profile", h.Auth.GetProfile)

		branch := protected.Group("")
		branch.Use(middleware.BranchMiddleware())
		rateLimiter := deps.RateLimiter
		if rateLimiter == nil {
			rateLimiter = middleware.NewBranchRateLimiter(middleware.RateLimiterConfig{
				RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
				BurstSize:         deps.Cfg.RateLimit.Requests,
				CleanupInterval:   5 * time.Minute,
				EntryTTL:          10 * time.Minute,
			})
		}
		branch.Use(rateLimiter.Middleware())

		registerBranchRoutes(branch, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerBranchRoutes(rg *gin.RouterGroup, h *Handlers) {
	admin := middleware.RequireRole(entity.RoleAdmin)

	register := rg.Group("/register")
	{
		register.GET("", h.Register.Current)
		register.POST("/open", h.Register.Open)
		register.POST("/close", h.Register.Close)
		register.POST("/force-close", admin, h.Register.ForceClose)
	}

	pos := rg.Group("/pos")
	{
		pos.POST("/session", h.Pos.StartSession)
		pos.GET("/cart", h.Pos.GetCart)
		pos.DELETE("/cart", h.Pos.ClearCart)
		pos.POST("/scan", h.Pos.Scan)
		pos.GET("/variants", h.Pos.SearchVariants)
		pos.POST("/cart/items", h.Pos.AddItem)
		pos.PUT("/cart/items/:variantID/quantity", h.Pos.SetQuantity)
		pos.PUT("/cart/items/:variantID/price", h.Pos.SetPrice)
		pos.DELETE("/cart/items/:variantID", h.Pos.RemoveItem)
		pos.POST("/payments", h.Pos.AddPayment)
		pos.PATCH("/payments/:index", h.Pos.UpdatePayment)
		pos.DELETE("/payments/:index", h.Pos.RemovePayment)
		pos.GET("/installments", h.Pos.Installments)
		pos.POST("/confirm", h.Pos.Confirm)
	}

	rg.GET("/stock/:variantID", h.Pos.Stock)

	sales := rg.Group("/sales")
	{
		sales.GET("", h.Sale.ListSales)
		sales.GET("/:id", h.Sale.GetSale)
		sales.GET("/:id/ticket", h.Printer.GetTicket)
		sales.POST("/:id/print", h.Printer.PrintTicket)
	}

	rg.GET("/printer/status", h.Printer.GetStatus)

	settings := rg.Group("/settings")
	{
		settings.GET("/sales-flags", h.Settings.GetSalesFlags)
		settings.PUT("/sales-flags", admin, h.Settings.UpdateSalesFlag)
		settings.GET("/issuer", h.Settings.GetIssuer)
		settings.PUT("/issuer", admin, h.Settings.UpdateIssuer)
	}
}
