package routes

import (
	"time"

	"github.com/coopshop/billing-api/internal/config"
	"github.com/coopshop/billing-api/internal/presentation/http/handler"
	"github.com/coopshop/billing-api/internal/presentation/http/middleware"
	"github.com/coopshop/billing-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Subject *handler.SubjectHandler
	Payment *handler.PaymentHandler
	Invoice *handler.InvoiceHandler
	Cron    *handler.CronHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
	Log        *zap.SugaredLogger
	DB         *gorm.DB
	Redis      *redis.Client
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Readiness: database and job queue must both be reachable.
	router.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(503, gin.H{"status": "unavailable", "component": "database"})
			return
		}
		if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(503, gin.H{"status": "unavailable", "component": "queue"})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Login is public but rate limited per client IP
		loginLimiter := middleware.NewIPRateLimiter(middleware.DefaultRateLimiterConfig())
		v1.POST("/auth/login", loginLimiter.Middleware(), h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		apiLimiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(apiLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Billing subjects
	subjects := protected.Group("/subjects")
	{
		subjects.POST("", h.Subject.Create)
		subjects.GET("", h.Subject.List)
		subjects.GET("/:id", h.Subject.Get)
	}

	// Payments
	payments := protected.Group("/payments")
	{
		payments.POST("", h.Payment.Create)
		payments.GET("", h.Payment.List)
		payments.PUT("/:id/approval", h.Payment.UpdateApproval)
	}

	// Invoices
	invoices := protected.Group("/invoices")
	{
		invoices.POST("/generate", h.Invoice.Generate)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/document", h.Invoice.Download)
	}

	// Cronjob trigger
	protected.POST("/cron/invoices", h.Cron.TriggerInvoiceRun)
}
