package main

import (
	"log"
	"os"

	"github.com/coopshop/billing-api/internal/application/service"
	"github.com/coopshop/billing-api/internal/config"
	"github.com/coopshop/billing-api/internal/infrastructure/database"
	"github.com/coopshop/billing-api/internal/infrastructure/repository"
	"github.com/coopshop/billing-api/internal/presentation/http/handler"
	"github.com/coopshop/billing-api/internal/presentation/http/routes"
	"github.com/coopshop/billing-api/internal/tasks"
	"github.com/coopshop/billing-api/pkg/email"
	"github.com/coopshop/billing-api/pkg/logger"
	"github.com/coopshop/billing-api/pkg/pdfwriter"
	"github.com/coopshop/billing-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logg, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logg.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logg.Fatalf("Failed to run migrations: %v", err)
	}

	// Ensure the invoice storage directory exists
	if err := os.MkdirAll(cfg.Storage.InvoicePath, 0o755); err != nil {
		logg.Fatalf("Failed to create invoice storage directory: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	subjectRepo := repository.NewBillingSubjectRepository(db)
	orderDetailRepo := repository.NewOrderDetailRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromName:     cfg.SMTP.FromName,
		FromEmail:    cfg.SMTP.FromEmail,
	})

	// Redis client for readiness checks
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Initialize task client for the job queue
	taskClient := tasks.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer taskClient.Close()

	// Initialize services
	auditService := service.NewAuditService(auditLogRepo, logg)
	billingService := service.NewBillingService(orderDetailRepo, paymentRepo, &cfg.Billing)
	invoiceService := service.NewInvoiceService(
		subjectRepo,
		invoiceRepo,
		orderDetailRepo,
		paymentRepo,
		billingService,
		pdfwriter.NewPDFWriter(),
		emailService,
		auditService,
		cfg.Storage.InvoicePath,
		&cfg.Billing,
		logg,
	)
	schedulerService := service.NewSchedulerService(subjectRepo, taskClient, logg)
	subjectService := service.NewSubjectService(subjectRepo)
	paymentService := service.NewPaymentService(paymentRepo, subjectRepo, auditService)
	authService := service.NewAuthService(&cfg.Admin, jwtManager)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Subject: handler.NewSubjectHandler(subjectService),
		Payment: handler.NewPaymentHandler(paymentService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
		Cron:    handler.NewCronHandler(schedulerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
		Log:        logg,
		DB:         db,
		Redis:      redisClient,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logg.Infof("Starting %s server on port %s (%s)", cfg.App.Name, port, cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		logg.Fatalf("Failed to start server: %v", err)
	}
}
