package main

import (
	"log"
	"os"

	"github.com/coopshop/billing-api/internal/application/service"
	"github.com/coopshop/billing-api/internal/config"
	"github.com/coopshop/billing-api/internal/infrastructure/database"
	"github.com/coopshop/billing-api/internal/infrastructure/repository"
	"github.com/coopshop/billing-api/internal/tasks"
	"github.com/coopshop/billing-api/pkg/email"
	"github.com/coopshop/billing-api/pkg/logger"
	"github.com/coopshop/billing-api/pkg/pdfwriter"
	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logg, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logg.Fatalf("Failed to connect to database: %v", err)
	}

	// Ensure the invoice storage directory exists
	if err := os.MkdirAll(cfg.Storage.InvoicePath, 0o755); err != nil {
		logg.Fatalf("Failed to create invoice storage directory: %v", err)
	}

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

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	taskHandler := tasks.NewHandler(invoiceService, logg)
	srv, mux := tasks.NewServer(redisOpt, cfg.Worker.Concurrency, taskHandler, logg)

	logg.Infof("Starting %s worker with concurrency %d", cfg.App.Name, cfg.Worker.Concurrency)

	if err := srv.Run(mux); err != nil {
		logg.Fatalf("Failed to start worker: %v", err)
	}
}
