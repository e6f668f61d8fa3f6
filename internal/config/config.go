package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Storage   StorageConfig
	SMTP      SMTPConfig
	Billing   BillingConfig
	Worker    WorkerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// AdminConfig holds the operator login credentials. The password is a
// bcrypt hash; the plain password never appears in configuration.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

type StorageConfig struct {
	// InvoicePath is the storage root for generated invoice documents.
	// Invoice filenames in the database are relative to it.
	InvoicePath string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// BillingConfig enumerates the options the invoicing workflow consumes.
type BillingConfig struct {
	// DateFormat is the layout used for invoice dates on documents.
	DateFormat string
	// DepositCashlessStartDate is the earliest date from which returned
	// deposit payments are considered for invoicing.
	DepositCashlessStartDate time.Time
	// InvoiceHeaderText is printed at the top of every invoice document.
	InvoiceHeaderText string
	// VATForDeposit is the tax rate applied to deposit positions.
	VATForDeposit decimal.Decimal
}

type WorkerConfig struct {
	Concurrency int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "coopshop-billing")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_LOG_LEVEL", "info")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "coopshop")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/Vienna")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("INVOICE_STORAGE_PATH", "./storage/invoices")
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "Coopshop")
	viper.SetDefault("SMTP_FROM_EMAIL", "invoices@example.com")
	viper.SetDefault("BILLING_DATE_FORMAT", "02.01.2006")
	viper.SetDefault("BILLING_DEPOSIT_CASHLESS_START_DATE", "2021-01-01")
	viper.SetDefault("BILLING_INVOICE_HEADER_TEXT", "Thank you for shopping at your food coop.")
	viper.SetDefault("BILLING_VAT_FOR_DEPOSIT", "20")
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	depositStart, err := time.Parse("2006-01-02", viper.GetString("BILLING_DEPOSIT_CASHLESS_START_DATE"))
	if err != nil {
		log.Printf("Warning: invalid BILLING_DEPOSIT_CASHLESS_START_DATE, ignoring: %v", err)
	}

	vatForDeposit, err := decimal.NewFromString(viper.GetString("BILLING_VAT_FOR_DEPOSIT"))
	if err != nil {
		log.Printf("Warning: invalid BILLING_VAT_FOR_DEPOSIT, using 20: %v", err)
		vatForDeposit = decimal.NewFromInt(20)
	}

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			LogLevel: viper.GetString("APP_LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Admin: AdminConfig{
			Email:        viper.GetString("ADMIN_EMAIL"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		Storage: StorageConfig{
			InvoicePath: viper.GetString("INVOICE_STORAGE_PATH"),
		},
		SMTP: SMTPConfig{
			Host:      viper.GetString("SMTP_HOST"),
			Port:      viper.GetInt("SMTP_PORT"),
			Username:  viper.GetString("SMTP_USERNAME"),
			Password:  viper.GetString("SMTP_PASSWORD"),
			FromName:  viper.GetString("SMTP_FROM_NAME"),
			FromEmail: viper.GetString("SMTP_FROM_EMAIL"),
		},
		Billing: BillingConfig{
			DateFormat:               viper.GetString("BILLING_DATE_FORMAT"),
			DepositCashlessStartDate: depositStart,
			InvoiceHeaderText:        viper.GetString("BILLING_INVOICE_HEADER_TEXT"),
			VATForDeposit:            vatForDeposit,
		},
		Worker: WorkerConfig{
			Concurrency: viper.GetInt("WORKER_CONCURRENCY"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
