package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL         string
	Port                string
	GoEnv               string
	Auth0Domain         string
	Auth0Audience       string
	AWSRegion           string
	AWSS3Bucket         string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	LogLevel            string
	TaxRatePercent      string
	DeliveryFee         string
	PendingPollInterval string
	AlertSoundURL       string
	RedisAddr           string
	CORSAllowedOrigins  []string
	UploadDir           string
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// In production, environment variables are set directly
		// so it's okay if .env files don't exist
		if err := godotenv.Load(); err != nil {
			slog.Info("No .env file found, using system environment variables")
		}
	} else {
		slog.Info("Loaded configuration", "file", envFile)
	}

	config := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		Port:                getEnv("PORT", "8080"),
		GoEnv:               getEnv("GO_ENV", "development"),
		Auth0Domain:         getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:       getEnv("AUTH0_AUDIENCE", ""),
		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSS3Bucket:         getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		TaxRatePercent:      getEnv("TAX_RATE_PERCENT", "18"),
		DeliveryFee:         getEnv("DELIVERY_FEE", "0"),
		PendingPollInterval: getEnv("PENDING_POLL_INTERVAL", "5s"),
		AlertSoundURL:       getEnv("ALERT_SOUND_URL", "/sounds/new-order.mp3"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	rate, err := decimal.NewFromString(c.TaxRatePercent)
	if err != nil {
		return fmt.Errorf("TAX_RATE_PERCENT must be a number: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("TAX_RATE_PERCENT must be between 0 and 100")
	}
	fee, err := decimal.NewFromString(c.DeliveryFee)
	if err != nil {
		return fmt.Errorf("DELIVERY_FEE must be a number: %w", err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("DELIVERY_FEE must not be negative")
	}
	interval, err := time.ParseDuration(c.PendingPollInterval)
	if err != nil {
		return fmt.Errorf("PENDING_POLL_INTERVAL must be a duration: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("PENDING_POLL_INTERVAL must be positive")
	}
	return nil
}

// TaxRate returns the tax rate as a fraction (18 -> 0.18)
func (c *Config) TaxRate() decimal.Decimal {
	rate, err := decimal.NewFromString(c.TaxRatePercent)
	if err != nil {
		return decimal.Zero
	}
	return rate.Div(decimal.NewFromInt(100))
}

// DeliveryFeeAmount returns the flat delivery fee charged on online orders
func (c *Config) DeliveryFeeAmount() decimal.Decimal {
	fee, err := decimal.NewFromString(c.DeliveryFee)
	if err != nil {
		return decimal.Zero
	}
	return fee
}

// PollInterval returns how often pending orders are checked
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.PendingPollInterval)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether images go to an S3 bucket rather than the local upload dir
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// GetConfig returns the last loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
