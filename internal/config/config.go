package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Admin    AdminConfig
	CORS     CORSConfig
	Queue    QueueConfig
	Notify   NotifyConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name    string
	Version string
	Debug   bool
	Port    string
	Host    string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// AdminConfig holds the shared secret that gates the admin endpoints.
// TokenHash, when set, is a bcrypt hash and takes precedence over Token.
type AdminConfig struct {
	Token     string
	TokenHash string
	Header    string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// QueueConfig sizes the background notification queue
type QueueConfig struct {
	Size        int
	Workers     int
	TaskTimeout time.Duration
}

// NotifyConfig holds every notification channel. A channel whose
// Configured method reports false is skipped.
type NotifyConfig struct {
	Slack    SlackConfig
	SMTP     SMTPConfig
	Resend   ResendConfig
	Branding BrandingConfig
}

// SlackConfig holds the chat webhook
type SlackConfig struct {
	WebhookURL string
}

// SMTPConfig holds the direct mail relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// ResendConfig holds the HTTP email provider settings
type ResendConfig struct {
	APIKey  string
	From    string
	To      []string
	BCC     []string
	ReplyTo string
	BaseURL string
}

// BrandingConfig is only used to compose receipt emails
type BrandingConfig struct {
	SiteName         string
	LogoURL          string
	SignatureName    string
	SignatureTitle   string
	SignatureEmail   string
	SignatureAddress string
	PrivacyText      string
	PrivacyURL       string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "RoboLab Intake API"),
			Version: getEnv("APP_VERSION", "1.0.0"),
			Debug:   getEnvAsBool("DEBUG", false),
			Port:    getEnv("PORT", "8000"),
			Host:    getEnv("HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "sqlite:///./robolab.db"),
		},
		Admin: AdminConfig{
			Token:     getEnv("ADMIN_TOKEN", ""),
			TokenHash: getEnv("ADMIN_TOKEN_BCRYPT", ""),
			Header:    getEnv("ADMIN_HEADER", "X-Admin-Token"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_HOSTS", []string{"*"}),
			AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS", "HEAD"},
			AllowedHeaders: []string{"Content-Type", "X-Admin-Token", "X-Request-ID"},
			MaxAge:         86400,
		},
		Queue: QueueConfig{
			Size:        getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
			Workers:     getEnvAsInt("NOTIFY_WORKERS", 4),
			TaskTimeout: time.Duration(getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 20)) * time.Second,
		},
		Notify: NotifyConfig{
			Slack: SlackConfig{
				WebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
			},
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnvAsInt("SMTP_PORT", 587),
				Username: getEnv("SMTP_USERNAME", ""),
				Password: getEnv("SMTP_PASSWORD", ""),
				From:     getEnv("SMTP_FROM", ""),
				To:       getEnvAsSlice("SMTP_TO", nil),
			},
			Resend: ResendConfig{
				APIKey:  getEnv("RESEND_API_KEY", ""),
				From:    getEnv("RESEND_FROM", ""),
				To:      getEnvAsSlice("RESEND_TO", nil),
				BCC:     getEnvAsSlice("RESEND_BCC", nil),
				ReplyTo: getEnv("RESEND_REPLY_TO", ""),
				BaseURL: getEnv("RESEND_BASE_URL", "https://api.resend.com"),
			},
			Branding: BrandingConfig{
				SiteName:         getEnv("BRAND_SITE_NAME", "RoboLab Academy"),
				LogoURL:          getEnv("BRAND_LOGO_URL", ""),
				SignatureName:    getEnv("BRAND_SIGNATURE_NAME", "The RoboLab Team"),
				SignatureTitle:   getEnv("BRAND_SIGNATURE_TITLE", ""),
				SignatureEmail:   getEnv("BRAND_SIGNATURE_EMAIL", ""),
				SignatureAddress: getEnv("BRAND_SIGNATURE_ADDRESS", ""),
				PrivacyText:      getEnv("BRAND_PRIVACY_TEXT", "We only use your details to answer your inquiry."),
				PrivacyURL:       getEnv("BRAND_PRIVACY_URL", ""),
			},
		},
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if config.Admin.Token == "" && config.Admin.TokenHash == "" {
		log.Println("[CONFIG] Warning: ADMIN_TOKEN is not set, admin endpoints will reject every request")
	}

	return config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.App.Port == "" {
		return fmt.Errorf("PORT must be set")
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.Admin.Header == "" {
		return fmt.Errorf("ADMIN_HEADER must not be empty")
	}
	if cfg.Queue.Size <= 0 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be greater than 0")
	}
	if cfg.Queue.Workers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be greater than 0")
	}
	if cfg.Queue.TaskTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

// Configured reports whether the chat webhook can be used
func (c *SlackConfig) Configured() bool {
	return c.WebhookURL != ""
}

// Configured reports whether every relay field is present
func (c *SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port > 0 && c.Username != "" && c.Password != "" && c.From != "" && len(c.To) > 0
}

// Configured reports whether the HTTP email provider can send
// internal summaries (it needs default recipients for that).
func (c *ResendConfig) Configured() bool {
	return c.APIKey != "" && c.From != "" && len(c.To) > 0
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsPostgres checks if the database URL is for PostgreSQL
func (c *DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://") ||
		strings.Contains(c.URL, "host=")
}

// GetSQLitePath extracts SQLite database path from URL
func (c *DatabaseConfig) GetSQLitePath() string {
	return strings.TrimPrefix(c.URL, "sqlite:///")
}
