package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents the application configuration
type Config struct {
	// Env is the deployment environment; "production" enables secure cookies
	Env string `env:"APP_ENV" envDefault:"development"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	API      APIConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Listing  ListingConfig
	Storage  StorageConfig
	Email    EmailConfig
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"boardsite"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	// MigrationsPath is the path to database migrations
	MigrationsPath string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations"`
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string `env:"API_PORT" envDefault:"8080"`
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the HMAC key used to sign session tokens
	JWTSecret string `env:"JWT_SECRET,required"`
	// SessionTTL is how long an issued session token stays valid
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	// CookieName is the name of the session cookie
	CookieName string `env:"COOKIE_NAME" envDefault:"token"`
	// RegistrationOpen determines if admin signup is allowed
	RegistrationOpen bool `env:"REGISTRATION_OPEN" envDefault:"true"`
	// PublicIPLookupURL, when set, is queried for the caller's public address
	// if the request arrived from a private network
	PublicIPLookupURL string `env:"PUBLIC_IP_LOOKUP_URL"`
}

// ListingConfig contains settings for board and inquiry listings
type ListingConfig struct {
	// Timezone is the IANA zone date filters are interpreted in
	Timezone string `env:"LISTING_TIMEZONE" envDefault:"UTC"`
}

// StorageConfig contains S3 attachment storage settings
type StorageConfig struct {
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	Bucket    string `env:"S3_BUCKET"`
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	// PublicBaseURL overrides the URL prefix stored for uploaded objects
	PublicBaseURL string        `env:"S3_PUBLIC_BASE_URL"`
	PresignTTL    time.Duration `env:"S3_PRESIGN_TTL" envDefault:"15m"`
	UsePathStyle  bool          `env:"S3_USE_PATH_STYLE" envDefault:"false"`
}

// EmailConfig contains email service settings
type EmailConfig struct {
	// SMTPHost is the SMTP server hostname
	SMTPHost string `env:"SMTP_HOST"`
	// SMTPPort is the SMTP server port
	SMTPPort int `env:"SMTP_PORT" envDefault:"587"`
	// SMTPUsername is the SMTP authentication username
	SMTPUsername string `env:"SMTP_USERNAME"`
	// SMTPPassword is the SMTP authentication password
	SMTPPassword string `env:"SMTP_PASSWORD"`
	// FromAddress is the email address used as sender
	FromAddress string `env:"SMTP_FROM"`
	// NotifyTo receives a message for every new inquiry
	NotifyTo string `env:"NOTIFY_TO"`
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Enabled reports whether attachment uploads are configured
func (c StorageConfig) Enabled() bool {
	return c.Bucket != ""
}

// Enabled reports whether inquiry notifications are configured
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.NotifyTo != ""
}

// Location resolves the listing timezone
func (c ListingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Auth.SessionTTL)
	}
	if _, err := c.Listing.Location(); err != nil {
		return fmt.Errorf("invalid LISTING_TIMEZONE %q: %w", c.Listing.Timezone, err)
	}

	return nil
}
