package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at boot and passed to every component that needs
// credentials or tunables.
type Config struct {
	APIEnv          string `mapstructure:"API_ENV"`
	Port            string `mapstructure:"PORT"`
	AppHost         string `mapstructure:"APP_HOST"`
	MaintenanceMode bool   `mapstructure:"MAINTENANCE_MODE"`
	LogDir          string `mapstructure:"LOG_DIR"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`

	DatabaseHost     string `mapstructure:"DATABASE_HOST"`
	DatabasePort     string `mapstructure:"DATABASE_PORT"`
	DatabaseUser     string `mapstructure:"DATABASE_USER"`
	DatabasePassword string `mapstructure:"DATABASE_PASSWORD"`
	DatabaseName     string `mapstructure:"DATABASE_NAME"`
	DatabaseSSLMode  string `mapstructure:"DATABASE_SSLMODE"`
	DatabaseTimezone string `mapstructure:"DATABASE_TIMEZONE"`
	StoreDriver      string `mapstructure:"STORE_DRIVER"`

	RedisHost string `mapstructure:"REDIS_HOST"`
	Locker    string `mapstructure:"LOCKER"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `mapstructure:"CURRENCY"`

	IdentityProvider string `mapstructure:"IDENTITY_PROVIDER"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	SecretsDir       string `mapstructure:"SECRETS_DIR"`
	AWSSecretID      string `mapstructure:"AWS_SECRET_ID"`

	Mailer       string `mapstructure:"MAILER"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	StoreTimeout       time.Duration `mapstructure:"STORE_TIMEOUT"`
	ProviderTimeout    time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	LockTTL            time.Duration `mapstructure:"LOCK_TTL"`
	ReconcileInterval  time.Duration `mapstructure:"RECONCILE_INTERVAL"`
	ReconcileGrace     time.Duration `mapstructure:"RECONCILE_GRACE"`
	CheckoutRatePerMin int           `mapstructure:"CHECKOUT_RATE_PER_MIN"`
}

var defaults = map[string]any{
	"API_ENV":               "local",
	"PORT":                  "9090",
	"APP_HOST":              "http://localhost:3000",
	"MAINTENANCE_MODE":      false,
	"LOG_DIR":               "logs",
	"LOG_LEVEL":             "info",
	"DATABASE_HOST":         "localhost",
	"DATABASE_PORT":         "5432",
	"DATABASE_USER":         "postgres",
	"DATABASE_PASSWORD":     "",
	"DATABASE_NAME":         "hoteldb",
	"DATABASE_SSLMODE":      "disable",
	"DATABASE_TIMEZONE":     "UTC",
	"STORE_DRIVER":          "postgres",
	"REDIS_HOST":            "redis://localhost:6379/0",
	"LOCKER":                "redis",
	"STRIPE_SECRET_KEY":     "",
	"STRIPE_WEBHOOK_SECRET": "",
	"CURRENCY":              "usd",
	"IDENTITY_PROVIDER":     "jwt",
	"JWT_SECRET":            "",
	"SECRETS_DIR":           "/secrets",
	"AWS_SECRET_ID":         "",
	"MAILER":                "none",
	"MAIL_FROM":             "reservations@localhost",
	"SMTP_HOST":             "",
	"SMTP_PORT":             587,
	"SMTP_USERNAME":         "",
	"SMTP_PASSWORD":         "",
	"STORE_TIMEOUT":         "5s",
	"PROVIDER_TIMEOUT":      "10s",
	"LOCK_TTL":              "30s",
	"RECONCILE_INTERVAL":    "5m",
	"RECONCILE_GRACE":       "2m",
	"CHECKOUT_RATE_PER_MIN": 20,
}

// LoadConfig reads the process environment on top of the defaults above.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	cfg.Currency = strings.ToLower(cfg.Currency)
	return &cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DatabaseHost, c.DatabaseUser, c.DatabasePassword, c.DatabaseName, c.DatabasePort, c.DatabaseSSLMode, c.DatabaseTimezone)
}

func (c *Config) IsLocal() bool {
	return c.APIEnv == "local"
}

func (c *Config) SuccessURL() string {
	return fmt.Sprintf("%s/checkout/callback/success?session_id={CHECKOUT_SESSION_ID}", strings.TrimRight(c.AppHost, "/"))
}

func (c *Config) CancelURL() string {
	return fmt.Sprintf("%s/checkout/callback/cancel", strings.TrimRight(c.AppHost, "/"))
}
