// Package config loads service settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/chris/retailer-services/pkg/otp"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Env            string        `envconfig:"APP_ENV" default:"development"`
		Port           int           `envconfig:"HTTP_PORT" default:"8080"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
		RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
		StoreBackend   string        `envconfig:"STORE_BACKEND" default:"dynamodb"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DynamoDB struct {
		ChallengesTable   string `envconfig:"DYNAMODB_CHALLENGES_TABLE_NAME" default:"otp_challenges"`
		WalletsTable      string `envconfig:"DYNAMODB_WALLETS_TABLE_NAME" default:"wallets"`
		TransactionsTable string `envconfig:"DYNAMODB_TRANSACTIONS_TABLE_NAME" default:"wallet_transactions"`
		SubmissionsTable  string `envconfig:"DYNAMODB_SUBMISSIONS_TABLE_NAME" default:"submissions"`
		OrdersTable       string `envconfig:"DYNAMODB_ORDERS_TABLE_NAME" default:"payment_orders"`
		UsersTable        string `envconfig:"DYNAMODB_USERS_TABLE_NAME" default:"users"`
		OptionsTable      string `envconfig:"DYNAMODB_OPTIONS_TABLE_NAME" default:"service_options"`
		Endpoint          string `envconfig:"DYNAMODB_ENDPOINT"`
	}

	SQS struct {
		OtpQueueURL          string `envconfig:"SQS_OTP_QUEUE_URL"`
		OtpTemplate          string `envconfig:"SQS_OTP_TEMPLATE" default:"otp_verification"`
		ConfirmationQueueURL string `envconfig:"SQS_CONFIRMATION_QUEUE_URL"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Auth struct {
		JWTSecret        string        `envconfig:"JWT_SECRET"`
		TokenTTL         time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
		SecureCookie     bool          `envconfig:"SECURE_COOKIE" default:"false"`
		RateLimit        int           `envconfig:"AUTH_RATE_LIMIT" default:"10"`
		RateLimitWindow  time.Duration `envconfig:"AUTH_RATE_LIMIT_WINDOW" default:"1m"`
		PasswordHashCost int           `envconfig:"PASSWORD_HASH_COST" default:"12"`
	}

	OTP otp.Config `envconfig:"OTP"`

	Razorpay struct {
		KeyID         string        `envconfig:"RAZORPAY_KEY_ID"`
		KeySecret     string        `envconfig:"RAZORPAY_KEY_SECRET"`
		WebhookSecret string        `envconfig:"RAZORPAY_WEBHOOK_SECRET"`
		BaseURL       string        `envconfig:"RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
		Timeout       time.Duration `envconfig:"RAZORPAY_TIMEOUT" default:"10s"`
		Currency      string        `envconfig:"CURRENCY" default:"INR"`
	}

	Reconcile struct {
		OlderThan time.Duration `envconfig:"RECONCILE_OLDER_THAN" default:"20m"`
	}
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		errs = append(errs, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required"))
	}
	if c.App.StoreBackend != "dynamodb" && c.App.StoreBackend != "memory" {
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.App.StoreBackend))
	}
	return errors.Join(errs...)
}

// Load reads .env when present and fills a Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
