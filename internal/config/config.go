// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Timeouts   TimeoutConfig
	Logging    LoggingConfig
	App        AppConfig
	Automation AutomationConfig
	Monitor    MonitorConfig
	Providers  ProvidersConfig
	Payment    PaymentConfig
	Database   DatabaseConfig
	Telegram   TelegramConfig

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// TimeoutConfig holds timeout settings for search fan-out.
type TimeoutConfig struct {
	GlobalSearch time.Duration `env:"TIMEOUT_GLOBAL_SEARCH" envDefault:"90s"`
	PerProvider  time.Duration `env:"TIMEOUT_PER_PROVIDER" envDefault:"60s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// AutomationConfig holds browser automation settings.
type AutomationConfig struct {
	ElementTimeout      time.Duration `env:"AUTOMATION_ELEMENT_TIMEOUT" envDefault:"20s"`
	PaymentTimeout      time.Duration `env:"AUTOMATION_PAYMENT_TIMEOUT" envDefault:"900s"`
	PaymentPollInterval time.Duration `env:"AUTOMATION_PAYMENT_POLL_INTERVAL" envDefault:"5s"`
	MaxResults          int           `env:"AUTOMATION_MAX_RESULTS" envDefault:"10"`
	Headless            bool          `env:"AUTOMATION_HEADLESS" envDefault:"true"`
	BrowserBin          string        `env:"AUTOMATION_BROWSER_BIN"`
	UserDataDir         string        `env:"AUTOMATION_USER_DATA_DIR"`

	// ProfilesPath overrides the built-in site profiles.
	ProfilesPath string `env:"AUTOMATION_PROFILES_PATH"`

	// Sites lists the site profiles registered as providers.
	Sites []string `env:"AUTOMATION_SITES" envSeparator:","`
}

// MonitorConfig holds fare monitor settings.
type MonitorConfig struct {
	Schedule     string        `env:"MONITOR_SCHEDULE" envDefault:"@every 1h"`
	AlertTimeout time.Duration `env:"MONITOR_ALERT_TIMEOUT" envDefault:"30s"`
}

// ProvidersConfig holds partner API settings. A provider with no key is
// not registered.
type ProvidersConfig struct {
	BookingCom APIProviderConfig    `envPrefix:"BOOKINGCOM_"`
	MakeMyTrip APIProviderConfig    `envPrefix:"MAKEMYTRIP_"`
	RedBus     APIProviderConfig    `envPrefix:"REDBUS_"`
	AbhiBus    ScrapeProviderConfig `envPrefix:"ABHIBUS_"`
}

// APIProviderConfig is the common shape of a partner API.
type APIProviderConfig struct {
	BaseURL   string        `env:"BASE_URL"`
	APIKey    string        `env:"API_KEY"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"15s"`
	RateLimit float64       `env:"RATE_LIMIT" envDefault:"5"`
}

// Enabled reports whether the provider has credentials.
func (c APIProviderConfig) Enabled() bool {
	return c.APIKey != ""
}

// ScrapeProviderConfig configures a scraped result page.
type ScrapeProviderConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"false"`
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
	Delay   time.Duration `env:"DELAY" envDefault:"1s"`
}

// PaymentConfig holds payment gateway settings.
type PaymentConfig struct {
	RazorpayKeyID     string        `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string        `env:"RAZORPAY_KEY_SECRET"`
	BaseURL           string        `env:"RAZORPAY_BASE_URL"`
	Currency          string        `env:"PAYMENT_CURRENCY" envDefault:"INR"`
	Timeout           time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"15s"`
}

// Enabled reports whether payment links can be issued.
func (c PaymentConfig) Enabled() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

// DatabaseConfig holds the booking store settings. An empty URL selects
// the in-memory store.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL"`
}

// TelegramConfig holds the price alert channel. An empty token leaves
// alerts in the log only.
type TelegramConfig struct {
	BotToken    string        `env:"TELEGRAM_BOT_TOKEN"`
	ChatID      int64         `env:"TELEGRAM_CHAT_ID"`
	APIEndpoint string        `env:"TELEGRAM_API_ENDPOINT"`
	Timeout     time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether alerts are sent to Telegram.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.EnvFileLoaded = loaded

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout},
		{"TIMEOUT_GLOBAL_SEARCH", cfg.Timeouts.GlobalSearch},
		{"TIMEOUT_PER_PROVIDER", cfg.Timeouts.PerProvider},
		{"AUTOMATION_ELEMENT_TIMEOUT", cfg.Automation.ElementTimeout},
		{"AUTOMATION_PAYMENT_TIMEOUT", cfg.Automation.PaymentTimeout},
		{"AUTOMATION_PAYMENT_POLL_INTERVAL", cfg.Automation.PaymentPollInterval},
		{"MONITOR_ALERT_TIMEOUT", cfg.Monitor.AlertTimeout},
		{"TELEGRAM_TIMEOUT", cfg.Telegram.Timeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}

	// Per-provider timeout is capped by the global one.
	if cfg.Timeouts.PerProvider >= cfg.Timeouts.GlobalSearch {
		return fmt.Errorf("TIMEOUT_PER_PROVIDER (%s) should be less than TIMEOUT_GLOBAL_SEARCH (%s)",
			cfg.Timeouts.PerProvider, cfg.Timeouts.GlobalSearch)
	}

	if cfg.Automation.PaymentPollInterval >= cfg.Automation.PaymentTimeout {
		return fmt.Errorf("AUTOMATION_PAYMENT_POLL_INTERVAL (%s) should be less than AUTOMATION_PAYMENT_TIMEOUT (%s)",
			cfg.Automation.PaymentPollInterval, cfg.Automation.PaymentTimeout)
	}
	if cfg.Automation.MaxResults < 1 {
		return fmt.Errorf("AUTOMATION_MAX_RESULTS must be at least 1, got %d", cfg.Automation.MaxResults)
	}

	if _, err := cron.ParseStandard(cfg.Monitor.Schedule); err != nil {
		return fmt.Errorf("MONITOR_SCHEDULE is invalid: %w", err)
	}

	if (cfg.Payment.RazorpayKeyID == "") != (cfg.Payment.RazorpayKeySecret == "") {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set together")
	}
	if len(cfg.Payment.Currency) != 3 {
		return fmt.Errorf("PAYMENT_CURRENCY must be a 3-letter code, got %q", cfg.Payment.Currency)
	}

	if cfg.Telegram.Enabled() && cfg.Telegram.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
