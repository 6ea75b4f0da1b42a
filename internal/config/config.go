package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
	Quota   QuotaConfig   `yaml:"quota"`
	Billing BillingConfig `yaml:"billing"`
	MCP     MCPConfig     `yaml:"mcp"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// AuthConfig holds the identity provider's token verification settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Audience  string `yaml:"audience"`
}

type QuotaConfig struct {
	FreeProjectLimit int `yaml:"free_project_limit"`
}

// BillingConfig holds Stripe checkout and webhook settings.
type BillingConfig struct {
	StripeAPIKey  string `yaml:"stripe_api_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	PriceID       string `yaml:"price_id"`
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 5 * time.Second,
		},
		DB: DBConfig{
			Path: "revtrack.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			Audience: "authenticated",
		},
		Quota: QuotaConfig{
			FreeProjectLimit: 1,
		},
		Billing: BillingConfig{
			SuccessURL: "http://localhost:3000/dashboard?upgraded=true",
			CancelURL:  "http://localhost:3000/upgrade",
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML file and
// environment variables, in that order of precedence (later wins).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("REVTRACK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late at request time.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Quota.FreeProjectLimit < 0 {
		return fmt.Errorf("quota.free_project_limit must be >= 0, got %d", c.Quota.FreeProjectLimit)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("REVTRACK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("REVTRACK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid REVTRACK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if timeout := os.Getenv("REVTRACK_SHUTDOWN_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid REVTRACK_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}
	if dbPath := os.Getenv("REVTRACK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("REVTRACK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if secret := os.Getenv("REVTRACK_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if aud, ok := os.LookupEnv("REVTRACK_JWT_AUDIENCE"); ok {
		cfg.Auth.Audience = aud
	}
	if limitStr := os.Getenv("REVTRACK_FREE_PROJECT_LIMIT"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid REVTRACK_FREE_PROJECT_LIMIT: %w", err)
		}
		cfg.Quota.FreeProjectLimit = limit
	}
	if key := os.Getenv("REVTRACK_STRIPE_API_KEY"); key != "" {
		cfg.Billing.StripeAPIKey = key
	}
	if secret := os.Getenv("REVTRACK_STRIPE_WEBHOOK_SECRET"); secret != "" {
		cfg.Billing.WebhookSecret = secret
	}
	if price := os.Getenv("REVTRACK_STRIPE_PRICE_ID"); price != "" {
		cfg.Billing.PriceID = price
	}
	if u := os.Getenv("REVTRACK_CHECKOUT_SUCCESS_URL"); u != "" {
		cfg.Billing.SuccessURL = u
	}
	if u := os.Getenv("REVTRACK_CHECKOUT_CANCEL_URL"); u != "" {
		cfg.Billing.CancelURL = u
	}
	if enabled := os.Getenv("REVTRACK_MCP_ENABLED"); enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid REVTRACK_MCP_ENABLED: %w", err)
		}
		cfg.MCP.Enabled = b
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
