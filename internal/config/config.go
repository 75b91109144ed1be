package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	Port                string        `mapstructure:"PORT"`
	Env                 string        `mapstructure:"ENV"`
	DatabaseDriver      string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32         `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins         []string      `mapstructure:"CORS_ORIGINS"`
	AuthSigningKey      string        `mapstructure:"AUTH_SIGNING_KEY"`
	UploadLimit         string        `mapstructure:"UPLOAD_LIMIT"`
	RequestTimeout      time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ExportDir           string        `mapstructure:"EXPORT_DIR"`
	ExportRetention     time.Duration `mapstructure:"EXPORT_RETENTION"`
	ExportSweepSchedule string        `mapstructure:"EXPORT_SWEEP_SCHEDULE"`
}

var keys = []string{
	"PORT",
	"ENV",
	"DATABASE_DRIVER",
	"DATABASE_URL",
	"DB_MAX_CONNS",
	"DB_MIN_CONNS",
	"CORS_ORIGINS",
	"AUTH_SIGNING_KEY",
	"UPLOAD_LIMIT",
	"REQUEST_TIMEOUT",
	"EXPORT_DIR",
	"EXPORT_RETENTION",
	"EXPORT_SWEEP_SCHEDULE",
}

// Load reads configuration from the environment. A dotenv file named by
// ENV_FILE (default .env) is loaded first when present; variables already set
// in the environment win.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "opp_app.db")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("UPLOAD_LIMIT", "10M")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("EXPORT_DIR", "exports")
	v.SetDefault("EXPORT_RETENTION", "24h")
	v.SetDefault("EXPORT_SWEEP_SCHEDULE", "@every 1h")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// a single env string does not decode into a slice
	if origins := v.GetString("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is usable before anything is
// opened. In production a fixed AUTH_SIGNING_KEY is required so issued tokens
// survive restarts.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be \"sqlite\" or \"postgres\", got %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.DBMaxConns)
	}

	if c.IsProduction() && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY is required in production")
	}
	if c.AuthSigningKey != "" {
		keyBytes, err := hex.DecodeString(c.AuthSigningKey)
		if err != nil {
			return fmt.Errorf("AUTH_SIGNING_KEY is not valid hex: %w", err)
		}
		if len(keyBytes) < 32 {
			return fmt.Errorf("AUTH_SIGNING_KEY must be at least 32 bytes (64 hex chars), got %d bytes", len(keyBytes))
		}
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	if c.ExportDir == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}
	if c.ExportRetention <= 0 {
		return fmt.Errorf("EXPORT_RETENTION must be positive, got %s", c.ExportRetention)
	}
	if _, err := cron.ParseStandard(c.ExportSweepSchedule); err != nil {
		return fmt.Errorf("EXPORT_SWEEP_SCHEDULE %q is invalid: %w", c.ExportSweepSchedule, err)
	}

	return nil
}
