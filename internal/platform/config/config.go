package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	// Remote chart-of-accounts API
	CoaAPIURL     string        `mapstructure:"COA_API_URL"`
	CoaAPITimeout time.Duration `mapstructure:"COA_API_TIMEOUT"`

	// View server
	CORSAllowedOrigins []string
	MutationRateLimit  string // limiter formatted rate, e.g. "30-M"
	ViewIdleTTL        time.Duration
	ViewSweepInterval  time.Duration

	// API stub
	DatabaseURL        string
	StubPort           string
	StubMigrationsPath string
}

const (
	defaultCoaAPIURL     = "http://localhost:8081/api/accounts"
	defaultCoaAPITimeout = 10 * time.Second
	defaultViewIdleTTL   = 30 * time.Minute
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("COA_API_URL", defaultCoaAPIURL)
	viper.SetDefault("COA_API_TIMEOUT", defaultCoaAPITimeout.String())
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("MUTATION_RATE_LIMIT", "60-M")
	viper.SetDefault("VIEW_IDLE_TTL", defaultViewIdleTTL.String())
	viper.SetDefault("VIEW_SWEEP_INTERVAL", "1m")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STUB_PORT", "8081")
	viper.SetDefault("STUB_MIGRATIONS_PATH", "file://migrations")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))

	cfg.CoaAPIURL = strings.TrimSpace(viper.GetString("COA_API_URL"))
	if cfg.CoaAPIURL == "" {
		cfg.CoaAPIURL = defaultCoaAPIURL
		log.Printf("Warning: COA_API_URL not set. Defaulting to %s\n", cfg.CoaAPIURL)
	}
	cfg.CoaAPITimeout = parseDuration("COA_API_TIMEOUT", defaultCoaAPITimeout)

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.MutationRateLimit = viper.GetString("MUTATION_RATE_LIMIT")
	cfg.ViewIdleTTL = parseDuration("VIEW_IDLE_TTL", defaultViewIdleTTL)
	cfg.ViewSweepInterval = parseDuration("VIEW_SWEEP_INTERVAL", time.Minute)

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.StubPort = viper.GetString("STUB_PORT")
	cfg.StubMigrationsPath = viper.GetString("STUB_MIGRATIONS_PATH")

	return cfg, nil
}

// parseDuration reads a Go duration string, falling back with a warning when it is invalid.
func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
