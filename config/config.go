package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort         string
	ServerHost         string
	CORSAllowedOrigins []string

	// Database configuration
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Recommendation rate limiting, disabled when the limit is zero
	RecommendRateLimit  int
	RecommendRateWindow time.Duration

	Identity   IdentityConfig
	Generation GenerationConfig

	// Timezone used to project meal times into hour and minute
	Timezone string
	Location *time.Location

	LogLevel string
}

// IdentityConfig selects and configures the bearer token verifier
type IdentityConfig struct {
	Provider       string
	SupabaseURL    string
	PublishableKey string
	JWTSecret      string
}

// Identity providers
const (
	ProviderSupabase = "supabase"
	ProviderJWT      = "jwt"
)

// GenerationConfig holds the Azure OpenAI deployment used for recommendations
type GenerationConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// Missing lists the environment variables that still need a value
func (g GenerationConfig) Missing() []string {
	var missing []string
	if g.Endpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if g.APIKey == "" {
		missing = append(missing, "AZURE_OPENAI_API_KEY")
	}
	if g.Deployment == "" {
		missing = append(missing, "AZURE_OPENAI_DEPLOYMENT")
	}
	if g.APIVersion == "" {
		missing = append(missing, "AZURE_OPENAI_API_VERSION")
	}
	return missing
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is fine, the process environment wins either way
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{Env: env}

	var lookup func(key string) string
	switch env {
	case CI:
		lookup = os.Getenv
	case Development, Test:
		lookup = envThenSecret
	case Production:
		lookup = secretThenEnv
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := load(cfg, lookup); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(cfg *Config, lookup func(string) string) error {
	get := func(key, def string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return def
	}

	cfg.ServerPort = get("SERVER_PORT", get("PORT", "3000"))
	cfg.ServerHost = get("SERVER_HOST", "")
	cfg.CORSAllowedOrigins = splitList(get("CORS_ALLOWED_ORIGINS", ""))

	cfg.DBDriver = strings.ToLower(get("DB_DRIVER", DriverPostgres))
	cfg.DatabaseURL = get("DATABASE_URL", "")
	cfg.DBHost = get("DB_HOST", "localhost")
	cfg.DBPort = get("DB_PORT", "5432")
	cfg.DBUser = get("DB_USER", "")
	cfg.DBPassword = get("DB_PASSWORD", "")
	cfg.DBName = get("DB_NAME", "whatnext")
	cfg.DBSSLMode = get("DB_SSL_MODE", "disable")
	cfg.SQLitePath = get("SQLITE_PATH", "whatnext.db")

	cfg.RedisHost = get("REDIS_HOST", "localhost")
	cfg.RedisPort = get("REDIS_PORT", "6379")
	cfg.RedisPassword = get("REDIS_PASSWORD", "")
	cfg.RedisURL = get("REDIS_URL", "")
	redisDB, err := strconv.Atoi(get("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	limit, err := strconv.Atoi(get("RECOMMEND_RATE_LIMIT", "0"))
	if err != nil {
		return fmt.Errorf("invalid RECOMMEND_RATE_LIMIT: %w", err)
	}
	cfg.RecommendRateLimit = limit
	if cfg.RecommendRateWindow, err = time.ParseDuration(get("RECOMMEND_RATE_WINDOW", "1h")); err != nil {
		return fmt.Errorf("invalid RECOMMEND_RATE_WINDOW: %w", err)
	}

	cfg.Identity = IdentityConfig{
		Provider:       strings.ToLower(get("IDENTITY_PROVIDER", ProviderSupabase)),
		SupabaseURL:    strings.TrimRight(get("SUPABASE_URL", ""), "/"),
		PublishableKey: get("SUPABASE_PUBLISHABLE_KEY", ""),
		JWTSecret:      get("SUPABASE_JWT_SECRET", ""),
	}

	cfg.Generation = GenerationConfig{
		Endpoint:   strings.TrimRight(get("AZURE_OPENAI_ENDPOINT", ""), "/"),
		APIKey:     get("AZURE_OPENAI_API_KEY", ""),
		Deployment: get("AZURE_OPENAI_DEPLOYMENT", ""),
		APIVersion: get("AZURE_OPENAI_API_VERSION", ""),
	}
	if cfg.Generation.Timeout, err = time.ParseDuration(get("GENERATION_TIMEOUT", "30s")); err != nil {
		return fmt.Errorf("invalid GENERATION_TIMEOUT: %w", err)
	}

	cfg.Timezone = get("APP_TIMEZONE", "")
	cfg.Location = time.Local
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	cfg.LogLevel = strings.ToLower(get("LOG_LEVEL", "info"))
	return nil
}

// PostgresDSN returns DATABASE_URL when set, otherwise a keyword DSN built from the DB_* settings
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RateLimitEnabled reports whether /recommend is rate limited
func (c *Config) RateLimitEnabled() bool {
	return c.RecommendRateLimit > 0
}

func envThenSecret(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return readSecret(strings.ToLower(key))
}

func secretThenEnv(key string) string {
	if v := readSecret(strings.ToLower(key)); v != "" {
		return v
	}
	return os.Getenv(key)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
