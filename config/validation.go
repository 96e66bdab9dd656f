package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the settings the server cannot start without.
// Generation settings are checked separately through GenerationConfig.Missing
// so a misconfigured generator never blocks the meal endpoints.
func ValidateConfig(cfg *Config) error {
	var errs []error
	required := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	required("SERVER_PORT", cfg.ServerPort)

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			required("DB_HOST", cfg.DBHost)
			required("DB_NAME", cfg.DBName)
			required("DB_USER", cfg.DBUser)
		}
	case DriverSQLite:
		required("SQLITE_PATH", cfg.SQLitePath)
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.Identity.Provider {
	case ProviderSupabase:
		required("SUPABASE_URL", cfg.Identity.SupabaseURL)
		required("SUPABASE_PUBLISHABLE_KEY", cfg.Identity.PublishableKey)
	case ProviderJWT:
		required("SUPABASE_JWT_SECRET", cfg.Identity.JWTSecret)
	default:
		errs = append(errs, ValidationError{Field: "IDENTITY_PROVIDER", Message: fmt.Sprintf("unsupported provider %q", cfg.Identity.Provider)})
	}

	if cfg.RecommendRateLimit < 0 {
		errs = append(errs, ValidationError{Field: "RECOMMEND_RATE_LIMIT", Message: "must not be negative"})
	}
	if cfg.RecommendRateLimit > 0 && cfg.RecommendRateWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RECOMMEND_RATE_WINDOW", Message: "must be positive"})
	}
	if cfg.Generation.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "GENERATION_TIMEOUT", Message: "must be positive"})
	}

	return errors.Join(errs...)
}
