package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the server.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	DBDriver      string
	DatabaseURL   string
	SQLitePath    string
	EnableDBCheck bool

	JWTSecret string
	JWTIssuer string

	// Ledger tuning
	RedemptionLockTimeout       time.Duration // Bounded wait for a customer's redemption section
	StorageRetryMaxAttempts     uint
	StorageRetryInitialInterval time.Duration

	SubmitRateLimit    string // ulule/limiter formatted rate, e.g. "60-M"
	CORSAllowedOrigins []string
	PosthogAPIKey      string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "vizinhomais.db")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "vizinhomais")
	v.SetDefault("REDEMPTION_LOCK_TIMEOUT", "2s")
	v.SetDefault("STORAGE_RETRY_MAX_ATTEMPTS", 4)
	v.SetDefault("STORAGE_RETRY_INITIAL_INTERVAL", "50ms")
	v.SetDefault("SUBMIT_RATE_LIMIT", "60-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	switch cfg.DBDriver {
	case DriverPostgres:
		cfg.DatabaseURL = v.GetString("PGSQL_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when DB_DRIVER is %s", DriverPostgres)
		}
	case DriverSQLite:
		cfg.SQLitePath = v.GetString("SQLITE_PATH")
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required when DB_DRIVER is %s", DriverSQLite)
		}
	case DriverMemory:
		if cfg.IsProduction {
			log.Println("Warning: DB_DRIVER=memory keeps the ledger in process memory. Nothing survives a restart.")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = v.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "vizinhomais"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.RedemptionLockTimeout = durationOr(v, "REDEMPTION_LOCK_TIMEOUT", 2*time.Second)
	cfg.StorageRetryInitialInterval = durationOr(v, "STORAGE_RETRY_INITIAL_INTERVAL", 50*time.Millisecond)
	cfg.StorageRetryMaxAttempts = v.GetUint("STORAGE_RETRY_MAX_ATTEMPTS")
	if cfg.StorageRetryMaxAttempts == 0 {
		cfg.StorageRetryMaxAttempts = 1
		log.Println("Warning: STORAGE_RETRY_MAX_ATTEMPTS must be at least 1. Transient storage failures will not be retried.")
	}

	cfg.SubmitRateLimit = v.GetString("SUBMIT_RATE_LIMIT")
	cfg.PosthogAPIKey = v.GetString("POSTHOG_API_KEY")
	if cfg.PosthogAPIKey == "" {
		log.Println("Warning: POSTHOG_API_KEY not set. Analytics events will be dropped.")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// durationOr parses key as a duration, falling back to def when it is missing or malformed.
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}
