package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string `validate:"required_if=StorageBackend postgres"`
	StorageBackend string `validate:"oneof=postgres memory"`
	MigrationsPath string `validate:"required"`
	Port           string `validate:"required,numeric"`
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string `validate:"oneof=debug info warn error"`

	JWTSecret string `validate:"required,min=16"`
	JWTIssuer string

	// Ledger behaviour
	BalanceTolerance         decimal.Decimal
	StrictSeparationOfDuties bool
	EntryNumberPrefix        string `validate:"required,alphanum,max=8"`

	// HTTP hardening
	RequestTimeout     time.Duration
	RateLimit          string `validate:"required"`
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "hotel-ledger")
	v.SetDefault("BALANCE_TOLERANCE", "0.01")
	v.SetDefault("STRICT_SEPARATION_OF_DUTIES", true)
	v.SetDefault("ENTRY_NUMBER_PREFIX", "JE")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:              v.GetString("PGSQL_URL"),
		StorageBackend:           strings.ToLower(v.GetString("STORAGE_BACKEND")),
		MigrationsPath:           v.GetString("MIGRATIONS_PATH"),
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:                 strings.ToLower(v.GetString("LOG_LEVEL")),
		JWTSecret:                v.GetString("JWT_SECRET"),
		JWTIssuer:                v.GetString("JWT_ISSUER"),
		StrictSeparationOfDuties: v.GetBool("STRICT_SEPARATION_OF_DUTIES"),
		EntryNumberPrefix:        v.GetString("ENTRY_NUMBER_PREFIX"),
		RateLimit:                v.GetString("RATE_LIMIT"),
	}

	if cfg.StorageBackend == StoragePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	toleranceStr := v.GetString("BALANCE_TOLERANCE")
	tolerance, err := decimal.NewFromString(toleranceStr)
	if err != nil || tolerance.IsNegative() {
		return nil, fmt.Errorf("invalid value for BALANCE_TOLERANCE ('%s')", toleranceStr)
	}
	cfg.BalanceTolerance = tolerance

	timeoutStr := v.GetString("REQUEST_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		log.Printf("Warning: Invalid value for REQUEST_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.RequestTimeout = timeout

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if !cfg.StrictSeparationOfDuties {
		log.Println("Warning: STRICT_SEPARATION_OF_DUTIES disabled. Creators may post their own entries.")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
