package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Ledger. FeeRate is the platform fraction deducted from seller
	// proceeds; StartingBalance is credited to every new profile.
	FeeRate         decimal.Decimal
	StartingBalance decimal.Decimal

	// Pricing engine. Each due product moves up or down by a uniform
	// integer percentage in [PriceChangeMin, PriceChangeMax] and is then
	// frozen for PriceChangeInterval.
	PriceChangeMin      int
	PriceChangeMax      int
	PriceChangeInterval time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "minimarket"),
		DBPassword: getEnv("DB_PASSWORD", "minimarket"),
		DBName:     getEnv("DB_NAME", "minimarket"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		FeeRate:         getEnvDecimal("FEE_RATE", "0.10"),
		StartingBalance: getEnvDecimal("STARTING_BALANCE", "1000.00"),

		PriceChangeMin:      getEnvInt("PRICE_CHANGE_MIN", 1),
		PriceChangeMax:      getEnvInt("PRICE_CHANGE_MAX", 10),
		PriceChangeInterval: getEnvDuration("PRICE_CHANGE_INTERVAL", 48*time.Hour),
	}

	config.JWTExpirationDur = getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)

	appConfig = config
	return config, nil
}

// Get returns the application configuration.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		raw = defaultValue
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		d, _ = decimal.NewFromString(defaultValue)
	}
	return d
}
