package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Autopilot holds the payment-engine defaults. It is injected into the
// services as an explicit value so tests can exercise both auto-execute
// behaviours deterministically.
type Autopilot struct {
	Provider              string
	AutoExecuteOnApproval bool
	PrepareDaysAhead      int
	DefaultCurrency       string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	JWTSecret      string
	SchedulerToken string
	CORSOrigins    []string
	RateLimit      string

	Autopilot Autopilot
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("SCHEDULER_TOKEN", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("PAYMENTS_PROVIDER", "internal_ledger")
	viper.SetDefault("PAYMENTS_AUTO_EXECUTE_ON_APPROVAL", true)
	viper.SetDefault("AUTOPILOT_PAYMENT_PREPARE_DAYS", 7)
	viper.SetDefault("DEFAULT_CURRENCY", "INR")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	cfg.SchedulerToken = viper.GetString("SCHEDULER_TOKEN")
	if cfg.SchedulerToken == "" {
		log.Println("Warning: SCHEDULER_TOKEN not set. Scheduled job endpoints are disabled.")
	}

	cfg.CORSOrigins = splitAndTrim(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.Autopilot = Autopilot{
		Provider:              viper.GetString("PAYMENTS_PROVIDER"),
		AutoExecuteOnApproval: viper.GetBool("PAYMENTS_AUTO_EXECUTE_ON_APPROVAL"),
		PrepareDaysAhead:      viper.GetInt("AUTOPILOT_PAYMENT_PREPARE_DAYS"),
		DefaultCurrency:       viper.GetString("DEFAULT_CURRENCY"),
	}
	if cfg.Autopilot.PrepareDaysAhead < 0 || cfg.Autopilot.PrepareDaysAhead > 90 {
		log.Printf("Warning: AUTOPILOT_PAYMENT_PREPARE_DAYS out of range (%d). Defaulting to 7.\n", cfg.Autopilot.PrepareDaysAhead)
		cfg.Autopilot.PrepareDaysAhead = 7
	}

	return cfg, nil
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
