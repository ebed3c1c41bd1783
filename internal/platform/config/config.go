package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	IsProduction    bool
	UseTransactions bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	AMQPURL               string
	NotificationQueueName string

	OrgChartCacheTTL      time.Duration
	MaturitySweepInterval time.Duration

	RateLimitFormatted string

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("USE_TRANSACTIONS", true)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "gullak-backend")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("NOTIFICATION_QUEUE_NAME", "gullak.notifications")
	viper.SetDefault("ORG_CACHE_TTL", "5m")
	viper.SetDefault("MATURITY_SWEEP_INTERVAL", "24h")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.UseTransactions = viper.GetBool("USE_TRANSACTIONS")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Push notifications are disabled.")
	}
	cfg.NotificationQueueName = viper.GetString("NOTIFICATION_QUEUE_NAME")

	orgTTLStr := viper.GetString("ORG_CACHE_TTL")
	orgTTL, err := time.ParseDuration(orgTTLStr)
	if err != nil {
		orgTTL = 5 * time.Minute
		log.Printf("Warning: Invalid value for ORG_CACHE_TTL (%q). Defaulting to %s.\n", orgTTLStr, orgTTL)
	}
	cfg.OrgChartCacheTTL = orgTTL

	sweepStr := viper.GetString("MATURITY_SWEEP_INTERVAL")
	sweep, err := time.ParseDuration(sweepStr)
	if err != nil {
		sweep = 24 * time.Hour
		log.Printf("Warning: Invalid value for MATURITY_SWEEP_INTERVAL (%q). Defaulting to %s.\n", sweepStr, sweep)
	}
	cfg.MaturitySweepInterval = sweep

	cfg.RateLimitFormatted = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
