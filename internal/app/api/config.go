package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                     string
	PostgresDSN              string
	SecretKey                string
	AccessTokenExpireMinutes int
	AuthDisabled             bool
	CORSAllowOrigins         []string
	AMQPURL                  string
	AMQPExchange             string
	TemporalAddress          string
	TemporalNamespace        string
	TemporalDisabled         bool
	LowStockSweepCron        string
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                     envDefault("PORT", "8080"),
		PostgresDSN:              strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SecretKey:                envDefault("SECRET_KEY", "dev-secret-change-me"),
		AccessTokenExpireMinutes: 60,
		AuthDisabled:             isTruthy(os.Getenv("AUTH_DISABLED")),
		AMQPURL:                  strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange:             envDefault("AMQP_EXCHANGE", "billfinity.events"),
		TemporalAddress:          envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:        envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:         isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		LowStockSweepCron:        envDefault("LOW_STOCK_SWEEP_CRON", "0 * * * *"),
	}
	if raw := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
		}
		cfg.AccessTokenExpireMinutes = minutes
	}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS")); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, origin)
			}
		}
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
