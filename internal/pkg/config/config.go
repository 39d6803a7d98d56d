package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/stablehq/treasury/internal/pkg/models"
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "treasury-api")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9990)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 0)

	// Database config
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 0)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 0)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 0)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// Auth (identity provider token verification) config
	configs.Auth.VerificationKey = GetEnv("AUTH_VERIFICATION_KEY", "")
	configs.Auth.Issuer = GetEnv("AUTH_ISSUER", "privy.io")
	configs.Auth.Audience = GetEnv("AUTH_AUDIENCE", "")

	// Solana config
	configs.Solana.RPCURL = GetEnv("SOLANA_RPC_URL", "")
	configs.Solana.Commitment = GetEnv("SOLANA_COMMITMENT", "confirmed")
	configs.Solana.SquadsProgramID = GetEnv("SQUADS_PROGRAM_ID", "SQDS4ep65T869zMMBKyuUq6aD6EgTu8psMjkvj52pCf")
	configs.Solana.ConfirmMaxAttempts = GetEnvAsInt("SOLANA_CONFIRM_MAX_ATTEMPTS", 30)
	configs.Solana.ConfirmTimeoutSec = GetEnvAsInt("SOLANA_CONFIRM_TIMEOUT_SEC", 60)

	// Swap config
	configs.Swap.Venues = GetEnvAsSlice("SWAP_VENUES", []string{"orca", "raydium"})
	configs.Swap.MaxSlippageDeviation = GetEnvAsFloat("SWAP_MAX_SLIPPAGE_DEVIATION", 2.0)
	configs.Swap.PreparedTTLSeconds = GetEnvAsInt("SWAP_PREPARED_TTL_SEC", 300)
	configs.Swap.ExecutionCtxTTLSecond = GetEnvAsInt("SWAP_EXECUTION_CTX_TTL_SEC", 900)

	// Zynk (fiat rail) config
	configs.Zynk.BaseURL = GetEnv("ZYNK_BASE_URL", "")
	configs.Zynk.APIKey = GetEnv("ZYNK_API_KEY", "")
	configs.Zynk.TimeoutSec = GetEnvAsInt("ZYNK_TIMEOUT_SEC", 15)

	// Circle (compliance) config
	configs.Circle.BaseURL = GetEnv("CIRCLE_BASE_URL", "")
	configs.Circle.APIKey = GetEnv("CIRCLE_API_KEY", "")
	configs.Circle.TimeoutSec = GetEnvAsInt("CIRCLE_TIMEOUT_SEC", 10)

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
