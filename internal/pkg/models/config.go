package models

// Config holds all configuration for the treasury service
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Auth     AuthConfig
	Solana   SolanaConfig
	Swap     SwapConfig
	Zynk     ZynkConfig
	Circle   CircleConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string
}

// AuthConfig holds identity-provider token verification configuration.
// Access tokens are issued by the wallet/identity provider (Privy); the
// service only verifies them, it never issues tokens of its own.
type AuthConfig struct {
	VerificationKey string
	Issuer          string
	Audience        string
}

// SolanaConfig holds ledger RPC and program configuration
type SolanaConfig struct {
	RPCURL             string
	Commitment         string
	SquadsProgramID    string
	ConfirmMaxAttempts int
	ConfirmTimeoutSec  int
}

// SwapConfig holds swap orchestration configuration
type SwapConfig struct {
	Venues                []string
	MaxSlippageDeviation  float64 // percent, quote-to-prepare drift guard
	PreparedTTLSeconds    int
	ExecutionCtxTTLSecond int
}

// ZynkConfig holds fiat rail provider configuration
type ZynkConfig struct {
	BaseURL    string
	APIKey     string
	TimeoutSec int
}

// CircleConfig holds compliance screening provider configuration
type CircleConfig struct {
	BaseURL    string
	APIKey     string
	TimeoutSec int
}

// NewRelicConfig holds New Relic configuration
type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
