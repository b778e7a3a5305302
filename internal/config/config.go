package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	ServiceName string
	Version     string
	Environment string
	APIKey      string // API key for authentication

	// Ledger persistence
	LedgerBackend string // "file" or "postgres"
	DataFile      string // balances snapshot path (file backend)
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string

	// Session timing
	ConfirmTimeout time.Duration // AwaitingConfirmation -> TimedOut
	PlayTimeout    time.Duration // InPlay inactivity -> TimedOut
	RetainWindow   time.Duration // how long terminal sessions stay readable

	// Event delivery
	DeadLetterPath string

	// Discord front-end
	DiscordToken string
	DiscordAppID string
	CoreAPIURL   string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		ServiceName:    getEnv("SERVICE_NAME", "nugget-bot"),
		Version:        getEnv("SERVICE_VERSION", "dev"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		APIKey:         getEnv("API_KEY", ""),
		LedgerBackend:  getEnv("LEDGER_BACKEND", "file"),
		DataFile:       getEnv("DATA_FILE", "balances.json"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "nuggetbot"),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "events.deadletter.jsonl"),
		DiscordToken:   getEnv("DISCORD_TOKEN", ""),
		DiscordAppID:   getEnv("DISCORD_APP_ID", ""),
		CoreAPIURL:     getEnv("CORE_API_URL", "http://localhost:8080"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	cfg.ConfirmTimeout, err = getEnvDuration("CONFIRM_TIMEOUT", DefaultConfirmTimeout)
	if err != nil {
		return nil, err
	}
	cfg.PlayTimeout, err = getEnvDuration("PLAY_TIMEOUT", DefaultPlayTimeout)
	if err != nil {
		return nil, err
	}
	cfg.RetainWindow, err = getEnvDuration("RETAIN_WINDOW", DefaultRetainWindow)
	if err != nil {
		return nil, err
	}

	if cfg.LedgerBackend != LedgerBackendFile && cfg.LedgerBackend != LedgerBackendPostgres {
		return nil, fmt.Errorf("invalid LEDGER_BACKEND value: %q", cfg.LedgerBackend)
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
