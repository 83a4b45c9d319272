package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Ynab     YnabConfig
	Sync     SyncConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	LogLevel         string
	BatchSize        int
	MatchingStrategy string
	BankFeedPath     string
}

// YnabConfig carries the remote budget coordinates and credentials the
// ynabclient adapter needs. BudgetId/AccountIds are not secrets but
// are still environment-sourced since they vary per deployment.
type YnabConfig struct {
	AccessToken   string
	BudgetId      string
	AccountId     string
}

// SyncConfig drives the periodic reconciliation scheduler.
type SyncConfig struct {
	Schedule string
	Enabled  bool
}

func Load() (*Config, error) {
	batchSize, err := strconv.Atoi(getEnv("BATCH_SIZE", "10000"))
	if err != nil {
		batchSize = 10000
	}

	syncEnabled, err := strconv.ParseBool(getEnv("SYNC_ENABLED", "false"))
	if err != nil {
		syncEnabled = false
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "recon_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			LogLevel:         getEnv("LOG_LEVEL", "info"),
			BatchSize:        batchSize,
			MatchingStrategy: getEnv("MATCHING_STRATEGY", "STRICT"),
			BankFeedPath:     getEnv("BANK_FEED_PATH", "./bank_feed.csv"),
		},
		Ynab: YnabConfig{
			AccessToken: getEnv("YNAB_ACCESS_TOKEN", ""),
			BudgetId:    getEnv("YNAB_BUDGET_ID", ""),
			AccountId:   getEnv("YNAB_ACCOUNT_ID", ""),
		},
		Sync: SyncConfig{
			Schedule: getEnv("SYNC_SCHEDULE", "0 */6 * * *"),
			Enabled:  syncEnabled,
		},
	}, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
