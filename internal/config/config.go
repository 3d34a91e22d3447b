package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	BatchWorkerCount     int
	BatchQueueSize       int
	BatchIntervalMinutes int
	BatchUserTimeoutSecs int
	PlanDueLimit         int
	PlanNewLimit         int
	RatingRetryLimit     int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:recallcode.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		BatchWorkerCount:     envIntOr("BATCH_WORKER_COUNT", 4),
		BatchQueueSize:       envIntOr("BATCH_QUEUE_SIZE", 16),
		BatchIntervalMinutes: envIntOr("BATCH_INTERVAL_MINUTES", 60),
		BatchUserTimeoutSecs: envIntOr("BATCH_USER_TIMEOUT_SECONDS", 30),
		PlanDueLimit:         envIntOr("PLAN_DUE_LIMIT", 3),
		PlanNewLimit:         envIntOr("PLAN_NEW_LIMIT", 2),
		RatingRetryLimit:     envIntOr("RATING_RETRY_LIMIT", 3),
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.BatchWorkerCount <= 0 {
		problems = append(problems, "BATCH_WORKER_COUNT must be positive")
	}
	if c.BatchQueueSize <= 0 {
		problems = append(problems, "BATCH_QUEUE_SIZE must be positive")
	}
	if c.BatchIntervalMinutes <= 0 {
		problems = append(problems, "BATCH_INTERVAL_MINUTES must be positive")
	}
	if c.BatchUserTimeoutSecs <= 0 {
		problems = append(problems, "BATCH_USER_TIMEOUT_SECONDS must be positive")
	}
	if c.PlanDueLimit < 0 {
		problems = append(problems, "PLAN_DUE_LIMIT cannot be negative")
	}
	if c.PlanNewLimit < 0 {
		problems = append(problems, "PLAN_NEW_LIMIT cannot be negative")
	}
	if c.RatingRetryLimit <= 0 {
		problems = append(problems, "RATING_RETRY_LIMIT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
