package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	LogLevel   slog.Level

	// StaleOrderTTL of zero disables the cancellation job.
	StaleOrderTTL       time.Duration
	StaleOrderSchedule  string
	StaleOrderBatchSize int

	OrderNumberAttempts int
	StoreRetries        uint64
}

// LoadConfig reads the environment after loading envFile, if it exists.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSslMode:          getEnv("DB_SSLMODE", "disable"),
		StaleOrderSchedule: getEnv("STALE_ORDER_SCHEDULE", "0 * * * * *"),
	}

	var err error
	var errList []error

	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		errList = append(errList, err)
	}
	if cfg.StaleOrderTTL, err = time.ParseDuration(getEnv("STALE_ORDER_TTL", "2h")); err != nil {
		errList = append(errList, fmt.Errorf("STALE_ORDER_TTL: %w", err))
	}
	if cfg.StaleOrderBatchSize, err = positiveInt("STALE_ORDER_BATCH_SIZE", "100"); err != nil {
		errList = append(errList, err)
	}
	if cfg.OrderNumberAttempts, err = positiveInt("ORDER_NUMBER_ATTEMPTS", "5"); err != nil {
		errList = append(errList, err)
	}
	if cfg.StoreRetries, err = strconv.ParseUint(getEnv("STORE_RETRIES", "3"), 10, 64); err != nil {
		errList = append(errList, fmt.Errorf("STORE_RETRIES: %w", err))
	}
	if cfg.DBUser == "" || cfg.DBName == "" {
		errList = append(errList, errors.New("DB_USER and DB_NAME must be set"))
	}

	if err = errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN is the libpq connection string for the configured database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func positiveInt(key, fallback string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
