package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"orderflow/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrAdvanceDelayIsInvalid = errs.NewValueIsInvalidError("ADVANCE_DELAY must be greater than 0")
	ErrLogLevelIsInvalid     = errs.NewValueIsInvalidError("LOG_LEVEL must be one of debug, info, warn, error")
)

type Config struct {
	HTTPPort     string
	AdvanceDelay time.Duration
	LogLevel     slog.Level
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string
	RedisAddr    string
	RedisChannel string
}

// JournalEnabled reports whether a database was configured.
func (c Config) JournalEnabled() bool {
	return c.DBHost != ""
}

// PublisherEnabled reports whether a Redis server was configured.
func (c Config) PublisherEnabled() bool {
	return c.RedisAddr != ""
}

// DSN builds the PostgreSQL connection string for the journal.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads the environment, after loading path as a .env file when it
// exists. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("ADVANCE_DELAY", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_CHANNEL", "orders.status")

	delay, err := time.ParseDuration(v.GetString("ADVANCE_DELAY"))
	if err != nil {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("ADVANCE_DELAY", err)
	}
	if delay <= 0 {
		return Config{}, ErrAdvanceDelayIsInvalid
	}

	level, err := parseLogLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:     v.GetString("HTTP_PORT"),
		AdvanceDelay: delay,
		LogLevel:     level,
		DBHost:       v.GetString("DB_HOST"),
		DBPort:       v.GetString("DB_PORT"),
		DBUser:       v.GetString("DB_USER"),
		DBPassword:   v.GetString("DB_PASSWORD"),
		DBName:       v.GetString("DB_NAME"),
		DBSslMode:    v.GetString("DB_SSLMODE"),
		RedisAddr:    v.GetString("REDIS_ADDR"),
		RedisChannel: v.GetString("REDIS_CHANNEL"),
	}, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, ErrLogLevelIsInvalid
	}
}
