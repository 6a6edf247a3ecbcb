package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	LogLevel     slog.Level
}

// CtlConfig holds the settings of the rankctl admin tool
type CtlConfig struct {
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, logLevel string

	fs := flag.NewFlagSet("quickly-rank", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&envFile, "env-file", ".env", "Env file loaded before reading the environment")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	var err error
	cfg.DatabaseURL, cfg.DatabaseType, err = databaseSettings(cfg.DatabaseURL, cfg.DatabaseType)
	if err != nil {
		return Config{}, err
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	cfg.LogLevel, err = ParseLogLevel(logLevel)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ParseCtlFlags reads the rankctl database settings and returns the
// remaining arguments (the subcommand and its operands)
func ParseCtlFlags(args []string) (CtlConfig, []string, error) {
	var cfg CtlConfig
	var envFile string

	fs := flag.NewFlagSet("rankctl", flag.ContinueOnError)
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&envFile, "env-file", ".env", "Env file loaded before reading the environment")

	if err := fs.Parse(args); err != nil {
		return CtlConfig{}, nil, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return CtlConfig{}, nil, err
	}

	var err error
	cfg.DatabaseURL, cfg.DatabaseType, err = databaseSettings(cfg.DatabaseURL, cfg.DatabaseType)
	if err != nil {
		return CtlConfig{}, nil, err
	}

	// Only needed by admin-key, checked there
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}

	return cfg, fs.Args(), nil
}

// ParseLogLevel maps a level name to a slog level; empty means info
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func databaseSettings(url, dbType string) (string, string, error) {
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return "", "", errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if dbType == "" {
		dbType = os.Getenv("DATABASE_TYPE")
		if dbType == "" {
			dbType = "sqlite"
		}
	}
	if dbType != "sqlite" && dbType != "postgres" {
		return "", "", fmt.Errorf("unsupported database type %q (use sqlite or postgres)", dbType)
	}

	return url, dbType, nil
}

// loadEnvFile fills unset environment variables from an env file.
// Variables already in the environment win. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
