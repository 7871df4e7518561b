package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Slack     SlackConfig
	Integrity IntegrityConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// SlackConfig holds Slack workspace lookup settings.
type SlackConfig struct {
	BotToken string
	RPS      int
	Burst    int
}

// IntegrityConfig holds validation engine settings.
type IntegrityConfig struct {
	MaxConcurrent int
	CacheTTL      time.Duration
	MaxRetries    int
	Level         string // "lenient" or "strict"
}

// Strict reports whether platform-backed existence checks are requested.
func (c *IntegrityConfig) Strict() bool {
	return c.Level == "strict"
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("PRAETOR_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("PRAETOR_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("PRAETOR_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("PRAETOR_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("PRAETOR_SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	slackRPS, err := getEnvInt("PRAETOR_SLACK_RPS", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	slackBurst, err := getEnvInt("PRAETOR_SLACK_BURST", 40)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxConcurrent, err := getEnvInt("PRAETOR_INTEGRITY_MAX_CONCURRENT", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cacheTTL, err := getEnvDuration("PRAETOR_INTEGRITY_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxRetries, err := getEnvInt("PRAETOR_INTEGRITY_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	level := getEnv("PRAETOR_INTEGRITY_LEVEL", "lenient")

	corsOrigins := getEnvList("PRAETOR_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("PRAETOR_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("PRAETOR_DB_USER", "praetor"),
			Password: getEnv("PRAETOR_DB_PASSWORD", ""),
			DBName:   getEnv("PRAETOR_DB_NAME", "praetor_dev"),
			SSLMode:  getEnv("PRAETOR_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("PRAETOR_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("PRAETOR_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Addr:         getEnv("PRAETOR_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Slack: SlackConfig{
			BotToken: getEnv("PRAETOR_SLACK_BOT_TOKEN", ""),
			RPS:      slackRPS,
			Burst:    slackBurst,
		},
		Integrity: IntegrityConfig{
			MaxConcurrent: maxConcurrent,
			CacheTTL:      cacheTTL,
			MaxRetries:    maxRetries,
			Level:         level,
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks value bounds.
func (c *Config) validate() error {
	if c.Database.SSLMode == "disable" {
		log.Warn().Msg("PRAETOR_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("PRAETOR_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("PRAETOR_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("PRAETOR_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("PRAETOR_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Slack.RPS < 1 {
		return fmt.Errorf("PRAETOR_SLACK_RPS must be >= 1, got %d", c.Slack.RPS)
	}
	if c.Slack.Burst < 1 {
		return fmt.Errorf("PRAETOR_SLACK_BURST must be >= 1, got %d", c.Slack.Burst)
	}
	if c.Integrity.MaxConcurrent < 1 {
		return fmt.Errorf("PRAETOR_INTEGRITY_MAX_CONCURRENT must be >= 1, got %d", c.Integrity.MaxConcurrent)
	}
	if c.Integrity.CacheTTL <= 0 {
		return fmt.Errorf("PRAETOR_INTEGRITY_CACHE_TTL must be positive, got %s", c.Integrity.CacheTTL)
	}
	if c.Integrity.MaxRetries < 1 {
		return fmt.Errorf("PRAETOR_INTEGRITY_MAX_RETRIES must be >= 1, got %d", c.Integrity.MaxRetries)
	}
	if c.Integrity.Level != "lenient" && c.Integrity.Level != "strict" {
		return fmt.Errorf("PRAETOR_INTEGRITY_LEVEL must be 'lenient' or 'strict', got %q", c.Integrity.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
