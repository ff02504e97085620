package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Every environment
// variable the service reads is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Feature catalog
	Catalog CatalogConfig

	// League overrides
	League LeagueConfig

	// Upstream data sources
	Scoreboard ScoreboardConfig
	LinesFeed  LinesFeedConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// CatalogConfig selects where the stat catalog comes from. "builtin"
// ships with the binary, "file" reads a YAML stat table, "postgres" reads
// the stat_catalog table and needs DATABASE_URL.
type CatalogConfig struct {
	Source   string // builtin, file, postgres
	FilePath string
	Table    string
}

// LeagueConfig points at the optional league settings file that can
// contribute one extra semantic group.
type LeagueConfig struct {
	ConfigPath string
}

// ScoreboardConfig holds the box-score scraping source.
type ScoreboardConfig struct {
	BaseURL        string
	RequestsPerSec float64
	Timeout        time.Duration
}

// LinesFeedConfig holds the betting-lines websocket feed.
type LinesFeedConfig struct {
	URL           string
	APIKey        string
	ReconnectWait time.Duration
	Enabled       bool
}

// Load reads configuration from environment variables. Only this function
// calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "hoopsight"),
			User:            getEnv("DB_USER", "hoopsight"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Feature catalog
		Catalog: CatalogConfig{
			Source:   getEnv("CATALOG_SOURCE", "builtin"),
			FilePath: getEnv("CATALOG_FILE", ""),
			Table:    getEnv("CATALOG_TABLE", "stat_catalog"),
		},

		// League overrides
		League: LeagueConfig{
			ConfigPath: getEnv("LEAGUE_CONFIG", ""),
		},

		// Upstream data sources
		Scoreboard: ScoreboardConfig{
			BaseURL:        getEnv("SCOREBOARD_BASE_URL", "https://www.basketball-reference.com"),
			RequestsPerSec: getEnvAsFloat("SCOREBOARD_RPS", 0.5),
			Timeout:        getEnvAsDuration("SCOREBOARD_TIMEOUT", "15s"),
		},
		LinesFeed: LinesFeedConfig{
			URL:           getEnv("LINES_FEED_URL", ""),
			APIKey:        getEnv("LINES_FEED_API_KEY", ""),
			ReconnectWait: getEnvAsDuration("LINES_FEED_RECONNECT_WAIT", "5s"),
			Enabled:       getEnvAsBool("LINES_FEED_ENABLED", false),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Catalog.Source {
	case "builtin":
	case "file":
		if c.Catalog.FilePath == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when CATALOG_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of: builtin, file, postgres")
	}

	if c.LinesFeed.Enabled && c.LinesFeed.URL == "" {
		return fmt.Errorf("LINES_FEED_URL is required when LINES_FEED_ENABLED=true")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to the executable.
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
