package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultBatchSize mirrors ingest.DefaultBatchSize; config cannot import
// the ingest package without creating an import cycle through observability.
const defaultBatchSize = 1000

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// MySQL connection settings.
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr    string
	JobStatusTTL time.Duration

	KafkaBrokers   []string
	KafkaJobsTopic string
	KafkaGroupID   string

	// Seed ingestion settings.
	BatchSize     int
	StrictNumbers bool

	// OpenWeatherMap settings.
	WeatherAPIKey   string
	WeatherEnabled  bool
	WeatherTimeout  time.Duration
	WeatherCacheTTL time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	godotenv.Load() //nolint:errcheck // missing .env is fine

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	jobStatusTTL, err := parseDuration("JOB_STATUS_TTL", "24h")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	weatherCacheTTL, err := parseDuration("WEATHER_CACHE_TTL", "2h")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseInt("BATCH_SIZE", defaultBatchSize)
	if err != nil {
		return nil, err
	}

	weatherAPIKey := os.Getenv("OPENWEATHERMAP_API_KEY")
	weatherEnabled := weatherAPIKey != ""
	if v := os.Getenv("WEATHER_ENABLED"); v != "" {
		weatherEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DBUser:     envOrDefault("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     envOrDefault("DB_HOST", "localhost"),
		DBPort:     envOrDefault("DB_PORT", "3306"),
		DBName:     envOrDefault("DB_NAME", "parcels"),

		RedisAddr:    envOrDefault("REDIS_ADDRESS", "localhost:6379"),
		JobStatusTTL: jobStatusTTL,

		KafkaBrokers:   splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaJobsTopic: envOrDefault("KAFKA_JOBS_TOPIC", "seed-data-jobs"),
		KafkaGroupID:   envOrDefault("KAFKA_GROUP_ID", "parcel-seed-worker"),

		BatchSize:     batchSize,
		StrictNumbers: os.Getenv("SEED_STRICT_NUMBERS") == "true",

		WeatherAPIKey:   weatherAPIKey,
		WeatherEnabled:  weatherEnabled,
		WeatherTimeout:  weatherTimeout,
		WeatherCacheTTL: weatherCacheTTL,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.KafkaJobsTopic == "" {
		return nil, fmt.Errorf("KAFKA_JOBS_TOPIC is required")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("BATCH_SIZE must be a positive integer")
	}
	if cfg.WeatherEnabled && cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("WEATHER_ENABLED is true but OPENWEATHERMAP_API_KEY is not set")
	}

	return cfg, nil
}

// MySQLDSN builds the database/sql connection string for the gorm MySQL driver.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
