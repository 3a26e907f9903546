package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config contains app config
type Config struct {
	HTTPAddr string
	LogLevel string
	PostgresConfig
	KafkaConfig
}

// PostgresConfig contains the vote store connection settings
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

// KafkaConfig contains the vote topic settings. Publishing is disabled when
// Brokers is empty. The consumer may share the server's POSTGRES_* store:
// a vote already saved by the server is not stored twice.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewConfig loads .env, if present, and reads the environment
func NewConfig() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("Error loading .env file", "error", err)
	}

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		PostgresConfig: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DB:       getEnv("POSTGRES_DB", "pollvotes"),
		},
		KafkaConfig: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "poll-votes"),
			GroupID: getEnv("KAFKA_GROUP_ID", "pollvotes-consumer"),
		},
	}
}

// ConnString returns the lib/pq connection URL
func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DB)
}

// getEnv is a helper function for receiving env variables with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
