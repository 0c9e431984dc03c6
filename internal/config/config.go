package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port    string
	LogMode string

	// Database configuration
	DBType            string // sqlite, mysql, postgres, sqlserver
	DBPath            string // sqlite file path
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// AI description configuration
	OpenAIKey            string
	OpenAIModel          string
	OpenAIFallbackModels string // comma-separated, tried in order after OpenAIModel
	OpenAIBaseURL        string
	OpenAITemperature    float64
	DescribeTimeoutSec   int
}

// Load loads configuration from the environment, reading an optional .env
// file first. The OpenAI key is intentionally not required here: the service
// boots without it and the describe endpoint reports the missing key per
// request.
func Load() (*Config, error) {
	// Ignore a missing .env; env vars win either way
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "3000"),
		LogMode:              getEnv("LOG_MODE", "dev"),
		DBType:               getEnv("DB_TYPE", "sqlite"),
		DBPath:               getEnv("DB_PATH", "geodescribe.db"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBDatabase:           getEnv("DB_DATABASE", "geodescribe"),
		DBUser:               getEnv("DB_USER", ""),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:    getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		OpenAIKey:            getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIFallbackModels: getEnv("OPENAI_FALLBACK_MODELS", "gpt-4o-mini"),
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAITemperature:    getEnvAsFloat("OPENAI_TEMPERATURE", 0.4),
		DescribeTimeoutSec:   getEnvAsInt("DESCRIBE_TIMEOUT_SECONDS", 25),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
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

// getEnvAsFloat gets an environment variable as a float or returns a default value
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
