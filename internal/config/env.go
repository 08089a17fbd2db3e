package config

import (
	"os"

	"github.com/joho/godotenv"
)

// EnvConfig holds overrides read from the environment. Empty means unset.
type EnvConfig struct {
	DB        string
	Store     string
	RedisURL  string
	LogLevel  string
	LogFormat string
}

// LoadEnv loads .env if present, then reads the MATHDRILL_* variables.
func LoadEnv() EnvConfig {
	_ = godotenv.Load() // .env is optional
	return EnvConfig{
		DB:        os.Getenv("MATHDRILL_DB"),
		Store:     os.Getenv("MATHDRILL_STORE"),
		RedisURL:  os.Getenv("MATHDRILL_REDIS_URL"),
		LogLevel:  os.Getenv("MATHDRILL_LOG_LEVEL"),
		LogFormat: os.Getenv("MATHDRILL_LOG_FORMAT"),
	}
}
