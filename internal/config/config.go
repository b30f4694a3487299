// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port     string
	Name     string
	LogLevel string // debug, info, warn, error
	LogFile  string // empty disables file logging
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr    string
	Enabled bool
}

type JWTConfig struct {
	Secret   string
	Duration time.Duration
}

type GameConfig struct {
	RouletteMaxPlayers int
	InitialBalance     float64
}

// Config holds all configuration for the service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Game     GameConfig
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     getEnv("SERVER_PORT", "8080"),
			Name:     "gamehub",
			LogLevel: getEnv("LOG_LEVEL", "info"),
			LogFile:  getEnv("LOG_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "gamehub_user"),
			Password: getEnv("DB_PASSWORD", "gamehub_pass"),
			Name:     getEnv("DB_NAME", "gamehub_db"),
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
			Enabled: getEnv("REDIS_ENABLED", "false") == "true",
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
			Duration: time.Duration(getEnvInt("JWT_DURATION_HOURS", 24)) * time.Hour,
		},
		Game: GameConfig{
			RouletteMaxPlayers: getEnvInt("ROULETTE_MAX_PLAYERS", 6),
			InitialBalance:     float64(getEnvInt("INITIAL_BALANCE", 1000)),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
