// Package config loads application settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database    DatabaseConfig
	Telegram    TelegramConfig
	LLM         LLMConfig
	LogLevel    string        `validate:"required,oneof=debug info warn error"`
	IdleTTL     time.Duration `validate:"gt=0"`
	Sweep       time.Duration `validate:"gt=0"`
	MetricsAddr string
}

// DatabaseConfig selects the durable store
type DatabaseConfig struct {
	Type string `validate:"required,oneof=sqlite postgres"`
	Path string `validate:"required_if=Type sqlite"`
	URL  string `validate:"required_if=Type postgres"`
}

// TelegramConfig contains the bot settings
type TelegramConfig struct {
	Token string
}

// LLMConfig contains the dialogue provider settings
type LLMConfig struct {
	APIKey  string
	BaseURL string `validate:"omitempty,url"`
	Model   string `validate:"required"`
}

// Defaults
const (
	DefaultDatabasePath = "data/kidspeak.db"
	DefaultLLMBaseURL   = "https://api.groq.com/openai/v1/"
	DefaultLLMModel     = "llama-3.1-8b-instant"
	DefaultIdleTTL      = 2 * time.Hour
	DefaultSweep        = 10 * time.Minute
	DefaultMetricsAddr  = ":9090"
)

// Load reads .env files (missing files are ignored) and then the
// environment. Environment variables already set win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %v", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds and validates a Config using lookup for every key
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	idleTTL, err := time.ParseDuration(get("CONTEXT_IDLE_TTL", DefaultIdleTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid CONTEXT_IDLE_TTL: %v", err)
	}
	sweep, err := time.ParseDuration(get("SWEEP_INTERVAL", DefaultSweep.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %v", err)
	}

	metricsAddr := DefaultMetricsAddr
	if v, ok := lookup("METRICS_ADDR"); ok {
		metricsAddr = strings.TrimSpace(v) // Empty disables the endpoint
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Type: strings.ToLower(get("DB_TYPE", "sqlite")),
			Path: get("DATABASE_PATH", DefaultDatabasePath),
			URL:  get("DATABASE_URL", ""),
		},
		Telegram: TelegramConfig{
			Token: get("TELEGRAM_BOT_TOKEN", ""),
		},
		LLM: LLMConfig{
			APIKey:  get("GROQ_API_KEY", ""),
			BaseURL: get("LLM_BASE_URL", DefaultLLMBaseURL),
			Model:   get("LLM_MODEL", DefaultLLMModel),
		},
		LogLevel:    strings.ToLower(get("LOG_LEVEL", "info")),
		IdleTTL:     idleTTL,
		Sweep:       sweep,
		MetricsAddr: metricsAddr,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return cfg, nil
}
