package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AuthToken          string
	CorsAllowedOrigins []string
	// CacheTTL is the client cache freshness window.
	CacheTTL time.Duration
}

// fileConfig mirrors Config for the optional YAML config file.
type fileConfig struct {
	Port               string   `yaml:"port"`
	DatabaseURL        string   `yaml:"database_url"`
	AuthToken          string   `yaml:"auth_token"`
	CorsAllowedOrigins []string `yaml:"cors_allowed_origins"`
	CacheTTL           string   `yaml:"cache_ttl"`
}

// Load builds the configuration from an optional YAML file overlaid by the
// environment (a .env file is honored). Environment values win.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:               "8080",
		CorsAllowedOrigins: []string{"*"},
		CacheTTL:           30 * time.Second,
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.AuthToken = getEnv("AUTH_TOKEN", cfg.AuthToken)
	if raw := getEnv("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		cfg.CorsAllowedOrigins = splitCSV(raw)
	}
	if raw := getEnv("CACHE_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.AuthToken == "" {
		return Config{}, errors.New("AUTH_TOKEN is required")
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = fc.DatabaseURL
	}
	if fc.AuthToken != "" {
		cfg.AuthToken = fc.AuthToken
	}
	if len(fc.CorsAllowedOrigins) > 0 {
		cfg.CorsAllowedOrigins = fc.CorsAllowedOrigins
	}
	if fc.CacheTTL != "" {
		ttl, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache_ttl in config file: %w", err)
		}
		cfg.CacheTTL = ttl
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
