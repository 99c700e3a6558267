package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultPort           = "8080"
	defaultCurrency       = "INR"
	defaultGatewayBaseURL = "https://api.gateway.example.com"
	defaultGatewayTimeout = "10s"
	defaultJWTSecret      = "change-me-jwt-secret"
)

// AppConfig is everything the API process needs beyond the payment gateway.
type AppConfig struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	AMQPURL     string
}

// GatewayConfig holds the payment gateway credentials. Loaded and validated
// once at startup: a missing key is a fatal configuration error, never a
// per-request condition.
type GatewayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string
	Timeout   time.Duration
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		AppEnv:      appEnv(),
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		AMQPURL:     strings.TrimSpace(os.Getenv("AMQP_URL")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return nil, fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}

	return cfg, nil
}

func LoadGatewayConfig() (*GatewayConfig, error) {
	cfg := &GatewayConfig{
		KeyID:     strings.TrimSpace(os.Getenv("GATEWAY_KEY_ID")),
		KeySecret: strings.TrimSpace(os.Getenv("GATEWAY_KEY_SECRET")),
		BaseURL:   strings.TrimSpace(getEnv("GATEWAY_BASE_URL", defaultGatewayBaseURL)),
		Currency:  strings.TrimSpace(getEnv("GATEWAY_CURRENCY", defaultCurrency)),
	}

	var err error
	cfg.Timeout, err = parseDurationEnv("GATEWAY_TIMEOUT", defaultGatewayTimeout)
	if err != nil {
		return nil, err
	}

	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("GATEWAY_KEY_ID and GATEWAY_KEY_SECRET must be set")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("GATEWAY_TIMEOUT must be > 0")
	}

	log.Printf("gateway config: base_url=%s currency=%s timeout=%s", cfg.BaseURL, cfg.Currency, cfg.Timeout)

	return cfg, nil
}

func appEnv() string {
	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = strings.TrimSpace(os.Getenv("ENV"))
	}
	if env == "" {
		env = "dev"
	}
	return strings.ToLower(env)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
