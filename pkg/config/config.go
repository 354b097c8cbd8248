// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is built once in main and injected; components never reach for a
// global accessor.
type Config struct {
	Env      string
	HTTPAddr string

	// Identity provider (resource-owner password grant). Any of these may be
	// overridden by the secret store at resolution time.
	TokenURL     string
	ClientID     string
	UserEmail    string
	UserPassword string

	// Static bearer used only when token issuance fails. Weakens the security
	// contract; every use is logged.
	FallbackAuthToken string

	// Downstream endpoints
	CreateUserURL string
	OnboardingURL string
	ProductURL    string

	// Headers required by the downstream gateway
	TenantID        string
	SubscriptionKey string
	Referer         string

	// Product activation
	ProductCode string
	ProductName string

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string

	// Outbound HTTP hardening: the original behavior had no deadline; a bounded
	// per-call timeout is a deliberate deviation.
	HTTPTimeout time.Duration
}

// fileConfig is the optional YAML overlay (PRODUCTFLOW_CONFIG), covering the
// static credential block that would otherwise live in env.
type fileConfig struct {
	TokenURL          string `yaml:"token_url"`
	ClientID          string `yaml:"client_id"`
	UserEmail         string `yaml:"user_email"`
	UserPassword      string `yaml:"user_password"`
	FallbackAuthToken string `yaml:"auth_token"`
	CreateUserURL     string `yaml:"create_user_url"`
	OnboardingURL     string `yaml:"onboarding_url"`
	ProductURL        string `yaml:"product_url"`
	TenantID          string `yaml:"tenant_id"`
	SubscriptionKey   string `yaml:"subscription_key"`
	Referer           string `yaml:"referer"`
	ProductCode       string `yaml:"product_code"`
	ProductName       string `yaml:"product_name"`
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:               env("PRODUCTFLOW_ENV", "dev"),
		HTTPAddr:          env("PRODUCTFLOW_HTTP_ADDR", ":8080"),
		TokenURL:          env("AUTH_TOKEN_URL", ""),
		ClientID:          env("AUTH_CLIENT_ID", ""),
		UserEmail:         env("AUTH_USER_EMAIL", ""),
		UserPassword:      env("AUTH_USER_PASSWORD", ""),
		FallbackAuthToken: env("AUTH_STATIC_TOKEN", ""),
		CreateUserURL:     env("CREATE_USER_URL", ""),
		OnboardingURL:     env("ONBOARDING_URL", ""),
		ProductURL:        env("PRODUCT_URL", ""),
		TenantID:          env("TENANT_ID", ""),
		SubscriptionKey:   env("SUBSCRIPTION_KEY", ""),
		Referer:           env("REFERER_URL", ""),
		ProductCode:       env("PRODUCT_CODE", ""),
		ProductName:       env("PRODUCT_NAME", ""),
		RedisURL:          env("REDIS_URL", ""),
		DatabaseURL:       env("DATABASE_URL", ""),
		HTTPTimeout:       envDur("HTTP_TIMEOUT_SEC", 30) * time.Second,
	}
	if path := os.Getenv("PRODUCTFLOW_CONFIG"); path != "" {
		cfg = overlayFile(cfg, path)
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set — execution journal disabled")
	}
	return cfg
}

// overlayFile applies non-empty YAML values over the env-derived config.
func overlayFile(cfg Config, path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[WARN] config file %s unreadable: %v", path, err)
		return cfg
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Printf("[WARN] config file %s invalid: %v", path, err)
		return cfg
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.TokenURL, fc.TokenURL)
	set(&cfg.ClientID, fc.ClientID)
	set(&cfg.UserEmail, fc.UserEmail)
	set(&cfg.UserPassword, fc.UserPassword)
	set(&cfg.FallbackAuthToken, fc.FallbackAuthToken)
	set(&cfg.CreateUserURL, fc.CreateUserURL)
	set(&cfg.OnboardingURL, fc.OnboardingURL)
	set(&cfg.ProductURL, fc.ProductURL)
	set(&cfg.TenantID, fc.TenantID)
	set(&cfg.SubscriptionKey, fc.SubscriptionKey)
	set(&cfg.Referer, fc.Referer)
	set(&cfg.ProductCode, fc.ProductCode)
	set(&cfg.ProductName, fc.ProductName)
	return cfg
}

// Credentials returns the static fallback values keyed the way the secret
// resolver expects them (config side of each credential key pair).
func (c Config) Credentials() map[string]string {
	return map[string]string{
		"token_url":     c.TokenURL,
		"client_id":     c.ClientID,
		"user_email":    c.UserEmail,
		"user_password": c.UserPassword,
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
