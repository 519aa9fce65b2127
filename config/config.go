// Package config loads the quote builder configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	DataDir              string
	LogLevel             string
	LogFormat            string
	SeedCatalog          bool
	DefaultTaxPercent    float64
	DefaultApplyTax      bool
	DefaultApplyDiscount bool
	PersistTimeout       time.Duration
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	taxPercent, err := parseFloat(k.String("DEFAULT_TAX_PERCENT"), 0)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TAX_PERCENT: %w", err)
	}
	if taxPercent < 0 {
		return nil, errors.New("DEFAULT_TAX_PERCENT must not be negative")
	}

	timeout, err := parseDuration(k.String("PERSIST_TIMEOUT"), "10s")
	if err != nil {
		return nil, fmt.Errorf("PERSIST_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, errors.New("PERSIST_TIMEOUT must be positive")
	}

	seed, err := parseBool(k.String("SEED_CATALOG"), true)
	if err != nil {
		return nil, fmt.Errorf("SEED_CATALOG: %w", err)
	}
	applyTax, err := parseBool(k.String("DEFAULT_APPLY_TAX"), true)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_APPLY_TAX: %w", err)
	}
	applyDiscount, err := parseBool(k.String("DEFAULT_APPLY_DISCOUNT"), true)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_APPLY_DISCOUNT: %w", err)
	}

	cfg := &Config{
		DataDir:              valueOrDefault(k.String("QUOTE_DATA_DIR"), "pb_data"),
		LogLevel:             valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:            valueOrDefault(k.String("LOG_FORMAT"), "json"),
		SeedCatalog:          seed,
		DefaultTaxPercent:    taxPercent,
		DefaultApplyTax:      applyTax,
		DefaultApplyDiscount: applyDiscount,
		PersistTimeout:       timeout,
	}
	return cfg, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) (time.Duration, error) {
	return time.ParseDuration(valueOrDefault(value, fallback))
}

func parseFloat(value string, fallback float64) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// parseBool returns fallback for an empty value and rejects anything it does
// not recognise.
func parseBool(value string, fallback bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return fallback, nil
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
