// Package config resolves runtime settings from defaults, an optional TOML
// file, and environment variables, in that order of precedence (lowest
// first).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultAPIURL         = "http://localhost:3001"
	DefaultPort           = "8080"
	DefaultRequestTimeout = 30
)

type Config struct {
	APIURL                string `toml:"api_url"`
	Port                  string `toml:"port"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	// StorageOrigin is added to the watch page CSP so the player may load
	// presigned video URLs from it.
	StorageOrigin string `toml:"storage_origin"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
}

func Default() Config {
	return Config{
		APIURL:                DefaultAPIURL,
		Port:                  DefaultPort,
		RequestTimeoutSeconds: DefaultRequestTimeout,
		LogLevel:              "info",
		LogFormat:             "text",
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.APIURL = getEnv("API_URL", c.APIURL)
	c.Port = getEnv("PORT", c.Port)
	c.RequestTimeoutSeconds = int(getEnvInt64("REQUEST_TIMEOUT_SECONDS", int64(c.RequestTimeoutSeconds)))
	c.StorageOrigin = getEnv("STORAGE_ORIGIN", c.StorageOrigin)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url must be an absolute http(s) URL, got %q", c.APIURL))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("port must be numeric, got %q", c.Port))
	}
	if c.RequestTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
