package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	GeminiAPIVersion string

	LogLevel string

	PreferIPv4 bool

	WebAddr           string
	MaxConcurrent     int
	MaxHistory        int
	MaxUploadBytes    int64
	ImageMaxDimension int
	RequestTimeout    time.Duration
	HTTPTimeout       time.Duration
}

// Offline reports whether no API key is configured. Every model-backed call
// then answers from its static fallback.
func (c Config) Offline() bool {
	return c.GeminiAPIKey == ""
}

func Load() (Config, error) {
	cfg := Config{
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:       strings.TrimSpace(getEnv("GEMINI_MODEL", DefaultModel)),
		GeminiBaseURL:     strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion:  strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
		LogLevel:          strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		PreferIPv4:        getEnvBool("PREFER_IPV4", true),
		WebAddr:           strings.TrimSpace(getEnv("WEB_ADDR", ":8080")),
		MaxConcurrent:     getEnvInt("MAX_CONCURRENT", 4),
		MaxHistory:        getEnvInt("MAX_HISTORY", 50),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		ImageMaxDimension: getEnvInt("IMAGE_MAX_DIMENSION", 1536),
		RequestTimeout:    time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 120)) * time.Second,
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxHistory < 1 {
		cfg.MaxHistory = 1
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.ImageMaxDimension < 64 {
		cfg.ImageMaxDimension = 1536
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 120 * time.Second
	}
	if cfg.WebAddr == "" {
		cfg.WebAddr = ":8080"
	}

	if u, err := url.Parse(cfg.GeminiBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("GEMINI_BASE_URL is not an absolute URL: %q", cfg.GeminiBaseURL)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
