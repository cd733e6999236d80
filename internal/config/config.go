package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the voice bridge service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowedOrigins []string

	DefaultLanguage string
	MaxUploadBytes  int64
	UploadDir       string

	MockProcessingDelay time.Duration
	MockAgentDelay      time.Duration

	VoiceProvider string

	AgentAdapterMode string
	AgentHTTPURL     string

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8000"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "voicebridge"),
		DefaultLanguage:  envOrDefault("APP_DEFAULT_LANGUAGE", "en-IN"),
		UploadDir:        stringsTrimSpace("APP_UPLOAD_DIR"),
		VoiceProvider:    envOrDefault("VOICE_PROVIDER", "mock"),
		AgentAdapterMode: envOrDefault("AGENT_ADAPTER_MODE", "auto"),
		AgentHTTPURL:     stringsTrimSpace("AGENT_HTTP_URL"),
		DatabaseURL:      stringsTrimSpace("DATABASE_URL"),

		ShutdownTimeout:     15 * time.Second,
		MaxUploadBytes:      16 << 20,
		MockProcessingDelay: 2 * time.Second,
		MockAgentDelay:      time.Second,
	}

	cfg.AllowedOrigins = splitCSV(envOrDefault("APP_ALLOWED_ORIGINS", "*"))

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.MockProcessingDelay, err = durationFromEnv("APP_MOCK_PROCESSING_DELAY", cfg.MockProcessingDelay)
	if err != nil {
		return Config{}, err
	}
	cfg.MockAgentDelay, err = durationFromEnv("APP_MOCK_AGENT_DELAY", cfg.MockAgentDelay)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxUploadBytes, err = int64FromEnv("APP_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	if err != nil {
		return Config{}, err
	}

	if cfg.ShutdownTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be at least 1s")
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("APP_MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.MockProcessingDelay < 0 {
		return Config{}, fmt.Errorf("APP_MOCK_PROCESSING_DELAY must not be negative")
	}
	if cfg.MockAgentDelay < 0 {
		return Config{}, fmt.Errorf("APP_MOCK_AGENT_DELAY must not be negative")
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func int64FromEnv(key string, fallback int64) (int64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}
