package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8000" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8000")
	}
	if cfg.DefaultLanguage != "en-IN" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "en-IN")
	}
	if cfg.AgentAdapterMode != "auto" {
		t.Fatalf("AgentAdapterMode = %q, want %q", cfg.AgentAdapterMode, "auto")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
	if cfg.MockProcessingDelay != 2*time.Second {
		t.Fatalf("MockProcessingDelay = %v, want 2s", cfg.MockProcessingDelay)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")
	t.Setenv("APP_MOCK_PROCESSING_DELAY", "50ms")
	t.Setenv("APP_ALLOWED_ORIGINS", "http://localhost:5173, http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.MockProcessingDelay != 50*time.Millisecond {
		t.Fatalf("MockProcessingDelay = %v, want 50ms", cfg.MockProcessingDelay)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v, want two entries", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_MAX_UPLOAD_BYTES", "-1")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject a negative upload cap")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOWED_ORIGINS",
		"APP_DEFAULT_LANGUAGE",
		"APP_MAX_UPLOAD_BYTES",
		"APP_UPLOAD_DIR",
		"APP_MOCK_PROCESSING_DELAY",
		"APP_MOCK_AGENT_DELAY",
		"VOICE_PROVIDER",
		"AGENT_ADAPTER_MODE",
		"AGENT_HTTP_URL",
		"DATABASE_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
