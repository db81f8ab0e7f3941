package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_MAX_ATTEMPTS", "")
	t.Setenv("GEMINI_RETRY_DELAY_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.MaxAttempts != 0 {
		t.Errorf("expected zero MaxAttempts when unset, got %d", cfg.MaxAttempts)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a missing API key")
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a missing database URL")
	}
}

func TestLoad_RetrySettings(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_MAX_ATTEMPTS", "5")
	t.Setenv("GEMINI_RETRY_DELAY_SECONDS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("expected MaxAttempts 5, got %d", cfg.MaxAttempts)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("expected RetryDelay 2s, got %v", cfg.RetryDelay)
	}
}

func TestLoad_InvalidRetrySettings(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"GEMINI_MAX_ATTEMPTS", "0"},
		{"GEMINI_MAX_ATTEMPTS", "abc"},
		{"GEMINI_RETRY_DELAY_SECONDS", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
