package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != 8081 {
		t.Errorf("expected default port 8081, got %d", cfg.HTTPPort)
	}
	if cfg.DefaultUserID != "guestuser@gmail.com" {
		t.Errorf("unexpected default user: %s", cfg.DefaultUserID)
	}
	if cfg.CleanupInterval != 300*time.Second {
		t.Errorf("unexpected cleanup interval: %s", cfg.CleanupInterval)
	}
	if cfg.RemoteEnabled() {
		t.Errorf("remote backend must be off by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AGENTBOARD_HTTP_PORT", "9090")
	t.Setenv("AGENTBOARD_ORCHESTRATOR_URL", "http://orchestrator:8000/api")
	t.Setenv("AGENTBOARD_API_DOCS", "true")
	t.Setenv("AGENTBOARD_SESSION_TIMEOUT", "60")

	cfg := Load()

	if cfg.HTTPPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if !cfg.RemoteEnabled() {
		t.Errorf("expected remote backend enabled")
	}
	if cfg.OrchestratorURL != "http://orchestrator:8000/api" {
		t.Errorf("unexpected orchestrator URL: %s", cfg.OrchestratorURL)
	}
	if !cfg.APIDocs {
		t.Errorf("expected api docs enabled")
	}
	if cfg.SessionTimeout != 60*time.Second {
		t.Errorf("unexpected session timeout: %s", cfg.SessionTimeout)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("AGENTBOARD_HTTP_PORT", "not-a-number")

	cfg := Load()
	if cfg.HTTPPort != 8081 {
		t.Errorf("invalid port must fall back to default, got %d", cfg.HTTPPort)
	}
}
