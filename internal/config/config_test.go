package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pricing.BinomialSteps != 500 {
		t.Errorf("expected default binomial steps 500, got %d", cfg.Pricing.BinomialSteps)
	}
	if cfg.Pricing.RiskFreeRate != 0.05 {
		t.Errorf("expected default risk-free rate 0.05, got %v", cfg.Pricing.RiskFreeRate)
	}
	if cfg.Pricing.Calendar != "XNYS" {
		t.Errorf("expected default calendar XNYS, got %s", cfg.Pricing.Calendar)
	}
	if !cfg.Output.Pretty {
		t.Error("expected pretty output by default")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `pricing:
  binomial_steps: 1000
  risk_free_rate: 0.03
output:
  pretty: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pricing.BinomialSteps != 1000 {
		t.Errorf("expected binomial steps 1000, got %d", cfg.Pricing.BinomialSteps)
	}
	if cfg.Pricing.RiskFreeRate != 0.03 {
		t.Errorf("expected risk-free rate 0.03, got %v", cfg.Pricing.RiskFreeRate)
	}
	if cfg.Output.Pretty {
		t.Error("expected pretty output disabled")
	}
	// Unset keys keep their defaults.
	if cfg.Pricing.Calendar != "XNYS" {
		t.Errorf("expected default calendar XNYS, got %s", cfg.Pricing.Calendar)
	}
}

func TestLoad_InvalidSteps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `pricing:
  binomial_steps: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for zero binomial steps")
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RatePerSecond != 50 {
		t.Errorf("expected default rate 50, got %d", cfg.RatePerSecond)
	}
	if cfg.RateBurst != 100 {
		t.Errorf("expected default burst 100, got %d", cfg.RateBurst)
	}
	if !cfg.WSEnabled {
		t.Error("expected WebSocket enabled by default")
	}
	if cfg.DefaultBinomialSteps != 500 {
		t.Errorf("expected default binomial steps 500, got %d", cfg.DefaultBinomialSteps)
	}
}

func TestLoadServerConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_PER_SECOND", "10")
	t.Setenv("RATE_BURST", "20")
	t.Setenv("WS_ENABLED", "false")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.RatePerSecond != 10 || cfg.RateBurst != 20 {
		t.Errorf("expected rate 10/20, got %d/%d", cfg.RatePerSecond, cfg.RateBurst)
	}
	if cfg.WSEnabled {
		t.Error("expected WebSocket disabled")
	}
}

func TestLoadServerConfig_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	if _, err := LoadServerConfig(); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestLoadServerConfig_BurstBelowRate(t *testing.T) {
	t.Setenv("RATE_PER_SECOND", "100")
	t.Setenv("RATE_BURST", "10")

	if _, err := LoadServerConfig(); err == nil {
		t.Error("expected error when burst is below the sustained rate")
	}
}
