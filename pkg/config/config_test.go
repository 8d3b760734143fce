package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
feed:
  symbols: ["BTCUSDT"]
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Aggregation.Interval != time.Minute {
		t.Fatalf("expected default interval 1m, got %s", c.Aggregation.Interval)
	}
	if c.Signals.TTL != 8*time.Hour {
		t.Fatalf("expected default signal ttl 8h, got %s", c.Signals.TTL)
	}
	if c.Signals.MaxActivePerSymbol != 2 {
		t.Fatalf("expected default active cap 2, got %d", c.Signals.MaxActivePerSymbol)
	}
	if c.Signals.ConfidenceMin != 25 || c.Signals.ConfidenceMax != 85 {
		t.Fatalf("unexpected confidence bounds %v..%v", c.Signals.ConfidenceMin, c.Signals.ConfidenceMax)
	}
}

func TestLoadRejectsUnsupportedInterval(t *testing.T) {
	path := writeConfig(t, `
feed:
  symbols: ["BTCUSDT"]
aggregation:
  interval: 7s
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported interval")
	}
}

func TestLoadRejectsEmptySymbols(t *testing.T) {
	path := writeConfig(t, `
aggregation:
  interval: 60s
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty symbols")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	path := writeConfig(t, `
feed:
  symbols: ["BTCUSDT"]
`)
	t.Setenv("SYMBOLS", "ETHUSDT,SOLUSDT")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Feed.Symbols) != 2 || c.Feed.Symbols[0] != "ETHUSDT" {
		t.Fatalf("env override not applied: %v", c.Feed.Symbols)
	}
}
