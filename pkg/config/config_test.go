package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heronet.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Std() != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout.Std())
	}
	if cfg.Analysis.TopK != 10 || !cfg.Analysis.Communities {
		t.Errorf("analysis defaults = %+v", cfg.Analysis)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: console
server:
  addr: ":9090"
  read_timeout: 5s
analysis:
  top_k: 25
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Std() != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout.Std())
	}
	if cfg.Server.WriteTimeout.Std() != 30*time.Second {
		t.Errorf("WriteTimeout lost its default: %v", cfg.Server.WriteTimeout.Std())
	}
	if cfg.Analysis.TopK != 25 {
		t.Errorf("TopK = %d, want 25", cfg.Analysis.TopK)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "server:\n  adress: \":9090\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted a misspelled key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("Load accepted a missing explicit path")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HERONET_ADDR", ":7070")
	t.Setenv("HERONET_LOG_LEVEL", "warn")
	t.Setenv("HERONET_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("HERONET_JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Log.Level)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if !cfg.Auth.Enabled {
		t.Errorf("setting HERONET_JWT_SECRET did not enable auth")
	}
}

func TestValidateShortSecret(t *testing.T) {
	cfg := Default()
	cfg.Auth.Enabled = true
	cfg.Auth.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate accepted a short JWT secret")
	}
}

func TestValidateArchiveNeedsURL(t *testing.T) {
	cfg := Default()
	cfg.Archive.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate accepted archive without a database URL")
	}
}

func TestValidateFieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "Addr"},
		{"tiny body limit", func(c *Config) { c.Server.MaxBodyBytes = 16 }, "MaxBodyBytes"},
		{"zero top k", func(c *Config) { c.Analysis.TopK = 0 }, "TopK"},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = Duration(-time.Second) }, "ReadTimeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate accepted the config")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %s", err, tc.want)
			}
		})
	}
}

func TestDurationRoundTrip(t *testing.T) {
	path := writeConfig(t, "server:\n  shutdown_timeout: 90s\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ShutdownTimeout.Std() != 90*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 90s", cfg.Server.ShutdownTimeout.Std())
	}
}

func TestDurationRejectsGarbage(t *testing.T) {
	path := writeConfig(t, "server:\n  read_timeout: fast\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted a malformed duration")
	}
}
