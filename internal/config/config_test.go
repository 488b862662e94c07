package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL || cfg.API.Timeout != DefaultTimeout {
		t.Fatalf("unexpected defaults: %+v", cfg.API)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
api:
  base_url: http://backend.internal:8080/api
  timeout: 3s
  rate_limit: 2.5
  burst: 4
log:
  level: debug
output:
  format: edn
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://backend.internal:8080/api" {
		t.Fatalf("base url: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second || cfg.API.RateLimit != 2.5 || cfg.API.Burst != 4 {
		t.Fatalf("api: %+v", cfg.API)
	}
	// Untouched keys keep their defaults.
	if cfg.API.StatusInterval != 5*time.Second {
		t.Fatalf("status interval default lost: %v", cfg.API.StatusInterval)
	}

	env := map[string]string{
		"LIVEWATCH_BASE_URL": "https://ops.example.com/api",
		"LIVEWATCH_TIMEOUT":  "20",
	}
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.API.BaseURL != "https://ops.example.com/api" || cfg.API.Timeout != 20*time.Second {
		t.Fatalf("env did not win: %+v", cfg.API)
	}
	if cfg.Output.Format != "edn" || cfg.Log.Level != "debug" {
		t.Fatalf("file values lost: %+v %+v", cfg.Output, cfg.Log)
	}
}

func TestApplyEnv_BadTimeout(t *testing.T) {
	t.Parallel()

	cfg := Default()
	err := cfg.ApplyEnv(func(k string) string {
		if k == "LIVEWATCH_TIMEOUT" {
			return "soon"
		}
		return ""
	})
	if err == nil {
		t.Fatalf("expected error for bad timeout")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "ftp scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://x/api" }},
		{name: "no host", mutate: func(c *Config) { c.API.BaseURL = "http:///api" }},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.API.RateLimit = -1 }},
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "xml" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid; got %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Default()
	want.API.BaseURL = "http://10.0.0.5:5000/api"
	want.Metrics.Addr = ":9464"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.API.BaseURL != want.API.BaseURL || got.Metrics.Addr != ":9464" || got.API.Timeout != want.API.Timeout {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}
