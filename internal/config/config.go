package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 10 * time.Second
)

// Config is the process-wide console configuration. It is built once at startup and
// handed to constructors explicitly; nothing mutates it afterwards.
type Config struct {
	API     APIConfig     `yaml:"api" json:"api"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Output  OutputConfig  `yaml:"output" json:"output"`

	// StateDir holds tui_state.json and journal.sqlite. Defaults to the config dir.
	StateDir string `yaml:"state_dir,omitempty" json:"stateDir,omitempty"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" json:"baseUrl"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// RateLimit is requests per second; 0 disables throttling.
	RateLimit float64 `yaml:"rate_limit,omitempty" json:"rateLimit,omitempty"`
	Burst     int     `yaml:"burst,omitempty" json:"burst,omitempty"`

	// StatusInterval is the poll period for `status --watch` and the TUI status view.
	StatusInterval time.Duration `yaml:"status_interval,omitempty" json:"statusInterval,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

type MetricsConfig struct {
	// Addr exposes /metrics when set (e.g. ":9464").
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
	Pretty bool   `yaml:"pretty,omitempty" json:"pretty,omitempty"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			Timeout:        DefaultTimeout,
			StatusInterval: 5 * time.Second,
		},
		Log:    LogConfig{Level: "info"},
		Output: OutputConfig{Format: "json"},
	}
}

// Dir is ~/.livewatch unless LIVEWATCH_CONFIG_DIR overrides it (tests use the override to
// stay out of the real home directory).
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("LIVEWATCH_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".livewatch"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the YAML file at path on top of the defaults. An empty path means the
// default location; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv layers LIVEWATCH_* variables over the file values.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("LIVEWATCH_BASE_URL")); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(getenv("LIVEWATCH_TIMEOUT")); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("LIVEWATCH_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	if v := strings.TrimSpace(getenv("LIVEWATCH_FORMAT")); v != "" {
		c.Output.Format = v
	}
	if v := strings.TrimSpace(getenv("LIVEWATCH_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(getenv("LIVEWATCH_LOG_FILE")); v != "" {
		c.Log.File = v
	}
	if v := strings.TrimSpace(getenv("LIVEWATCH_METRICS_ADDR")); v != "" {
		c.Metrics.Addr = v
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.API.BaseURL))
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url: missing host")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	switch c.Output.Format {
	case "", "json", "edn":
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	return nil
}

// ResolveStateDir returns StateDir, falling back to the config dir.
func (c *Config) ResolveStateDir() (string, error) {
	if strings.TrimSpace(c.StateDir) != "" {
		return c.StateDir, nil
	}
	return Dir()
}

// Save writes cfg as YAML through a temp file so a crash never leaves a torn config.
func Save(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// parseDuration accepts Go durations ("15s") and bare seconds ("15").
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
