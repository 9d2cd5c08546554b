// Package config loads the YAML configuration with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when VALUE_HELPER_CONFIG is not set
const DefaultPath = "config.yaml"

// Config holds all settings
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Render     RenderConfig     `yaml:"render"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Branding   BrandingConfig   `yaml:"branding"`
	Database   DatabaseConfig   `yaml:"database"`
	Categories CategoriesConfig `yaml:"categories"`
	Session    SessionConfig    `yaml:"session"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port    string `yaml:"port"`
	BaseURL string `yaml:"base_url"` // public URL used in preview and image links
	// ShareURL is the link shared and copied by the delivery chain; defaults to BaseURL
	ShareURL string `yaml:"share_url"`
}

// RenderConfig configures the snapshot rasterizer
type RenderConfig struct {
	Backend         string `yaml:"backend"` // auto, chrome, software
	ChromePath      string `yaml:"chrome_path"`
	SettleDelayMS   int    `yaml:"settle_delay_ms"`
	TimeoutMS       int    `yaml:"timeout_ms"`
	MaxCanvasPixels int    `yaml:"max_canvas_pixels"`
	PageColor       string `yaml:"page_color"`
}

// DeliveryConfig configures downloads
type DeliveryConfig struct {
	DownloadDir string `yaml:"download_dir"`
	FilePrefix  string `yaml:"file_prefix"`
}

// BrandingConfig sets what is printed on snapshots
type BrandingConfig struct {
	Brand          string `yaml:"brand"`
	CurrencySymbol string `yaml:"currency_symbol"`
	LogoPath       string `yaml:"logo_path"`
}

// DatabaseConfig enables the PostgreSQL category catalogue when URL is set
type DatabaseConfig struct {
	URL  string `yaml:"url"`
	Seed bool   `yaml:"seed"`
}

// CategoriesConfig points at an optional YAML catalogue
type CategoriesConfig struct {
	File string `yaml:"file"`
}

// SessionConfig configures export sessions
type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

// LoggingConfig configures log output
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8080",
			BaseURL: "http://localhost:8080",
		},
		Render: RenderConfig{
			Backend:         "auto",
			SettleDelayMS:   300,
			TimeoutMS:       15000,
			MaxCanvasPixels: 4096 * 4096,
			PageColor:       "#ffffff",
		},
		Delivery: DeliveryConfig{
			FilePrefix: "value-tip",
		},
		Branding: BrandingConfig{
			Brand:          "Value Helper",
			CurrencySymbol: "¥",
		},
		Database: DatabaseConfig{Seed: true},
		Session:  SessionConfig{TTL: "10m"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// PathFromEnv returns the config file path from VALUE_HELPER_CONFIG
func PathFromEnv() string {
	if path := os.Getenv("VALUE_HELPER_CONFIG"); path != "" {
		return path
	}
	return DefaultPath
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
// Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	stringVars := map[string]*string{
		"PORT":            &c.Server.Port,
		"BASE_URL":        &c.Server.BaseURL,
		"SHARE_URL":       &c.Server.ShareURL,
		"CHROME_PATH":     &c.Render.ChromePath,
		"RENDER_BACKEND":  &c.Render.Backend,
		"DATABASE_URL":    &c.Database.URL,
		"DOWNLOAD_DIR":    &c.Delivery.DownloadDir,
		"CATEGORIES_FILE": &c.Categories.File,
		"LOG_LEVEL":       &c.Logging.Level,
	}
	for env, field := range stringVars {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}

	intVars := map[string]*int{
		"SETTLE_DELAY_MS":   &c.Render.SettleDelayMS,
		"RENDER_TIMEOUT_MS": &c.Render.TimeoutMS,
	}
	for env, field := range intVars {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", env, v, err)
		}
		*field = n
	}
	return nil
}

// ValidBackends lists the accepted render backends
var ValidBackends = []string{"auto", "chrome", "software"}

// Validate checks the configuration
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range ValidBackends {
		if c.Render.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid render backend: %s (valid: %v)", c.Render.Backend, ValidBackends)
	}
	if c.Render.SettleDelayMS < 0 || c.Render.TimeoutMS < 0 {
		return fmt.Errorf("render delays must not be negative")
	}
	if _, err := time.ParseDuration(c.Session.TTL); c.Session.TTL != "" && err != nil {
		return fmt.Errorf("invalid session ttl %q: %w", c.Session.TTL, err)
	}
	return nil
}

// Address returns the listen address
func (c *Config) Address() string {
	return ":" + c.Server.Port
}

// SettleDelay returns the render settle delay
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Render.SettleDelayMS) * time.Millisecond
}

// RenderTimeout returns the render deadline
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutMS) * time.Millisecond
}

// SessionTTL returns how long export sessions are kept, 10 minutes by default
func (c *Config) SessionTTL() time.Duration {
	if d, err := time.ParseDuration(c.Session.TTL); err == nil && d > 0 {
		return d
	}
	return 10 * time.Minute
}

// ShareLink returns the link handed to the delivery chain
func (c *Config) ShareLink() string {
	if c.Server.ShareURL != "" {
		return c.Server.ShareURL
	}
	return c.Server.BaseURL
}
