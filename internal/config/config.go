package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Ashbinbiju/SwingScanner/internal/api"
)

// DefaultFile is the optional project config file.
const DefaultFile = ".swingscan.yaml"

// EnvBaseURL overrides the configured backend base URL.
const EnvBaseURL = "SWINGSCAN_BASE_URL"

// maxConfigSize is the maximum config file size we'll read (64 KiB).
const maxConfigSize = 64 * 1024

// Config holds client settings loaded from .swingscan.yaml plus the
// environment.
type Config struct {
	BaseURL string `yaml:"base_url"`
	LogsDir string `yaml:"logs_dir"`
}

// Load reads the config file from dir if present, applies defaults, then
// applies environment overrides. A missing file is not an error; defaults
// apply.
func Load(dir string) (*Config, error) {
	var cfg Config

	path := filepath.Join(dir, DefaultFile)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	case info.Size() > maxConfigSize:
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = api.DefaultBaseURL
	}
	if c.LogsDir == "" {
		c.LogsDir = "logs"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q", c.BaseURL)
	}
	return nil
}
