package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Config holds runtime settings for the gophdocs client.
type Config struct {
	ServerURL      string
	APIKey         string
	RequestTimeout time.Duration
	RetryAttempts  uint64
	PerPage        int
	BaselineDSN    string

	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8050"
	c.RequestTimeout = 30 * time.Second
	c.RetryAttempts = 2
	c.PerPage = 50
	c.S3Region = "us-east-1"
}

// Load builds a Config from defaults, then the JSON file at path (skipped
// when empty), then the flags of fs that were explicitly set.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if fs != nil {
		if err := applyFlags(cfg, fs); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
