package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"draftworx_orchestrator/internal/logger"
)

// Config represents the structure of config.yaml plus the environment
// overrides applied on top of it.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Draftworx struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"-"` // env only, never written to disk
	} `yaml:"draftworx"`
	Redis struct {
		URL        string `yaml:"url"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`
	Log logger.Config `yaml:"log"`
}

// Defaults returns the configuration used when no config.yaml is present.
func Defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8010
	cfg.Draftworx.BaseURL = "https://api.draftworx.test"
	cfg.Redis.TTLSeconds = 2400
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.Log.Output = "stdout"
	return cfg
}

// Load reads configuration from the given YAML file, falling back to
// defaults when the file does not exist, then applies environment overrides:
// PORT, DRAFTWORX_API_BASE_URL, DRAFTWORX_API_KEY, REDIS_URL.
func Load(filepath string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(filepath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value '%s': %w", port, err)
		}
		cfg.Server.Port = p
	}
	if base := os.Getenv("DRAFTWORX_API_BASE_URL"); base != "" {
		cfg.Draftworx.BaseURL = base
	}
	cfg.Draftworx.APIKey = os.Getenv("DRAFTWORX_API_KEY")
	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}

	return cfg, nil
}
