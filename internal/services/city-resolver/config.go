package cityresolver

import (
	"fmt"
	"time"

	"eventaide/internal/common/config"
)

type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:  "http://localhost:11434/v1",
		APIKey:   "ollama",
		Model:    "llama3.2:latest",
		Timeout:  20 * time.Second,
		CacheTTL: 24 * time.Hour,
	}
}

// FromAppConfig builds a resolver config from the city_resolver section.
func FromAppConfig(c config.CityResolverConfig) *Config {
	cfg := DefaultConfig()
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.APIKey != "" {
		cfg.APIKey = c.APIKey
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.Timeout > 0 {
		cfg.Timeout = config.GetDuration(c.Timeout)
	}
	if c.CacheTTL > 0 {
		cfg.CacheTTL = config.GetTTL(c.CacheTTL)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
