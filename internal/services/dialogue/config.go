package dialogue

import (
	"fmt"
	"time"

	"eventaide/internal/common/config"
)

type Config struct {
	TopN        int
	StateCode   string
	TurnTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		TopN:        10,
		TurnTimeout: 45 * time.Second,
	}
}

func FromAppConfig(c config.DialogueConfig) *Config {
	cfg := DefaultConfig()
	if c.TopN > 0 {
		cfg.TopN = c.TopN
	}
	cfg.StateCode = c.StateCode
	if c.TurnTimeout > 0 {
		cfg.TurnTimeout = config.GetDuration(c.TurnTimeout)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive")
	}
	if c.TurnTimeout <= 0 {
		return fmt.Errorf("turn_timeout must be positive")
	}
	return nil
}
