package eventaggregator

import "fmt"

const DefaultMaxEvents = 10

type Config struct {
	MaxEvents int
	StateCode string
}

func DefaultConfig() *Config {
	return &Config{MaxEvents: DefaultMaxEvents}
}

func (c *Config) Validate() error {
	if c.MaxEvents <= 0 {
		return fmt.Errorf("max_events must be positive")
	}
	return nil
}
