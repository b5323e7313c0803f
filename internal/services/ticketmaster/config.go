package ticketmaster

import (
	"fmt"
	"strings"
	"time"

	"eventaide/internal/common/config"
)

const (
	DefaultBaseURL  = "https://app.ticketmaster.com"
	DefaultPageSize = 200
	maxPageSize     = 200
	eventsPath      = "/discovery/v2/events.json"
)

type Config struct {
	BaseURL     string
	APIKey      string
	CountryCode string
	PageSize    int
	Timeout     time.Duration
	CacheTTL    time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		CountryCode: "US",
		PageSize:    DefaultPageSize,
		Timeout:     15 * time.Second,
		CacheTTL:    10 * time.Minute,
	}
}

// FromAppConfig builds a client config from the ticketmaster section of the
// application config. Zero values keep their defaults.
func FromAppConfig(c config.TicketmasterConfig) *Config {
	cfg := DefaultConfig()
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	cfg.APIKey = c.APIKey
	if c.CountryCode != "" {
		cfg.CountryCode = c.CountryCode
	}
	if c.PageSize > 0 {
		cfg.PageSize = c.PageSize
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
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.PageSize <= 0 || c.PageSize > maxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d", maxPageSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func (c *Config) endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + eventsPath
}
