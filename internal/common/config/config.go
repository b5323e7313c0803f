// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Ticketmaster TicketmasterConfig `mapstructure:"ticketmaster"`
	CityResolver CityResolverConfig `mapstructure:"city_resolver"`
	Dialogue     DialogueConfig     `mapstructure:"dialogue"`
	Cache        CacheConfig        `mapstructure:"cache"`
	MCP          MCPConfig          `mapstructure:"mcp"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
}

// TicketmasterConfig configures the Discovery API client.
type TicketmasterConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	CountryCode string `mapstructure:"country_code"`
	PageSize    int    `mapstructure:"page_size"`
	Timeout     int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL    int    `mapstructure:"cache_ttl"` // seconds
}

// CityResolverConfig configures the LLM used for city spell correction.
type CityResolverConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Timeout  int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

type DialogueConfig struct {
	TopN        int    `mapstructure:"top_n"`
	StateCode   string `mapstructure:"state_code"`
	TurnTimeout int    `mapstructure:"turn_timeout"` // milliseconds
}

type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// MCPConfig holds the defaults applied to tool calls that omit city/stateCode.
type MCPConfig struct {
	ServerName       string `mapstructure:"server_name"`
	DefaultCity      string `mapstructure:"default_city"`
	DefaultStateCode string `mapstructure:"default_state_code"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetTTL converts seconds from config to time.Duration
func GetTTL(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
