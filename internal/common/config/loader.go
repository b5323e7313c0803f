// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (optional), then config.<APP_ENVIRONMENT>.yaml,
// then environment variables. The returned string is the .env file that was
// applied, or "" when none was found.
func Load() (*Config, string, error) {
	envFile := loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, envFile, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	cfg, err := finish(v)
	return cfg, envFile, err
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values. A placeholder
// whose variable is unset becomes "" so the env fallbacks and defaults still apply.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		switch {
		case strings.Contains(strVal, "${"):
			expanded := os.ExpandEnv(strVal)
			if strings.Contains(expanded, "${") {
				expanded = ""
			}
			v.Set(key, expanded)
		case strings.HasPrefix(strVal, "$") && len(strVal) > 1:
			if expanded := os.ExpandEnv(strVal); expanded != "" && expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from the variable names the deployment already uses.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Ticketmaster.APIKey == "" {
		cfg.Ticketmaster.APIKey = os.Getenv("TICKETMASTER_API_KEY")
	}
	if val := os.Getenv("OLLAMA_BASE_URL"); val != "" {
		cfg.CityResolver.BaseURL = strings.TrimRight(val, "/") + "/v1"
	}
	if val := os.Getenv("DEFAULT_CITY"); val != "" {
		cfg.MCP.DefaultCity = val
	}
	if val := os.Getenv("DEFAULT_STATE_CODE"); val != "" {
		cfg.MCP.DefaultStateCode = val
	}
	if val := os.Getenv("REDIS_ADDRESS"); val != "" {
		cfg.Cache.Address = val
		cfg.Cache.Enabled = true
	}
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "eventaide")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 10000)
	v.SetDefault("server.write_timeout", 60000)
	v.SetDefault("server.shutdown_timeout", 30000)

	v.SetDefault("ticketmaster.base_url", "https://app.ticketmaster.com")
	v.SetDefault("ticketmaster.api_key", "")
	v.SetDefault("ticketmaster.country_code", "US")
	v.SetDefault("ticketmaster.page_size", 200)
	v.SetDefault("ticketmaster.timeout", 15000)
	v.SetDefault("ticketmaster.cache_ttl", 600)

	v.SetDefault("city_resolver.base_url", "http://localhost:11434/v1")
	v.SetDefault("city_resolver.api_key", "ollama")
	v.SetDefault("city_resolver.model", "llama3.2:latest")
	v.SetDefault("city_resolver.timeout", 20000)
	v.SetDefault("city_resolver.cache_ttl", 86400)

	v.SetDefault("dialogue.top_n", 10)
	v.SetDefault("dialogue.state_code", "")
	v.SetDefault("dialogue.turn_timeout", 45000)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.prefix", "eventaide")

	v.SetDefault("mcp.server_name", "eventaide-mcp")
	v.SetDefault("mcp.default_city", "Rolla")
	v.SetDefault("mcp.default_state_code", "MO")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.collector_endpoint", "http://localhost:14268/api/traces")
}

func validateConfig(cfg *Config) error {
	if cfg.Ticketmaster.BaseURL == "" {
		return fmt.Errorf("ticketmaster.base_url is required")
	}
	if cfg.Ticketmaster.PageSize <= 0 || cfg.Ticketmaster.PageSize > 200 {
		return fmt.Errorf("ticketmaster.page_size must be between 1 and 200")
	}
	if cfg.CityResolver.Model == "" {
		return fmt.Errorf("city_resolver.model is required")
	}
	if cfg.Dialogue.TopN <= 0 {
		return fmt.Errorf("dialogue.top_n must be positive")
	}
	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.address is required when cache is enabled")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.CollectorEndpoint == "" {
		return fmt.Errorf("tracing.collector_endpoint is required when tracing is enabled")
	}
	return nil
}
