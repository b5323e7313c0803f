package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: eventaide-test\n")

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "eventaide-test", cfg.App.Name)
	assert.Equal(t, "https://app.ticketmaster.com", cfg.Ticketmaster.BaseURL)
	assert.Equal(t, 200, cfg.Ticketmaster.PageSize)
	assert.Equal(t, "US", cfg.Ticketmaster.CountryCode)
	assert.Equal(t, "llama3.2:latest", cfg.CityResolver.Model)
	assert.Equal(t, 10, cfg.Dialogue.TopN)
	assert.Equal(t, "Rolla", cfg.MCP.DefaultCity)
	assert.Equal(t, "MO", cfg.MCP.DefaultStateCode)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("EVENTAIDE_TEST_TM_KEY", "secret-key")
	path := writeConfig(t, "ticketmaster:\n  api_key: ${EVENTAIDE_TEST_TM_KEY}\n")

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Ticketmaster.APIKey)
}

func TestLoadFromFile_UnsetPlaceholderIsBlanked(t *testing.T) {
	t.Setenv("TICKETMASTER_API_KEY", "")
	path := writeConfig(t, "ticketmaster:\n  api_key: ${EVENTAIDE_TEST_UNSET_KEY}\n")

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Empty(t, cfg.Ticketmaster.APIKey)
}

func TestLoadFromFile_UnsetPlaceholderFallsBackToEnv(t *testing.T) {
	t.Setenv("TICKETMASTER_API_KEY", "from-env")
	path := writeConfig(t, "ticketmaster:\n  api_key: ${EVENTAIDE_TEST_UNSET_KEY}\n")

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Ticketmaster.APIKey)
}

func TestLoadFromFile_KeepsBareDollarValues(t *testing.T) {
	path := writeConfig(t, "cache:\n  password: $EVENTAIDE_TEST_UNSET_PW\n")

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "$EVENTAIDE_TEST_UNSET_PW", cfg.Cache.Password)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("DIALOGUE_TOP_N", "5")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434/")
	t.Setenv("DEFAULT_CITY", "Chicago")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	path := writeConfig(t, "dialogue:\n  top_n: 10\n")

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Dialogue.TopN)
	assert.Equal(t, "http://ollama:11434/v1", cfg.CityResolver.BaseURL)
	assert.Equal(t, "Chicago", cfg.MCP.DefaultCity)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.Address)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"page size too large", "ticketmaster:\n  page_size: 500\n"},
		{"top n zero", "dialogue:\n  top_n: 0\n"},
		{"tracing without endpoint", "tracing:\n  enabled: true\n  collector_endpoint: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDurations(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, 10*time.Minute, GetTTL(600))
}
