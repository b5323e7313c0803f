package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"eventaide/internal/common/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordsTurns(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := New("eventaide-test", config.TracingConfig{}, reg)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	ctx := context.Background()
	obs.RecordTurn(ctx, "city", "ok", 120*time.Millisecond)
	obs.RecordTurn(ctx, "interests", "error", 40*time.Millisecond)
	obs.RecordToolCall(ctx, "get_music_events", false)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.True(t, hasPrefix(names, "dialogue_turns"), "gathered: %v", names)
	assert.True(t, hasPrefix(names, "dialogue_turn_duration"), "gathered: %v", names)
	assert.True(t, hasPrefix(names, "mcp_tool_calls"), "gathered: %v", names)
	for _, n := range names {
		assert.NotContains(t, n, ".", "metric names must scrape without escaping")
	}
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestObservability_Shutdown(t *testing.T) {
	obs, err := New("eventaide-test", config.TracingConfig{}, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.NoError(t, obs.Shutdown(context.Background()))
}
