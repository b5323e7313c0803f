package dialogue

import (
	"testing"
	"time"

	"eventaide/internal/common/config"

	"github.com/stretchr/testify/assert"
)

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.DialogueConfig{TopN: 5, StateCode: "NY", TurnTimeout: 3000})

	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "NY", cfg.StateCode)
	assert.Equal(t, 3*time.Second, cfg.TurnTimeout)
	assert.NoError(t, cfg.Validate())

	defaults := FromAppConfig(config.DialogueConfig{})
	assert.Equal(t, 10, defaults.TopN)
	assert.Equal(t, 45*time.Second, defaults.TurnTimeout)
	assert.NoError(t, defaults.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero top n", Config{TopN: 0, TurnTimeout: time.Second}},
		{"negative top n", Config{TopN: -1, TurnTimeout: time.Second}},
		{"zero turn timeout", Config{TopN: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}
