package eventaggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, (&Config{MaxEvents: 1, StateCode: "MO"}).Validate())
	assert.Error(t, (&Config{MaxEvents: 0}).Validate())
	assert.Error(t, (&Config{MaxEvents: -3}).Validate())
}
