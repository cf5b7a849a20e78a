package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaultConfigEmbedsValidYAML(t *testing.T) {
	data := getDefaultConfig()
	assert.Contains(t, data, "tonequeue:")
	assert.Contains(t, data, "capacity: 64")
}

func TestStructToMapRoundTripsToneQueueSettings(t *testing.T) {
	settings := validSettings()
	m, err := structToMap(settings)
	assert.NoError(t, err)

	tonequeue, ok := m["tonequeue"].(map[string]any)
	if assert.True(t, ok, "expected tonequeue key in map") {
		assert.EqualValues(t, settings.ToneQueue.Capacity, tonequeue["capacity"])
	}
}
