package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8420", cfg.Addr)
	assert.True(t, cfg.Mirror)
	assert.Equal(t, 5, cfg.IdleFPS)
	assert.Equal(t, 15, cfg.ActiveFPS)
	assert.Equal(t, 2*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 5, cfg.ConfirmCapacity)
	assert.Equal(t, 3, cfg.ConfirmThreshold)
	assert.Equal(t, "cyberpuppet", cfg.MQTT.TopicPrefix)
	assert.Empty(t, cfg.MQTT.Broker)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "plugins"), cfg.PluginDir)
}

func TestParse_Overrides(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Parse(map[string]string{
		"CYBERPUPPET_ADDR":               ":9000",
		"CYBERPUPPET_MIRROR":             "false",
		"CYBERPUPPET_DATA_DIR":           dir,
		"CYBERPUPPET_MQTT_BROKER":        "tcp://localhost:1883",
		"CYBERPUPPET_MQTT_POSE_INTERVAL": "250ms",
		"CYBERPUPPET_SOUND":              "false",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.False(t, cfg.Mirror)
	assert.False(t, cfg.Sound)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, 250*time.Millisecond, cfg.MQTT.PoseInterval)
	assert.Equal(t, filepath.Join(dir, "cyberpuppet.db"), cfg.DatabasePath())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad int", map[string]string{"CYBERPUPPET_IDLE_FPS": "fast"}},
		{"zero fps", map[string]string{"CYBERPUPPET_RENDER_FPS": "0"}},
		{"threshold above capacity", map[string]string{"CYBERPUPPET_CONFIRM_THRESHOLD": "6"}},
		{"negative motion", map[string]string{"CYBERPUPPET_MOTION_THRESHOLD": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.env)
			assert.Error(t, err)
		})
	}
}
