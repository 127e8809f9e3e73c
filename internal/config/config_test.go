package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URI", "postgres://localhost/organizer")
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/organizer", cfg.DatabaseURI)
	assert.Equal(t, "hybrid", cfg.ClassifierMode)
	assert.InDelta(t, 0.6, cfg.ConfidenceFloor, 1e-9)
	assert.InDelta(t, 0.8, cfg.EmergencyThreshold, 1e-9)
	assert.Equal(t, "911", cfg.EmergencyNumber)
	assert.Equal(t, 30, cfg.AgendaLeadMinutes)
	assert.False(t, cfg.DailyLeadApplies)
	assert.Equal(t, 10*time.Second, cfg.AITimeout)
	assert.Equal(t, time.Minute, cfg.SchedulerInterval)
	assert.Equal(t, "America/Mexico_City", cfg.Location().String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CLASSIFIER_MODE", "remote")
	t.Setenv("CONFIDENCE_FLOOR", "0.5")
	t.Setenv("AI_TIMEOUT", "3s")
	t.Setenv("AI_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "remote", cfg.ClassifierMode)
	assert.InDelta(t, 0.5, cfg.ConfidenceFloor, 1e-9)
	assert.Equal(t, 3*time.Second, cfg.AITimeout)
	assert.True(t, cfg.RemoteEnabled())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"mode":      {"CLASSIFIER_MODE": "magic"},
		"floor":     {"CONFIDENCE_FLOOR": "1.5"},
		"emergency": {"EMERGENCY_THRESHOLD": "-0.1"},
		"lead":      {"AGENDA_LEAD_MINUTES": "-5"},
		"timezone":  {"TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRemoteEnabled(t *testing.T) {
	cfg := &Config{ClassifierMode: "local", AIAPIKey: "k"}
	assert.False(t, cfg.RemoteEnabled())

	cfg = &Config{ClassifierMode: "hybrid"}
	assert.False(t, cfg.RemoteEnabled())

	cfg = &Config{ClassifierMode: "hybrid", AIAPIKey: "k"}
	assert.True(t, cfg.RemoteEnabled())
}
