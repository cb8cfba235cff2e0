package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.SampleRate)
	assert.Equal(t, "platansense", cfg.TokenRelatedTo)
	assert.Equal(t, 5*time.Second, cfg.WorkerInterval)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadClampsWorkerInterval(t *testing.T) {
	t.Setenv("WORKER_INTERVAL_SECONDS", "1")

	cfg := Load()

	assert.Equal(t, 3*time.Second, cfg.WorkerInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SAMPLE_RATE", "16000")
	t.Setenv("TOKEN_SIGNING_KEY", "super-secret")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 16000, cfg.SampleRate)
	assert.Equal(t, "super-secret", cfg.TokenSigningKey)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
