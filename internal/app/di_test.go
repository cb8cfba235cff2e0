package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-codes/platansense/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	devicesFile := filepath.Join(dir, "devices.json")
	require.NoError(t, os.WriteFile(
		devicesFile, []byte(`{"7": "30313233343536373839616263646566"}`), 0o600))

	return &config.Config{
		ServerHost:          "127.0.0.1",
		ServerPort:          0,
		LogLevel:            "error",
		DataDir:             filepath.Join(dir, "audio"),
		SessionDir:          filepath.Join(dir, "sessions"),
		DevicesFile:         devicesFile,
		TokenSigningKey:     "test-signing-key",
		TokenRelatedTo:      "platanus",
		TokenIssuedBy:       "https://gateway.example.com",
		SampleRate:          8000,
		WorkerInterval:      3 * time.Second,
		WorkerConcurrency:   1,
		WorkerJobTimeout:    time.Second,
		WorkerRetryInterval: time.Second,
		ChatURL:             "http://chat.example.com",
		ChatModel:           "voxtral-mini-latest",
		TTSURL:              "http://tts.example.com",
		TTSVoices:           "Josephine,Matthias",
		TTSVoiceIndex:       1,
		MetricsEnabled:      false,
	}
}

func TestContainer(t *testing.T) {
	t.Run("lazy components are singletons", func(t *testing.T) {
		container := NewContainer(testConfig(t))

		assert.Same(t, container.Logger(), container.Logger())
		assert.Same(t, container.TokenService(), container.TokenService())

		first, err := container.ArtifactStore()
		require.NoError(t, err)
		second, err := container.ArtifactStore()
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("builds the full http server", func(t *testing.T) {
		container := NewContainer(testConfig(t))

		server, err := container.HTTPServer()
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("builds the processor", func(t *testing.T) {
		container := NewContainer(testConfig(t))

		processor, err := container.Processor()
		require.NoError(t, err)
		assert.NotNil(t, processor)
	})

	t.Run("disabled metrics yield no metrics server", func(t *testing.T) {
		container := NewContainer(testConfig(t))

		server, err := container.MetricsServer()
		require.NoError(t, err)
		assert.Nil(t, server)
	})

	t.Run("missing devices file surfaces on first access and sticks", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.DevicesFile = filepath.Join(t.TempDir(), "missing.json")
		container := NewContainer(cfg)

		_, err := container.DeviceRegistry()
		require.Error(t, err)

		_, err = container.DeviceRegistry()
		assert.Error(t, err)
	})

	t.Run("missing chat url fails processor construction", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.ChatURL = ""
		container := NewContainer(cfg)

		_, err := container.Processor()
		assert.Error(t, err)
	})
}

func TestSelectVoice(t *testing.T) {
	voice, err := selectVoice("Josephine, Matthias", 1)
	require.NoError(t, err)
	assert.Equal(t, "Matthias", voice)

	_, err = selectVoice("", 0)
	assert.Error(t, err)

	_, err = selectVoice("Josephine", 3)
	assert.Error(t, err)
}
