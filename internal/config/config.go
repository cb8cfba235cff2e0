// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// DataDir is the directory holding audio artifacts, job sentinels and results.
	DataDir string
	// SessionDir is the directory holding pending challenge sessions.
	SessionDir string
	// DevicesFile is the path to the JSON device registry.
	DevicesFile string

	// TokenSigningKey is the symmetric key used to sign and verify bearer tokens.
	TokenSigningKey string
	// TokenRelatedTo is the audience-subject (sub claim) bound into every token.
	TokenRelatedTo string
	// TokenIssuedBy is the issuer (iss claim) bound into every token.
	TokenIssuedBy string

	// SampleRate is the PCM sample rate assumed for raw uploads and synthesis.
	SampleRate int

	// WorkerInterval is the job processor poll interval. Values below three
	// seconds are raised to three seconds to bound load on the external pipeline.
	WorkerInterval time.Duration
	// WorkerConcurrency is the number of jobs processed in parallel per iteration.
	WorkerConcurrency int
	// WorkerJobTimeout is the per-job deadline for the external pipeline call.
	WorkerJobTimeout time.Duration
	// WorkerRetryInterval is the pause before the single retry of a failed job.
	WorkerRetryInterval time.Duration

	// ChatURL is the endpoint of the external transcription/response service.
	ChatURL string
	// ChatKey is the bearer key for the chat service.
	ChatKey string
	// ChatModel is the model identifier sent to the chat service.
	ChatModel string

	// TTSURL is the endpoint of the external text-to-speech service.
	TTSURL string
	// TTSKey is the API key for the text-to-speech service.
	TTSKey string
	// TTSVoices is a comma-separated list of voice identifiers.
	TTSVoices string
	// TTSVoiceIndex selects the voice from TTSVoices.
	TTSVoiceIndex int

	// FFmpegBinary is the ffmpeg executable used to normalize synthesized
	// audio that is not already mono 16-bit PCM. Empty disables conversion.
	FFmpegBinary string

	// RateLimitEnabled indicates whether handshake rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of handshake requests allowed per second per client.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for handshake rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// minWorkerInterval bounds the poll frequency toward the external pipeline.
const minWorkerInterval = 3 * time.Second

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	cfg := &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Storage
		DataDir:     env.GetString("DATA_DIR", "./data/audio"),
		SessionDir:  env.GetString("SESSION_DIR", "./data/sessions"),
		DevicesFile: env.GetString("DEVICES_FILE", "./data/devices.json"),

		// Bearer tokens
		TokenSigningKey: env.GetString("TOKEN_SIGNING_KEY", ""),
		TokenRelatedTo:  env.GetString("TOKEN_RELATED_TO", "platansense"),
		TokenIssuedBy:   env.GetString("TOKEN_ISSUED_BY", "https://platansense.example"),

		// Audio
		SampleRate: env.GetInt("SAMPLE_RATE", 8000),

		// Job processor
		WorkerInterval:      env.GetDuration("WORKER_INTERVAL_SECONDS", 5, time.Second),
		WorkerConcurrency:   env.GetInt("WORKER_CONCURRENCY", 2),
		WorkerJobTimeout:    env.GetDuration("WORKER_JOB_TIMEOUT_SECONDS", 120, time.Second),
		WorkerRetryInterval: env.GetDuration("WORKER_RETRY_INTERVAL_SECONDS", 2, time.Second),

		// External chat service
		ChatURL:   env.GetString("CHAT_URL", ""),
		ChatKey:   env.GetString("CHAT_KEY", ""),
		ChatModel: env.GetString("CHAT_MODEL", "voxtral-mini-latest"),

		// External text-to-speech service
		TTSURL:        env.GetString("TTS_URL", ""),
		TTSKey:        env.GetString("TTS_KEY", ""),
		TTSVoices:     env.GetString("TTS_VOICES", ""),
		TTSVoiceIndex: env.GetInt("TTS_VOICE_INDEX", 0),

		// Audio normalization fallback
		FFmpegBinary: env.GetString("FFMPEG_BINARY", "ffmpeg"),

		// Rate Limiting (handshake endpoint, IP-based)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "platansense"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}

	if cfg.WorkerInterval < minWorkerInterval {
		cfg.WorkerInterval = minWorkerInterval
	}

	return cfg
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
