// Package app provides the dependency injection container assembling the
// gateway and the job processor.
package app

import (
	"context"
	"log/slog"
	"os"
	"sync"

	artifactRepository "github.com/digital-codes/platansense/internal/artifact/repository"
	authService "github.com/digital-codes/platansense/internal/auth/service"
	authUseCase "github.com/digital-codes/platansense/internal/auth/usecase"
	"github.com/digital-codes/platansense/internal/config"
	downloadUseCase "github.com/digital-codes/platansense/internal/download/usecase"
	"github.com/digital-codes/platansense/internal/http"
	"github.com/digital-codes/platansense/internal/metrics"
	pipelineService "github.com/digital-codes/platansense/internal/pipeline/service"
	pipelineUseCase "github.com/digital-codes/platansense/internal/pipeline/usecase"
	"github.com/digital-codes/platansense/internal/registry"
	uploadUseCase "github.com/digital-codes/platansense/internal/upload/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created
// on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	devices         *registry.Snapshot

	// Repositories
	artifactStore *artifactRepository.FilesystemStore
	sessionRepo   authUseCase.SessionRepository

	// Services
	tokenService     authService.TokenService
	challengeService authService.ChallengeService
	chatClient       pipelineService.ChatClient
	speechClient     pipelineService.SpeechClient

	// Use Cases
	authUC     authUseCase.AuthUseCase
	uploadUC   uploadUseCase.UploadUseCase
	downloadUC downloadUseCase.DownloadUseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	processor     *pipelineUseCase.Processor

	// Initialization guards
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	devicesInit         sync.Once
	artifactStoreInit   sync.Once
	sessionRepoInit     sync.Once
	tokenServiceInit    sync.Once
	challengeInit       sync.Once
	chatClientInit      sync.Once
	speechClientInit    sync.Once
	authUCInit          sync.Once
	uploadUCInit        sync.Once
	downloadUCInit      sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	processorInit       sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A disabled metrics
// stack yields a no-op recorder so callers never branch.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		provider, providerErr := c.MetricsProvider()
		if providerErr != nil {
			c.initErrors["businessMetrics"] = providerErr
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(
			provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// DeviceRegistry returns the immutable device registry snapshot.
func (c *Container) DeviceRegistry() (*registry.Snapshot, error) {
	var err error
	c.devicesInit.Do(func() {
		c.devices, err = registry.Load(c.config.DevicesFile)
		if err != nil {
			c.initErrors["devices"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["devices"]; exists {
		return nil, storedErr
	}
	return c.devices, nil
}

// ArtifactStore returns the filesystem artifact store.
func (c *Container) ArtifactStore() (*artifactRepository.FilesystemStore, error) {
	var err error
	c.artifactStoreInit.Do(func() {
		c.artifactStore, err = artifactRepository.NewFilesystemStore(c.config.DataDir)
		if err != nil {
			c.initErrors["artifactStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["artifactStore"]; exists {
		return nil, storedErr
	}
	return c.artifactStore, nil
}

// Shutdown releases container-held resources. Safe to call when components
// were never initialized.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.metricsProvider != nil {
		return c.metricsProvider.Shutdown(ctx)
	}
	return nil
}

// initLogger builds the JSON logger from the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
