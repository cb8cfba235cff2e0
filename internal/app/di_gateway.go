package app

import (
	"go.opentelemetry.io/otel/metric"

	downloadHTTP "github.com/digital-codes/platansense/internal/download/http"
	downloadUseCase "github.com/digital-codes/platansense/internal/download/usecase"
	"github.com/digital-codes/platansense/internal/http"
	uploadHTTP "github.com/digital-codes/platansense/internal/upload/http"
	uploadUseCase "github.com/digital-codes/platansense/internal/upload/usecase"
)

// UploadUseCase returns the upload use case with metrics instrumentation.
func (c *Container) UploadUseCase() (uploadUseCase.UploadUseCase, error) {
	var err error
	c.uploadUCInit.Do(func() {
		store, storeErr := c.ArtifactStore()
		if storeErr != nil {
			c.initErrors["uploadUseCase"] = storeErr
			return
		}
		businessMetrics, metricsErr := c.BusinessMetrics()
		if metricsErr != nil {
			c.initErrors["uploadUseCase"] = metricsErr
			return
		}

		uc := uploadUseCase.NewUploadUseCase(store, c.config.SampleRate, c.Logger())
		c.uploadUC = uploadUseCase.NewUploadUseCaseWithMetrics(uc, businessMetrics)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["uploadUseCase"]; exists {
		return nil, storedErr
	}
	return c.uploadUC, nil
}

// DownloadUseCase returns the download use case with metrics instrumentation.
func (c *Container) DownloadUseCase() (downloadUseCase.DownloadUseCase, error) {
	var err error
	c.downloadUCInit.Do(func() {
		store, storeErr := c.ArtifactStore()
		if storeErr != nil {
			c.initErrors["downloadUseCase"] = storeErr
			return
		}
		businessMetrics, metricsErr := c.BusinessMetrics()
		if metricsErr != nil {
			c.initErrors["downloadUseCase"] = metricsErr
			return
		}

		uc := downloadUseCase.NewDownloadUseCase(store, c.Logger())
		c.downloadUC = downloadUseCase.NewDownloadUseCaseWithMetrics(uc, businessMetrics)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["downloadUseCase"]; exists {
		return nil, storedErr
	}
	return c.downloadUC, nil
}

// HTTPServer returns the API server with all routes wired.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	authUC, err := c.AuthUseCase()
	if err != nil {
		return nil, err
	}
	uploadUC, err := c.UploadUseCase()
	if err != nil {
		return nil, err
	}
	downloadUC, err := c.DownloadUseCase()
	if err != nil {
		return nil, err
	}

	uploadHandler := uploadHTTP.NewUploadHandler(authUC, uploadUC, c.TokenService(), c.Logger())
	downloadHandler := downloadHTTP.NewDownloadHandler(downloadUC, c.TokenService(), c.Logger())

	var meterProvider metric.MeterProvider
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		meterProvider = provider.MeterProvider()
	}

	router := http.NewRouter(
		http.RouterConfig{
			GinMode:                 c.config.GetGinMode(),
			RateLimitEnabled:        c.config.RateLimitEnabled,
			RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
			RateLimitBurst:          c.config.RateLimitBurst,
			CORSEnabled:             c.config.CORSEnabled,
			CORSAllowOrigins:        c.config.CORSAllowOrigins,
			MetricsEnabled:          c.config.MetricsEnabled,
			MetricsNamespace:        c.config.MetricsNamespace,
		},
		uploadHandler,
		downloadHandler,
		meterProvider,
		c.Logger(),
	)

	return http.NewServer(c.config.ServerHost, c.config.ServerPort, router, c.Logger()), nil
}

// MetricsServer returns the Prometheus exposition server, or nil when
// metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		provider, providerErr := c.MetricsProvider()
		if providerErr != nil {
			c.initErrors["metricsServer"] = providerErr
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}
