package usecase

import (
	"context"
	"time"

	"github.com/digital-codes/platansense/internal/metrics"
)

// downloadUseCaseWithMetrics decorates DownloadUseCase with metrics instrumentation.
type downloadUseCaseWithMetrics struct {
	next    DownloadUseCase
	metrics metrics.BusinessMetrics
}

// NewDownloadUseCaseWithMetrics wraps a DownloadUseCase with metrics recording.
func NewDownloadUseCaseWithMetrics(useCase DownloadUseCase, m metrics.BusinessMetrics) DownloadUseCase {
	return &downloadUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Check records metrics for readiness checks.
func (d *downloadUseCaseWithMetrics) Check(ctx context.Context, jobID string) (*CheckOutput, error) {
	start := time.Now()
	out, err := d.next.Check(ctx, jobID)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "download", "check", status)
	d.metrics.RecordDuration(ctx, "download", "check", time.Since(start), status)

	return out, err
}

// Fetch records metrics for chunk retrievals.
func (d *downloadUseCaseWithMetrics) Fetch(
	ctx context.Context,
	jobID string,
	chunkIndex int,
) (*FetchOutput, error) {
	start := time.Now()
	out, err := d.next.Fetch(ctx, jobID, chunkIndex)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "download", "fetch", status)
	d.metrics.RecordDuration(ctx, "download", "fetch", time.Since(start), status)

	return out, err
}
