package usecase

import (
	"context"
	"time"

	"github.com/digital-codes/platansense/internal/metrics"
)

// uploadUseCaseWithMetrics decorates UploadUseCase with metrics instrumentation.
type uploadUseCaseWithMetrics struct {
	next    UploadUseCase
	metrics metrics.BusinessMetrics
}

// NewUploadUseCaseWithMetrics wraps an UploadUseCase with metrics recording.
func NewUploadUseCaseWithMetrics(useCase UploadUseCase, m metrics.BusinessMetrics) UploadUseCase {
	return &uploadUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Submit records metrics for upload submissions.
func (u *uploadUseCaseWithMetrics) Submit(
	ctx context.Context,
	identity, payloadBase64, formatHint string,
) (string, error) {
	start := time.Now()
	jobID, err := u.next.Submit(ctx, identity, payloadBase64, formatHint)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "upload", "submit", status)
	u.metrics.RecordDuration(ctx, "upload", "submit", time.Since(start), status)

	return jobID, err
}
