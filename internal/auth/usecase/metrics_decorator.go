package usecase

import (
	"context"
	"time"

	"github.com/digital-codes/platansense/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Join records metrics for handshake starts.
func (a *authUseCaseWithMetrics) Join(ctx context.Context, deviceID string) (*JoinOutput, error) {
	start := time.Now()
	out, err := a.next.Join(ctx, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "join", status)
	a.metrics.RecordDuration(ctx, "auth", "join", time.Since(start), status)

	return out, err
}

// Respond records metrics for proof verifications.
func (a *authUseCaseWithMetrics) Respond(
	ctx context.Context,
	deviceID, sessionID, proof string,
) (string, error) {
	start := time.Now()
	token, err := a.next.Respond(ctx, deviceID, sessionID, proof)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "respond", status)
	a.metrics.RecordDuration(ctx, "auth", "respond", time.Since(start), status)

	return token, err
}
