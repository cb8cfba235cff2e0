package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/digital-codes/platansense/internal/artifact/domain"
	"github.com/digital-codes/platansense/internal/audio/wav"
	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// ArtifactWriter is the slice of the artifact store the upload gateway needs.
type ArtifactWriter interface {
	SaveArtifact(ctx context.Context, artifact *domain.Artifact) error
	CreateSentinel(ctx context.Context, jobID string) error
}

// uploadUseCase implements UploadUseCase.
type uploadUseCase struct {
	store      ArtifactWriter
	sampleRate int
	logger     *slog.Logger
}

// NewUploadUseCase creates the upload use case. sampleRate is used when
// wrapping raw PCM uploads in a WAV container.
func NewUploadUseCase(store ArtifactWriter, sampleRate int, logger *slog.Logger) UploadUseCase {
	return &uploadUseCase{
		store:      store,
		sampleRate: sampleRate,
		logger:     logger,
	}
}

// Submit persists the payload and creates the job sentinel. The identity
// comes from the validated token, never from a client-supplied field, so the
// job ID is bound to the device that actually authenticated.
func (uc *uploadUseCase) Submit(
	ctx context.Context,
	identity, payloadBase64, formatHint string,
) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(payloadBase64)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "payload is not valid base64")
	}

	// Oversized payloads are a security rejection, not a validation error:
	// a device must not be able to exhaust storage.
	if len(payload) > domain.MaxUploadBytes {
		return "", apperrors.Wrapf(
			apperrors.ErrUnauthorized, "payload exceeds %d bytes", domain.MaxUploadBytes)
	}

	format := domain.FormatADPCM
	if formatHint == FormatHintWAV {
		payload = wav.FromPCM(payload, uc.sampleRate)
		format = domain.FormatWAV
	}

	jobID := fmt.Sprintf("%s_%s", identity, uuid.Must(uuid.NewV7()).String())

	artifact := &domain.Artifact{
		JobID:  jobID,
		Data:   payload,
		Format: format,
	}
	if err := uc.store.SaveArtifact(ctx, artifact); err != nil {
		return "", err
	}

	// Job IDs are unique by construction; a sentinel collision means the
	// invariant is broken and must surface as an internal error.
	if err := uc.store.CreateSentinel(ctx, jobID); err != nil {
		return "", apperrors.Wrapf(err, "sentinel collision for job %s", jobID)
	}

	uc.logger.Info("upload accepted",
		slog.String("job_id", jobID),
		slog.String("format", format),
		slog.Int("size_bytes", len(payload)),
	)

	return jobID, nil
}
