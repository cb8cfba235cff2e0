package usecase

import (
	"context"
	"log/slog"

	"github.com/digital-codes/platansense/internal/artifact/domain"
	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// ResultReader is the slice of the artifact store the download gateway needs.
type ResultReader interface {
	SentinelExists(ctx context.Context, jobID string) (bool, error)
	ClearSentinel(ctx context.Context, jobID string) error
	ResultExists(ctx context.Context, jobID string) (bool, error)
	ResultSize(ctx context.Context, jobID string) (int64, error)
	ReadResultChunk(ctx context.Context, jobID string, index, chunkSize int) ([]byte, error)
}

// downloadUseCase implements DownloadUseCase.
type downloadUseCase struct {
	store  ResultReader
	logger *slog.Logger
}

// NewDownloadUseCase creates the download use case.
func NewDownloadUseCase(store ResultReader, logger *slog.Logger) DownloadUseCase {
	return &downloadUseCase{
		store:  store,
		logger: logger,
	}
}

// Check claims a finished job. The readiness signal is the existence of the
// result audio, which the processor writes only after a fully successful
// pipeline call, so a ready job is always complete.
func (uc *downloadUseCase) Check(ctx context.Context, jobID string) (*CheckOutput, error) {
	ready, err := uc.store.ResultExists(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !ready {
		pending, err := uc.store.SentinelExists(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if pending {
			return nil, apperrors.Wrapf(apperrors.ErrNotReady, "job %s still pending", jobID)
		}
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "unknown job %s", jobID)
	}

	// First successful Check consumes the claim; clearing again is a no-op.
	if err := uc.store.ClearSentinel(ctx, jobID); err != nil {
		return nil, err
	}

	size, err := uc.store.ResultSize(ctx, jobID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("result claimed",
		slog.String("job_id", jobID),
		slog.Int64("size_bytes", size),
	)

	return &CheckOutput{
		Size:   size,
		Chunks: domain.ChunkCount(size),
	}, nil
}

// Fetch returns one chunk. The chunk count is recomputed from the current
// artifact size so Check and Fetch always agree on the numbering.
func (uc *downloadUseCase) Fetch(
	ctx context.Context,
	jobID string,
	chunkIndex int,
) (*FetchOutput, error) {
	size, err := uc.store.ResultSize(ctx, jobID)
	if err != nil {
		return nil, err
	}
	chunks := domain.ChunkCount(size)

	if chunkIndex < 0 || chunkIndex >= chunks {
		return &FetchOutput{
			Data:   []byte{},
			Length: 0,
			Chunks: chunks,
		}, nil
	}

	data, err := uc.store.ReadResultChunk(ctx, jobID, chunkIndex, domain.ChunkSize)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{
		Data:   data,
		Length: len(data),
		Chunks: chunks,
	}, nil
}
