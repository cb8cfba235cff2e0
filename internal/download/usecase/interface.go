// Package usecase implements the download gateway: the readiness check that
// claims a finished job and the chunked retrieval of its result audio.
package usecase

import (
	"context"
)

// CheckOutput tells a device how much result audio is waiting for pickup.
type CheckOutput struct {
	// Size is the total size of the result audio in bytes.
	Size int64
	// Chunks is the number of fixed-size chunks the device must fetch.
	Chunks int
}

// FetchOutput is one chunk of result audio.
type FetchOutput struct {
	// Data is the raw chunk payload. Empty for an out-of-range index.
	Data []byte
	// Length is len(Data); zero signals end of stream to the device.
	Length int
	// Chunks is the current total chunk count.
	Chunks int
}

// DownloadUseCase defines the download operations.
type DownloadUseCase interface {
	// Check reports whether the result for jobID is ready. A pending job
	// fails with ErrNotReady so the device retries later; a job with neither
	// sentinel nor result fails with ErrNotFound. The first successful Check
	// clears the job sentinel; repeating the Check is a no-op on the sentinel.
	Check(ctx context.Context, jobID string) (*CheckOutput, error)

	// Fetch returns one chunk of the result audio. An index outside
	// [0, chunks) yields a zero-length payload with the current chunk count;
	// that is the end-of-stream signal, not an error.
	Fetch(ctx context.Context, jobID string, chunkIndex int) (*FetchOutput, error)
}
