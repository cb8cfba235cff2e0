// Package domain defines the core models for audio artifacts, job sentinels
// and result records. A job is one upload-to-result lifecycle identified by a
// single opaque ID from submission through pickup.
package domain

import (
	"github.com/digital-codes/platansense/internal/errors"
)

// Audio format tags for stored artifacts.
const (
	// FormatADPCM marks IMA ADPCM compressed audio, the sensor's native format.
	FormatADPCM = "adpcm"
	// FormatWAV marks mono 16-bit PCM in a RIFF/WAVE container.
	FormatWAV = "wav"
)

const (
	// MaxUploadBytes is the upper bound for a decoded upload payload. Uploads
	// above this size are rejected as unauthorized, not merely invalid:
	// a device must not be able to exhaust storage.
	MaxUploadBytes = 512 * 1024

	// ChunkSize is the fixed download chunk size. Check and Fetch must agree
	// on it so a client can compute the chunk count once and loop.
	ChunkSize = 4096
)

// Artifact represents an uploaded audio blob. Immutable once written.
type Artifact struct {
	// JobID is the opaque, globally unique job identifier.
	JobID string
	// Data is the raw audio payload.
	Data []byte
	// Format is the audio format tag (FormatADPCM or FormatWAV).
	Format string
}

// ResultRecord holds the outcome of the external pipeline for one job.
// Created exactly once on success; never mutated afterward.
type ResultRecord struct {
	// JobID is the job this result belongs to.
	JobID string `json:"job_id"`
	// Transcript is the recognized text of the uploaded audio.
	Transcript string `json:"transcript"`
	// Reply is the generated response text that was synthesized.
	Reply string `json:"reply"`
	// Status is the terminal pipeline status ("ok").
	Status string `json:"status"`
}

// Artifact-specific error definitions.
var (
	// ErrArtifactNotFound indicates no artifact exists for the job ID.
	ErrArtifactNotFound = errors.Wrap(errors.ErrNotFound, "artifact not found")

	// ErrSentinelExists indicates the job sentinel was already created.
	// Sentinel creation uses exclusive-create semantics; exactly one caller
	// can observe success for a given job ID.
	ErrSentinelExists = errors.Wrap(errors.ErrConflict, "sentinel already exists")

	// ErrResultNotFound indicates no result record exists for the job ID.
	ErrResultNotFound = errors.Wrap(errors.ErrNotFound, "result not found")
)

// ChunkCount returns the number of fixed-size chunks needed for size bytes.
func ChunkCount(size int64) int {
	return int((size + ChunkSize - 1) / ChunkSize)
}
