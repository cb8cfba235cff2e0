// Package usecase implements the upload gateway: accepting a bounded audio
// blob under a validated bearer token, persisting it and enqueueing the
// processing job.
package usecase

import (
	"context"
)

// Format hints accepted from devices. The default is ADPCM, stored as-is.
// A "wav" hint marks raw PCM that the gateway wraps in a WAV container
// before storage; the sensor firmware cannot afford to build the header.
const (
	FormatHintADPCM = "adpcm"
	FormatHintWAV   = "wav"
)

// UploadUseCase defines the upload operations.
type UploadUseCase interface {
	// Submit decodes and persists an uploaded audio payload for the given
	// validated identity and enqueues the job. It returns the new job ID.
	// Undecodable base64 fails with ErrInvalidInput; an oversized payload
	// fails with ErrUnauthorized so a device cannot exhaust storage.
	Submit(ctx context.Context, identity, payloadBase64, formatHint string) (string, error)
}
