// Package usecase implements the device authentication handshake: the
// join/challenge/response flow that proves possession of a pre-shared key
// without transmitting it, and ends in a bearer token.
package usecase

import (
	"context"

	"github.com/digital-codes/platansense/internal/auth/domain"
)

// SessionRepository persists single-use challenge sessions.
type SessionRepository interface {
	Save(ctx context.Context, session *domain.ChallengeSession) error
	Get(ctx context.Context, deviceID, sessionID string) (*domain.ChallengeSession, error)
	Delete(ctx context.Context, deviceID, sessionID string) error
}

// JoinOutput is what a device needs to compute its challenge proof.
type JoinOutput struct {
	// SessionID is the handle the device must present with its proof.
	SessionID string
	// Challenge is the hex-encoded nonce to transform.
	Challenge string
	// IV is the hex-encoded initialization vector for the transform.
	IV string
}

// AuthUseCase defines the handshake operations.
type AuthUseCase interface {
	// Join starts a handshake for a registered device and returns the
	// challenge material. Unknown devices fail with ErrUnauthorized.
	Join(ctx context.Context, deviceID string) (*JoinOutput, error)

	// Respond verifies the device's proof for an open session and issues a
	// bearer token. The session is consumed whether verification succeeds or
	// fails; replaying an old (session, proof) pair always fails.
	Respond(ctx context.Context, deviceID, sessionID, proof string) (string, error)
}
