// Package service provides the cryptographic building blocks of the device
// handshake: bearer token signing/validation and the challenge transform.
package service

import (
	"github.com/digital-codes/platansense/internal/auth/domain"
)

// TokenService builds and validates signed bearer tokens.
type TokenService interface {
	// Issue creates a signed token bound to the given namespaced identity.
	// The token is usable one second after issuance and expires after ten
	// minutes.
	Issue(identifiedBy string) (string, error)

	// Validate checks signature, issuer, audience-subject, bound identity and
	// validity window (with leeway) in one step. It returns the identity
	// recovered from the token; callers must never trust claims extracted any
	// other way. Every failure collapses into ErrUnauthorized.
	Validate(tokenString, identifiedBy string) (*domain.TokenIdentity, error)
}

// ChallengeService computes and verifies challenge proofs.
type ChallengeService interface {
	// Transform applies the proof-of-possession transform to the nonce:
	// AES-128-CBC without padding, keyed with the device's pre-shared key.
	Transform(nonce, key, iv []byte) ([]byte, error)

	// Verify compares a submitted proof against the expected transform in
	// constant time.
	Verify(proof, expected []byte) bool
}
