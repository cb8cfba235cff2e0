package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/digital-codes/platansense/internal/auth/domain"
	"github.com/digital-codes/platansense/internal/auth/service"
	apperrors "github.com/digital-codes/platansense/internal/errors"
	"github.com/digital-codes/platansense/internal/registry"
)

const (
	nonceBytes   = 16
	ivBytes      = 16
	sessionBytes = 8
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	devices      *registry.Snapshot
	sessionRepo  SessionRepository
	tokenService service.TokenService
	challenge    service.ChallengeService
	logger       *slog.Logger
	now          func() time.Time
}

// NewAuthUseCase creates the handshake use case.
func NewAuthUseCase(
	devices *registry.Snapshot,
	sessionRepo SessionRepository,
	tokenService service.TokenService,
	challengeService service.ChallengeService,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		devices:      devices,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		challenge:    challengeService,
		logger:       logger,
		now:          time.Now,
	}
}

// Join looks up the device, draws fresh random challenge material and
// persists a single-use session. Nonces are never reused across sessions.
func (uc *authUseCase) Join(ctx context.Context, deviceID string) (*JoinOutput, error) {
	if _, ok := uc.devices.Lookup(deviceID); !ok {
		// Same signal as every other failure path: no oracle for which
		// part of the handshake was wrong.
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "unknown device")
	}

	challenge, err := randomHex(nonceBytes)
	if err != nil {
		return nil, err
	}
	iv, err := randomHex(ivBytes)
	if err != nil {
		return nil, err
	}
	sessionID, err := randomHex(sessionBytes)
	if err != nil {
		return nil, err
	}

	session := &domain.ChallengeSession{
		DeviceID:  deviceID,
		SessionID: sessionID,
		Challenge: challenge,
		IV:        iv,
		CreatedAt: uc.now(),
	}
	if err := uc.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	uc.logger.Debug("challenge session created",
		slog.String("device_id", deviceID),
		slog.String("session_id", sessionID),
	)

	return &JoinOutput{
		SessionID: sessionID,
		Challenge: challenge,
		IV:        iv,
	}, nil
}

// Respond consumes the session and verifies the proof in constant time.
func (uc *authUseCase) Respond(
	ctx context.Context,
	deviceID, sessionID, proof string,
) (string, error) {
	session, err := uc.sessionRepo.Get(ctx, deviceID, sessionID)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "no such session")
	}

	// Consume the session before verification: neither a failed nor a
	// successful attempt can be replayed.
	if err := uc.sessionRepo.Delete(ctx, deviceID, sessionID); err != nil {
		return "", err
	}

	if session.Expired(uc.now()) {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "session expired")
	}

	device, ok := uc.devices.Lookup(deviceID)
	if !ok {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "unknown device")
	}

	nonce, err := hex.DecodeString(session.Challenge)
	if err != nil {
		return "", apperrors.Wrap(err, "corrupt session nonce")
	}
	iv, err := hex.DecodeString(session.IV)
	if err != nil {
		return "", apperrors.Wrap(err, "corrupt session iv")
	}

	expected, err := uc.challenge.Transform(nonce, device.Key, iv)
	if err != nil {
		return "", err
	}

	proofBytes, err := hex.DecodeString(proof)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "malformed proof")
	}

	if !uc.challenge.Verify(proofBytes, expected) {
		uc.logger.Debug("challenge proof mismatch",
			slog.String("device_id", deviceID),
			slog.String("session_id", sessionID),
		)
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "proof mismatch")
	}

	token, err := uc.tokenService.Issue(domain.IdentityFor(deviceID))
	if err != nil {
		return "", err
	}

	uc.logger.Info("device authenticated",
		slog.String("device_id", deviceID),
	)

	return token, nil
}

// randomHex returns n cryptographically random bytes, hex encoded.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random bytes")
	}
	return hex.EncodeToString(buf), nil
}
