// Package repository implements challenge session persistence. Sessions live
// in a shared durable store because each request is handled by an
// independent, stateless invocation.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/digital-codes/platansense/internal/auth/domain"
	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// ErrSessionNotFound indicates no session exists for the (device, session) pair.
var ErrSessionNotFound = apperrors.Wrap(apperrors.ErrNotFound, "session not found")

// safeIDRegex guards device and session IDs before they reach a file name.
var safeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// FilesystemSessionRepository stores challenge sessions as JSON files keyed
// by (deviceID, sessionID).
type FilesystemSessionRepository struct {
	dir string
}

// NewFilesystemSessionRepository creates the session directory if needed.
func NewFilesystemSessionRepository(dir string) (*FilesystemSessionRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apperrors.Wrap(err, "failed to create session directory")
	}
	return &FilesystemSessionRepository{dir: dir}, nil
}

// Save persists a challenge session.
func (r *FilesystemSessionRepository) Save(
	ctx context.Context,
	session *domain.ChallengeSession,
) error {
	path, err := r.path(session.DeviceID, session.SessionID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode session")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return apperrors.Wrap(err, "failed to write session")
	}
	return nil
}

// Get loads a challenge session.
func (r *FilesystemSessionRepository) Get(
	ctx context.Context,
	deviceID, sessionID string,
) (*domain.ChallengeSession, error) {
	path, err := r.path(deviceID, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if apperrors.Is(err, fs.ErrNotExist) {
			return nil, ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to read session")
	}
	var session domain.ChallengeSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode session")
	}
	return &session, nil
}

// Delete removes a challenge session. Deleting an absent session is a no-op,
// so a session can be consumed safely on both success and failure paths.
func (r *FilesystemSessionRepository) Delete(
	ctx context.Context,
	deviceID, sessionID string,
) error {
	path, err := r.path(deviceID, sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !apperrors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(err, "failed to delete session")
	}
	return nil
}

func (r *FilesystemSessionRepository) path(deviceID, sessionID string) (string, error) {
	if !safeIDRegex.MatchString(deviceID) || !safeIDRegex.MatchString(sessionID) {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "unsafe session key")
	}
	name := fmt.Sprintf("challenge_%s_%s.json", deviceID, sessionID)
	return filepath.Join(r.dir, name), nil
}
