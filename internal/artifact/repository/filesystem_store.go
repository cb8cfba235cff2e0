// Package repository implements the filesystem-backed artifact store. All
// cross-request state (artifacts, sentinels, results) lives here; exclusive
// file creation is the sole synchronization primitive in the system.
package repository

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/digital-codes/platansense/internal/artifact/domain"
	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// File name suffixes, fixed by the device protocol: the sensor polls for
// <jobID>_chat.adpcm after uploading <jobID>.<format>.
const (
	sentinelSuffix    = ".lock"
	resultAudioSuffix = "_chat.adpcm"
	resultRecordExt   = ".json"
)

// safeNameRegex guards every name that reaches the filesystem. Job IDs are
// generated server-side, but names also arrive from download requests.
var safeNameRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// FilesystemStore persists artifacts, sentinels and results as files under a
// single data directory, keyed by job ID.
type FilesystemStore struct {
	dir string
}

// NewFilesystemStore creates the data directory if needed and returns a store.
func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, "failed to create data directory")
	}
	return &FilesystemStore{dir: dir}, nil
}

// SaveArtifact writes an uploaded audio blob. The artifact is immutable; the
// caller guarantees job IDs are unique, so an existing file is never expected.
func (s *FilesystemStore) SaveArtifact(ctx context.Context, artifact *domain.Artifact) error {
	if err := s.checkName(artifact.JobID); err != nil {
		return err
	}
	path := filepath.Join(s.dir, artifact.JobID+"."+artifact.Format)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return apperrors.Wrap(err, "failed to write artifact")
	}
	return nil
}

// ReadArtifact loads the uploaded audio blob for a job, trying the ADPCM
// variant first, then WAV.
func (s *FilesystemStore) ReadArtifact(ctx context.Context, jobID string) (*domain.Artifact, error) {
	if err := s.checkName(jobID); err != nil {
		return nil, err
	}
	for _, format := range []string{domain.FormatADPCM, domain.FormatWAV} {
		data, err := os.ReadFile(filepath.Join(s.dir, jobID+"."+format))
		if err == nil {
			return &domain.Artifact{JobID: jobID, Data: data, Format: format}, nil
		}
		if !apperrors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(err, "failed to read artifact")
		}
	}
	return nil, domain.ErrArtifactNotFound
}

// CreateSentinel marks a job as awaiting processing via exclusive create.
// Exactly one caller can succeed for a given job ID; all others receive
// domain.ErrSentinelExists.
func (s *FilesystemStore) CreateSentinel(ctx context.Context, jobID string) error {
	if err := s.checkName(jobID); err != nil {
		return err
	}
	path := filepath.Join(s.dir, jobID+sentinelSuffix)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if apperrors.Is(err, fs.ErrExist) {
			return domain.ErrSentinelExists
		}
		return apperrors.Wrap(err, "failed to create sentinel")
	}
	return f.Close()
}

// SentinelExists reports whether the job sentinel is present.
func (s *FilesystemStore) SentinelExists(ctx context.Context, jobID string) (bool, error) {
	if err := s.checkName(jobID); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.dir, jobID+sentinelSuffix))
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperrors.Wrap(err, "failed to stat sentinel")
}

// ClearSentinel removes the job sentinel. Clearing an already-cleared
// sentinel is a no-op; the sentinel is never recreated for a job.
func (s *FilesystemStore) ClearSentinel(ctx context.Context, jobID string) error {
	if err := s.checkName(jobID); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, jobID+sentinelSuffix))
	if err != nil && !apperrors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(err, "failed to clear sentinel")
	}
	return nil
}

// ListPending returns the job IDs of all sentinels currently present,
// i.e. jobs awaiting processing or awaiting first download.
func (s *FilesystemStore) ListPending(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+sentinelSuffix))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list sentinels")
	}
	jobIDs := make([]string, 0, len(matches))
	for _, match := range matches {
		base := filepath.Base(match)
		jobIDs = append(jobIDs, strings.TrimSuffix(base, sentinelSuffix))
	}
	return jobIDs, nil
}

// SaveResult persists the result record and the synthesized result audio for
// a job. Written exactly once per job by the job processor.
func (s *FilesystemStore) SaveResult(
	ctx context.Context,
	record *domain.ResultRecord,
	audio []byte,
) error {
	if err := s.checkName(record.JobID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to encode result record")
	}
	recordPath := filepath.Join(s.dir, record.JobID+resultRecordExt)
	if err := os.WriteFile(recordPath, data, 0o644); err != nil {
		return apperrors.Wrap(err, "failed to write result record")
	}

	// The audio artifact is written last: its existence is the readiness
	// signal observed by downloads.
	audioPath := filepath.Join(s.dir, record.JobID+resultAudioSuffix)
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		return apperrors.Wrap(err, "failed to write result audio")
	}
	return nil
}

// ResultExists reports whether the result audio artifact is present.
func (s *FilesystemStore) ResultExists(ctx context.Context, jobID string) (bool, error) {
	if err := s.checkName(jobID); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.dir, jobID+resultAudioSuffix))
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperrors.Wrap(err, "failed to stat result")
}

// ResultSize returns the size in bytes of the result audio artifact.
func (s *FilesystemStore) ResultSize(ctx context.Context, jobID string) (int64, error) {
	if err := s.checkName(jobID); err != nil {
		return 0, err
	}
	info, err := os.Stat(filepath.Join(s.dir, jobID+resultAudioSuffix))
	if err != nil {
		if apperrors.Is(err, fs.ErrNotExist) {
			return 0, domain.ErrResultNotFound
		}
		return 0, apperrors.Wrap(err, "failed to stat result")
	}
	return info.Size(), nil
}

// ReadResultChunk returns up to chunkSize bytes of the result audio starting
// at index*chunkSize. The final chunk may be shorter.
func (s *FilesystemStore) ReadResultChunk(
	ctx context.Context,
	jobID string,
	index int,
	chunkSize int,
) ([]byte, error) {
	if err := s.checkName(jobID); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, jobID+resultAudioSuffix))
	if err != nil {
		if apperrors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrResultNotFound
		}
		return nil, apperrors.Wrap(err, "failed to open result")
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	n, err := f.ReadAt(buf, int64(index)*int64(chunkSize))
	if err != nil && n == 0 {
		return nil, apperrors.Wrap(err, "failed to read result chunk")
	}
	return buf[:n], nil
}

// ReadResultRecord loads the result record for a job.
func (s *FilesystemStore) ReadResultRecord(
	ctx context.Context,
	jobID string,
) (*domain.ResultRecord, error) {
	if err := s.checkName(jobID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, jobID+resultRecordExt))
	if err != nil {
		if apperrors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrResultNotFound
		}
		return nil, apperrors.Wrap(err, "failed to read result record")
	}
	var record domain.ResultRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode result record")
	}
	return &record, nil
}

// checkName rejects any job ID that could escape the data directory.
func (s *FilesystemStore) checkName(jobID string) error {
	if !safeNameRegex.MatchString(jobID) {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "unsafe job id %q", jobID)
	}
	return nil
}
