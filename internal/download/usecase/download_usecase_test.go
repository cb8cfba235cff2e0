package usecase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-codes/platansense/internal/artifact/domain"
	"github.com/digital-codes/platansense/internal/artifact/repository"
	apperrors "github.com/digital-codes/platansense/internal/errors"
)

const testJobID = "Sensor_device42_0198a7e2"

func newTestDownloadUseCase(t *testing.T) (DownloadUseCase, *repository.FilesystemStore) {
	t.Helper()

	store, err := repository.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDownloadUseCase(store, logger), store
}

func saveTestResult(t *testing.T, store *repository.FilesystemStore, audio []byte) {
	t.Helper()

	record := &domain.ResultRecord{
		JobID:      testJobID,
		Transcript: "hello sensor",
		Reply:      "hello back",
		Status:     "ok",
	}
	require.NoError(t, store.SaveResult(context.Background(), record, audio))
}

func TestDownloadUseCase_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("pending job is not ready", func(t *testing.T) {
		uc, store := newTestDownloadUseCase(t)
		require.NoError(t, store.CreateSentinel(ctx, testJobID))

		_, err := uc.Check(ctx, testJobID)
		assert.ErrorIs(t, err, apperrors.ErrNotReady)
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		uc, _ := newTestDownloadUseCase(t)

		_, err := uc.Check(ctx, testJobID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("ready job returns size and chunk count and clears the sentinel", func(t *testing.T) {
		uc, store := newTestDownloadUseCase(t)
		require.NoError(t, store.CreateSentinel(ctx, testJobID))
		audio := bytes.Repeat([]byte{0xAB}, domain.ChunkSize+100)
		saveTestResult(t, store, audio)

		out, err := uc.Check(ctx, testJobID)
		require.NoError(t, err)
		assert.Equal(t, int64(len(audio)), out.Size)
		assert.Equal(t, 2, out.Chunks)

		pending, err := store.SentinelExists(ctx, testJobID)
		require.NoError(t, err)
		assert.False(t, pending)
	})

	t.Run("repeated check after claim still succeeds", func(t *testing.T) {
		uc, store := newTestDownloadUseCase(t)
		require.NoError(t, store.CreateSentinel(ctx, testJobID))
		saveTestResult(t, store, []byte("short"))

		first, err := uc.Check(ctx, testJobID)
		require.NoError(t, err)

		second, err := uc.Check(ctx, testJobID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestDownloadUseCase_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks that reassemble to the artifact", func(t *testing.T) {
		uc, store := newTestDownloadUseCase(t)
		audio := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 3000) // 12000 bytes, 3 chunks
		saveTestResult(t, store, audio)

		var assembled []byte
		for i := 0; i < domain.ChunkCount(int64(len(audio))); i++ {
			out, err := uc.Fetch(ctx, testJobID, i)
			require.NoError(t, err)
			assert.Equal(t, 3, out.Chunks)
			assert.Equal(t, len(out.Data), out.Length)
			assembled = append(assembled, out.Data...)
		}
		assert.Equal(t, audio, assembled)
	})

	t.Run("last chunk is shorter", func(t *testing.T) {
		uc, store := newTestDownloadUseCase(t)
		audio := make([]byte, domain.ChunkSize+1)
		saveTestResult(t, store, audio)

		out, err := uc.Fetch(ctx, testJobID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Length)
	})

	t.Run("out-of-range index signals end of stream", func(t *testing.T) {
		uc, store := newTestDownloadUseCase(t)
		saveTestResult(t, store, make([]byte, domain.ChunkSize))

		out, err := uc.Fetch(ctx, testJobID, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, out.Length)
		assert.Empty(t, out.Data)
		assert.Equal(t, 1, out.Chunks)

		out, err = uc.Fetch(ctx, testJobID, -1)
		require.NoError(t, err)
		assert.Equal(t, 0, out.Length)
	})

	t.Run("missing result is not found", func(t *testing.T) {
		uc, _ := newTestDownloadUseCase(t)

		_, err := uc.Fetch(ctx, testJobID, 0)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
