package service

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// ffmpegConverter implements Converter by shelling out to ffmpeg. It is the
// fallback for audio the in-process codec cannot read (compressed WAV
// variants, other containers).
type ffmpegConverter struct {
	binary     string
	sampleRate int
}

// NewFFmpegConverter creates a Converter using the given ffmpeg binary.
// An empty binary falls back to "ffmpeg" on PATH.
func NewFFmpegConverter(binary string, sampleRate int) Converter {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &ffmpegConverter{
		binary:     binary,
		sampleRate: sampleRate,
	}
}

// Normalize pipes the audio through ffmpeg, downmixing to mono 16-bit PCM at
// the configured sample rate.
func (f *ffmpegConverter) Normalize(ctx context.Context, audio []byte) ([]byte, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-ac", "1",
		"-ar", strconv.Itoa(f.sampleRate),
		"-acodec", "pcm_s16le",
		"-f", "wav",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, f.binary, args...)
	cmd.Stdin = bytes.NewReader(audio)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, apperrors.Wrapf(err, "ffmpeg failed: %s", stderr.String())
	}
	return stdout.Bytes(), nil
}
