// Package usecase implements the job processor: the polling loop that turns
// uploaded audio into downloadable result audio through the external chat
// and speech services.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/digital-codes/platansense/internal/artifact/domain"
	"github.com/digital-codes/platansense/internal/audio/adpcm"
	"github.com/digital-codes/platansense/internal/audio/wav"
	apperrors "github.com/digital-codes/platansense/internal/errors"
	"github.com/digital-codes/platansense/internal/metrics"
	"github.com/digital-codes/platansense/internal/pipeline/service"
)

// volumeHeadroom is the fraction of full scale left unused when normalizing
// result audio, so the sensor's small speaker does not clip at the peaks.
const volumeHeadroom = 0.002

// JobStore is the slice of the artifact store the processor needs.
type JobStore interface {
	ListPending(ctx context.Context) ([]string, error)
	ResultExists(ctx context.Context, jobID string) (bool, error)
	ReadArtifact(ctx context.Context, jobID string) (*domain.Artifact, error)
	SaveResult(ctx context.Context, record *domain.ResultRecord, audio []byte) error
}

// Options configure the processor loop.
type Options struct {
	// Interval between poll iterations. The caller clamps it to at least
	// three seconds to bound load on the external services.
	Interval time.Duration
	// Concurrency bounds the number of jobs processed at once.
	Concurrency int
	// JobTimeout bounds one pipeline attempt, external calls included.
	JobTimeout time.Duration
	// RetryInterval is the pause before the single in-iteration retry.
	RetryInterval time.Duration
	// SampleRate is the PCM sample rate used when unpacking ADPCM uploads.
	SampleRate int
}

// Processor drives pending jobs through the external pipeline.
type Processor struct {
	store     JobStore
	chat      service.ChatClient
	speech    service.SpeechClient
	converter service.Converter
	opts      Options
	logger    *slog.Logger
	metrics   metrics.BusinessMetrics
}

// NewProcessor creates a Processor. The converter is optional; without one,
// synthesized audio that is not already mono 16-bit PCM fails the job.
func NewProcessor(
	store JobStore,
	chat service.ChatClient,
	speech service.SpeechClient,
	converter service.Converter,
	opts Options,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) *Processor {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Processor{
		store:     store,
		chat:      chat,
		speech:    speech,
		converter: converter,
		opts:      opts,
		logger:    logger,
		metrics:   businessMetrics,
	}
}

// Run polls until the context is canceled. Job failures are logged and left
// for the next iteration; they never stop the loop.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info("job processor started",
		slog.Duration("interval", p.opts.Interval),
		slog.Int("concurrency", p.opts.Concurrency),
	)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		p.runIteration(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("job processor stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runIteration processes every pending job once, bounded by the configured
// concurrency. Errors are contained per job.
func (p *Processor) runIteration(ctx context.Context) {
	jobIDs, err := p.store.ListPending(ctx)
	if err != nil {
		p.logger.Error("failed to list pending jobs", slog.Any("error", err))
		return
	}
	if len(jobIDs) == 0 {
		return
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for _, jobID := range jobIDs {
		g.Go(func() error {
			p.processWithRetry(groupCtx, jobID)
			return nil
		})
	}

	_ = g.Wait()
}

// processWithRetry attempts a job once and retries a single time after a
// pause. A job that fails both attempts stays pending for the next
// iteration; the device keeps seeing "not ready" until a poll succeeds.
func (p *Processor) processWithRetry(ctx context.Context, jobID string) {
	start := time.Now()

	err := p.processJob(ctx, jobID)
	if err != nil && ctx.Err() == nil {
		p.logger.Warn("job failed, retrying once",
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.opts.RetryInterval):
		}
		err = p.processJob(ctx, jobID)
	}

	status := "success"
	if err != nil {
		status = "error"
		p.logger.Error("job failed",
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
	}

	p.metrics.RecordOperation(ctx, "pipeline", "process_job", status)
	p.metrics.RecordDuration(ctx, "pipeline", "process_job", time.Since(start), status)
}

// processJob runs one pipeline attempt under the job timeout.
func (p *Processor) processJob(ctx context.Context, jobID string) error {
	ctx, cancel := context.WithTimeout(ctx, p.opts.JobTimeout)
	defer cancel()

	// A previous iteration may have finished this job after it was listed.
	done, err := p.store.ResultExists(ctx, jobID)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	artifact, err := p.store.ReadArtifact(ctx, jobID)
	if err != nil {
		return err
	}

	audioWAV, err := p.toWAV(artifact)
	if err != nil {
		return err
	}

	chatResult, err := p.chat.Query(ctx, audioWAV)
	if err != nil {
		return err
	}

	replyWAV, err := p.speech.Synthesize(ctx, chatResult.Reply)
	if err != nil {
		return err
	}

	resultADPCM, err := p.transcodeToADPCM(ctx, replyWAV)
	if err != nil {
		return err
	}

	record := &domain.ResultRecord{
		JobID:      jobID,
		Transcript: chatResult.Transcript,
		Reply:      chatResult.Reply,
		Status:     "ok",
	}
	if err := p.store.SaveResult(ctx, record, resultADPCM); err != nil {
		return err
	}

	p.logger.Info("job processed",
		slog.String("job_id", jobID),
		slog.Int("result_bytes", len(resultADPCM)),
	)
	return nil
}

// toWAV converts the stored artifact into WAV for the chat endpoint.
func (p *Processor) toWAV(artifact *domain.Artifact) ([]byte, error) {
	switch artifact.Format {
	case domain.FormatWAV:
		return artifact.Data, nil
	case domain.FormatADPCM:
		pcm := adpcm.Decode(artifact.Data)
		return wav.FromPCM(adpcm.SamplesToBytes(pcm), p.opts.SampleRate), nil
	default:
		return nil, apperrors.Wrapf(
			apperrors.ErrInvalidInput, "unknown artifact format %q", artifact.Format)
	}
}

// transcodeToADPCM turns the synthesized WAV into the compressed format the
// sensor downloads, normalizing the volume on the way. Audio the speech
// service delivers in another layout is resampled through the converter.
func (p *Processor) transcodeToADPCM(ctx context.Context, audioWAV []byte) ([]byte, error) {
	pcmBytes, info, err := wav.ExtractPCM(audioWAV)
	if err != nil || info.NumChannels != 1 || info.BitsPerSample != 16 {
		if p.converter == nil {
			if err != nil {
				return nil, err
			}
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput,
				"result audio must be mono 16-bit, got %d channels at %d bits",
				info.NumChannels, info.BitsPerSample)
		}

		normalized, convErr := p.converter.Normalize(ctx, audioWAV)
		if convErr != nil {
			return nil, convErr
		}
		pcmBytes, info, err = wav.ExtractPCM(normalized)
		if err != nil {
			return nil, err
		}
		if info.NumChannels != 1 || info.BitsPerSample != 16 {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput,
				"converted audio must be mono 16-bit, got %d channels at %d bits",
				info.NumChannels, info.BitsPerSample)
		}
	}

	samples := adpcm.BytesToSamples(pcmBytes)
	samples = adpcm.MaximizeVolume(samples, volumeHeadroom)
	return adpcm.Encode(samples), nil
}
