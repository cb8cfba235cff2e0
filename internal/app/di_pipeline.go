package app

import (
	"strings"

	apperrors "github.com/digital-codes/platansense/internal/errors"
	pipelineService "github.com/digital-codes/platansense/internal/pipeline/service"
	pipelineUseCase "github.com/digital-codes/platansense/internal/pipeline/usecase"
)

// ChatClient returns the external chat-completions client.
func (c *Container) ChatClient() (pipelineService.ChatClient, error) {
	var err error
	c.chatClientInit.Do(func() {
		if c.config.ChatURL == "" {
			err = apperrors.New("CHAT_URL is not configured")
			c.initErrors["chatClient"] = err
			return
		}
		c.chatClient = pipelineService.NewChatClient(
			c.config.ChatURL,
			c.config.ChatKey,
			c.config.ChatModel,
			c.config.WorkerJobTimeout,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["chatClient"]; exists {
		return nil, storedErr
	}
	return c.chatClient, nil
}

// SpeechClient returns the external text-to-speech client.
func (c *Container) SpeechClient() (pipelineService.SpeechClient, error) {
	var err error
	c.speechClientInit.Do(func() {
		if c.config.TTSURL == "" {
			err = apperrors.New("TTS_URL is not configured")
			c.initErrors["speechClient"] = err
			return
		}
		voice, voiceErr := selectVoice(c.config.TTSVoices, c.config.TTSVoiceIndex)
		if voiceErr != nil {
			err = voiceErr
			c.initErrors["speechClient"] = voiceErr
			return
		}
		c.speechClient = pipelineService.NewSpeechClient(
			c.config.TTSURL,
			c.config.TTSKey,
			voice,
			c.config.SampleRate,
			c.config.WorkerJobTimeout,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["speechClient"]; exists {
		return nil, storedErr
	}
	return c.speechClient, nil
}

// Processor returns the job processor.
func (c *Container) Processor() (*pipelineUseCase.Processor, error) {
	var err error
	c.processorInit.Do(func() {
		c.processor, err = c.initProcessor()
		if err != nil {
			c.initErrors["processor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["processor"]; exists {
		return nil, storedErr
	}
	return c.processor, nil
}

func (c *Container) initProcessor() (*pipelineUseCase.Processor, error) {
	store, err := c.ArtifactStore()
	if err != nil {
		return nil, err
	}
	chatClient, err := c.ChatClient()
	if err != nil {
		return nil, err
	}
	speechClient, err := c.SpeechClient()
	if err != nil {
		return nil, err
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	var converter pipelineService.Converter
	if c.config.FFmpegBinary != "" {
		converter = pipelineService.NewFFmpegConverter(c.config.FFmpegBinary, c.config.SampleRate)
	}

	return pipelineUseCase.NewProcessor(
		store,
		chatClient,
		speechClient,
		converter,
		pipelineUseCase.Options{
			Interval:      c.config.WorkerInterval,
			Concurrency:   c.config.WorkerConcurrency,
			JobTimeout:    c.config.WorkerJobTimeout,
			RetryInterval: c.config.WorkerRetryInterval,
			SampleRate:    c.config.SampleRate,
		},
		c.Logger(),
		businessMetrics,
	), nil
}

// selectVoice picks the configured voice from the comma-separated list.
func selectVoice(voices string, index int) (string, error) {
	parts := strings.Split(voices, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return "", apperrors.New("TTS_VOICES is not configured")
	}
	if index < 0 || index >= len(cleaned) {
		return "", apperrors.Wrapf(
			apperrors.ErrInvalidInput, "TTS_VOICE_INDEX %d out of range", index)
	}
	return cleaned[index], nil
}
