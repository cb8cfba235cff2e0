// Package service implements the external collaborators of the job
// processor: the chat-completions endpoint that transcribes and answers the
// uploaded audio, the text-to-speech endpoint that synthesizes the answer,
// and the local audio normalizer.
package service

import (
	"context"
)

// ChatResult is the parsed outcome of one chat-completions call.
type ChatResult struct {
	// Transcript is the recognized text of the uploaded audio. May be empty
	// when the model could not understand the recording.
	Transcript string
	// Reply is the generated answer text to synthesize.
	Reply string
}

// ChatClient sends audio to the external transcription/response model.
type ChatClient interface {
	// Query posts the WAV audio and returns the parsed transcript and reply.
	Query(ctx context.Context, audioWAV []byte) (*ChatResult, error)
}

// SpeechClient synthesizes reply text into audio.
type SpeechClient interface {
	// Synthesize returns mono 16-bit WAV audio for the given text.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Converter normalizes arbitrary audio to the pipeline's working format.
type Converter interface {
	// Normalize converts the input to mono 8 kHz 16-bit WAV.
	Normalize(ctx context.Context, audio []byte) ([]byte, error)
}
