package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// speechClient implements SpeechClient against the hosted TTS endpoint,
// which returns the synthesized audio as a raw WAV body.
type speechClient struct {
	url        string
	key        string
	voice      string
	sampleRate int
	httpClient *http.Client
}

// NewSpeechClient creates a SpeechClient. voice selects one of the voices
// configured for the endpoint.
func NewSpeechClient(url, key, voice string, sampleRate int, timeout time.Duration) SpeechClient {
	return &speechClient{
		url:        url,
		key:        key,
		voice:      voice,
		sampleRate: sampleRate,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type speechRequest struct {
	Text              string `json:"text"`
	VoiceID           string `json:"voice_id"`
	Style             string `json:"style"`
	SampleRate        int    `json:"sampleRate"`
	ChannelType       string `json:"channelType"`
	Format            string `json:"format"`
	Pitch             int    `json:"pitch"`
	Model             string `json:"model"`
	MultiNativeLocale string `json:"multiNativeLocale"`
}

// Synthesize posts the text and returns the WAV body.
func (s *speechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload := speechRequest{
		Text:              text,
		VoiceID:           s.voice,
		Style:             "Conversational",
		SampleRate:        s.sampleRate,
		ChannelType:       "MONO",
		Format:            "WAV",
		Pitch:             0,
		Model:             "FALCON",
		MultiNativeLocale: "de-DE",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode speech request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create speech request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "speech request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read speech response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(
			fmt.Sprintf("speech endpoint returned %d: %s", resp.StatusCode, truncate(respBody, 256)))
	}
	if len(respBody) == 0 {
		return nil, apperrors.New("speech endpoint returned empty audio")
	}

	return respBody, nil
}
