package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// systemPrompt instructs the model to transcribe generously and answer in
// character, returning strict JSON. The prompt is part of the product
// behavior, not a tunable.
const systemPrompt = "Du bist eine Platane in Karlsruhe. Erfinde eine Antwort basierend auf den Audiodaten. " +
	"Berücksichtige dabei schlechte Qualität der Audiodaten und versuche das Gesprochene bestmöglich zu transkribieren. " +
	"Beachte, dass du häufig als Baum angesprochen wirst, z.B. als Platane oder als Banane. Unterscheide dies. " +
	"Interpretiere die Eingabe grosszügig aber möglichst korrekt. Argumentiere nicht zu streng. " +
	"Antworte in Deutsch im JSON Format mit den Feldern Transscript und Antwort. " +
	"Wenn die Audiodaten unverständlich sind, gib ein leeres Transscript Feld zurück und der Antwort: " +
	"das habe ich nicht verstanden. " +
	"Verwende nur dieses Format und nichts anderes."

// fencedJSONRegex extracts a JSON body from a markdown code fence. Models
// often wrap their JSON despite being told not to.
var fencedJSONRegex = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// chatClient implements ChatClient against an OpenAI-compatible
// chat-completions endpoint with audio input support.
type chatClient struct {
	url        string
	key        string
	model      string
	httpClient *http.Client
}

// NewChatClient creates a ChatClient for the given endpoint and model.
func NewChatClient(url, key, model string, timeout time.Duration) ChatClient {
	return &chatClient{
		url:        url,
		key:        key,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatAudioContent struct {
	Type       string `json:"type"`
	InputAudio string `json:"input_audio"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// modelReply is the JSON body the system prompt demands. The field names are
// the model-facing contract and are intentionally left in German.
type modelReply struct {
	Transscript string `json:"Transscript"`
	Antwort     string `json:"Antwort"`
}

// Query posts the audio and parses the model's fenced-JSON reply.
func (c *chatClient) Query(ctx context.Context, audioWAV []byte) (*ChatResult, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []chatAudioContent{
				{Type: "input_audio", InputAudio: base64.StdEncoding.EncodeToString(audioWAV)},
			}},
		},
		Temperature: 0.1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "chat request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read chat response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(
			fmt.Sprintf("chat endpoint returned %d: %s", resp.StatusCode, truncate(respBody, 256)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode chat response")
	}
	if len(parsed.Choices) == 0 {
		return nil, apperrors.New("chat response contains no choices")
	}

	reply, err := parseModelReply(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if reply.Antwort == "" {
		return nil, apperrors.New("model reply has no answer text")
	}

	return &ChatResult{
		Transcript: reply.Transscript,
		Reply:      reply.Antwort,
	}, nil
}

// parseModelReply decodes the model's JSON, unwrapping a markdown code fence
// if present.
func parseModelReply(content string) (*modelReply, error) {
	jsonText := content
	if m := fencedJSONRegex.FindStringSubmatch(content); m != nil {
		jsonText = m[1]
	}
	jsonText = strings.Trim(jsonText, " \t\r\n`")

	var reply modelReply
	if err := json.Unmarshal([]byte(jsonText), &reply); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse JSON from model reply")
	}
	return &reply, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
