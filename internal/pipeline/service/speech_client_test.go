package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeechClient_Synthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the audio body", func(t *testing.T) {
		wantAudio := []byte("RIFF-synthesized-audio")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "secret-key", r.Header.Get("api-key"))

			var req speechRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "hallo welt", req.Text)
			assert.Equal(t, "Josephine", req.VoiceID)
			assert.Equal(t, 8000, req.SampleRate)
			assert.Equal(t, "WAV", req.Format)

			_, _ = w.Write(wantAudio)
		}))
		defer server.Close()

		client := NewSpeechClient(server.URL, "secret-key", "Josephine", 8000, time.Second)
		audio, err := client.Synthesize(ctx, "hallo welt")
		require.NoError(t, err)
		assert.Equal(t, wantAudio, audio)
	})

	t.Run("fails on upstream error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad voice", http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewSpeechClient(server.URL, "secret-key", "Josephine", 8000, time.Second)
		_, err := client.Synthesize(ctx, "hallo welt")
		assert.Error(t, err)
	})

	t.Run("fails on empty audio body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewSpeechClient(server.URL, "secret-key", "Josephine", 8000, time.Second)
		_, err := client.Synthesize(ctx, "hallo welt")
		assert.Error(t, err)
	})
}
