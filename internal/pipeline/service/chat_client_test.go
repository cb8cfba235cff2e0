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

func chatServerReplying(t *testing.T, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "voxtral-mini-latest", req.Model)
		require.Len(t, req.Messages, 2)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestChatClient_Query(t *testing.T) {
	ctx := context.Background()
	audio := []byte("RIFF-fake-wav")

	t.Run("parses a bare JSON reply", func(t *testing.T) {
		server := chatServerReplying(t, `{"Transscript": "hallo baum", "Antwort": "hallo mensch"}`)
		defer server.Close()

		client := NewChatClient(server.URL, "test-key", "voxtral-mini-latest", time.Second)
		result, err := client.Query(ctx, audio)
		require.NoError(t, err)
		assert.Equal(t, "hallo baum", result.Transcript)
		assert.Equal(t, "hallo mensch", result.Reply)
	})

	t.Run("parses a fenced JSON reply", func(t *testing.T) {
		server := chatServerReplying(t,
			"```json\n{\"Transscript\": \"hallo\", \"Antwort\": \"guten tag\"}\n```")
		defer server.Close()

		client := NewChatClient(server.URL, "test-key", "voxtral-mini-latest", time.Second)
		result, err := client.Query(ctx, audio)
		require.NoError(t, err)
		assert.Equal(t, "guten tag", result.Reply)
	})

	t.Run("accepts an empty transcript with an answer", func(t *testing.T) {
		server := chatServerReplying(t,
			`{"Transscript": "", "Antwort": "das habe ich nicht verstanden"}`)
		defer server.Close()

		client := NewChatClient(server.URL, "test-key", "voxtral-mini-latest", time.Second)
		result, err := client.Query(ctx, audio)
		require.NoError(t, err)
		assert.Empty(t, result.Transcript)
		assert.Equal(t, "das habe ich nicht verstanden", result.Reply)
	})

	t.Run("fails on non-JSON model output", func(t *testing.T) {
		server := chatServerReplying(t, "I'm sorry, I cannot help with that.")
		defer server.Close()

		client := NewChatClient(server.URL, "test-key", "voxtral-mini-latest", time.Second)
		_, err := client.Query(ctx, audio)
		assert.Error(t, err)
	})

	t.Run("fails on upstream error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewChatClient(server.URL, "test-key", "voxtral-mini-latest", time.Second)
		_, err := client.Query(ctx, audio)
		assert.Error(t, err)
	})
}

func TestParseModelReply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    modelReply
		wantErr bool
	}{
		{
			name:    "bare json",
			content: `{"Transscript": "a", "Antwort": "b"}`,
			want:    modelReply{Transscript: "a", Antwort: "b"},
		},
		{
			name:    "fenced with language tag",
			content: "```json\n{\"Transscript\": \"a\", \"Antwort\": \"b\"}\n```",
			want:    modelReply{Transscript: "a", Antwort: "b"},
		},
		{
			name:    "fenced without language tag",
			content: "```\n{\"Antwort\": \"b\"}\n```",
			want:    modelReply{Antwort: "b"},
		},
		{
			name:    "fence surrounded by prose",
			content: "Hier ist die Antwort:\n```json\n{\"Antwort\": \"b\"}\n```\nViel Spaß!",
			want:    modelReply{Antwort: "b"},
		},
		{
			name:    "not json",
			content: "no json here",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseModelReply(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}
