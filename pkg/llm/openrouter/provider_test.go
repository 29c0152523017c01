package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sycophancy-survey-be/pkg/llm"
)

func sseServer(t *testing.T, lines []string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, appTitle, r.Header.Get("X-Title"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
			flusher.Flush()
		}
	}))
}

func deltaLine(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`, content)
}

func drain(t *testing.T, stream *llm.ContentStream) string {
	t.Helper()
	var sb strings.Builder
	for {
		chunk, ok := stream.Recv()
		if !ok {
			return sb.String()
		}
		sb.WriteString(chunk)
	}
}

func TestChatStreamDeliversChunks(t *testing.T) {
	var captured chatRequest
	srv := sseServer(t, []string{
		deltaLine("Hel"),
		"",
		deltaLine("lo"),
		"data: [DONE]",
	}, &captured)
	defer srv.Close()

	p := NewProvider("test-key", WithBaseURL(srv.URL), WithModel("test-model"))
	stream, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}},
		llm.WithMaxTokens(1000), llm.WithTemperature(0.7))
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, "Hello", drain(t, stream))
	assert.NoError(t, stream.Err())

	assert.True(t, captured.Stream)
	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, 1000, captured.MaxTokens)
	assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
}

func TestChatStreamSkipsMalformedFrames(t *testing.T) {
	srv := sseServer(t, []string{
		"data: {broken json",
		`data: {"choices":[]}`,
		deltaLine("ok"),
		`data: {"choices":[{"delta":{"content":""}}]}`,
		"data: [DONE]",
	}, nil)
	defer srv.Close()

	p := NewProvider("test-key", WithBaseURL(srv.URL))
	stream, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, "ok", drain(t, stream))
	assert.NoError(t, stream.Err())
}

func TestChatStreamEndsCleanlyWithoutSentinel(t *testing.T) {
	srv := sseServer(t, []string{deltaLine("partial")}, nil)
	defer srv.Close()

	p := NewProvider("test-key", WithBaseURL(srv.URL))
	stream, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, "partial", drain(t, stream))
	assert.NoError(t, stream.Err())
}

func TestChatStreamUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewProvider("test-key", WithBaseURL(srv.URL))
	stream, err := p.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
	assert.Nil(t, stream)
	assert.Contains(t, err.Error(), "429")
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "full reply"}},
			},
		})
	}))
	defer srv.Close()

	p := NewProvider("test-key", WithBaseURL(srv.URL))
	reply, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "full reply", reply)
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	p := NewProvider("test-key", WithBaseURL(srv.URL))
	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}

func TestProviderDefaults(t *testing.T) {
	p := NewProvider("key")
	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, DefaultModel, p.model)

	// Empty option values never clobber defaults.
	p = NewProvider("key", WithBaseURL(""), WithModel(""))
	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, DefaultModel, p.model)
}
