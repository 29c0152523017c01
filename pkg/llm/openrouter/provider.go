package openrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sycophancy-survey-be/pkg/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is the study's fixed completion model.
	DefaultModel = "nvidia/nemotron-nano-9b-v2:free"

	appTitle = "Sycophant Research Study"
)

// Provider is an OpenRouter chat-completions client implementing
// llm.Provider.
type Provider struct {
	apiKey  string
	baseURL string
	model   string
	referer string
	client  *http.Client
}

type ProviderOption func(*Provider)

func WithBaseURL(url string) ProviderOption {
	return func(p *Provider) {
		if url != "" {
			p.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithReferer sets the HTTP-Referer attribution header.
func WithReferer(referer string) ProviderOption {
	return func(p *Provider) { p.referer = referer }
}

func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) { p.client = client }
}

func NewProvider(apiKey string, opts ...ProviderOption) *Provider {
	p := &Provider{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// streamChunk is one SSE payload. Only delta content is consumed.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (p *Provider) newRequest(ctx context.Context, body chatRequest) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openrouter: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openrouter: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", appTitle)
	if p.referer != "" {
		req.Header.Set("HTTP-Referer", p.referer)
	}
	return req, nil
}

func (p *Provider) options(opts []llm.Option) llm.Options {
	options := llm.Options{Model: p.model}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Model == "" {
		options.Model = p.model
	}
	return options
}

// Chat performs a blocking, non-streaming completion.
func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := p.options(opts)
	req, err := p.newRequest(ctx, chatRequest{
		Model:       options.Model,
		Messages:    history,
		MaxTokens:   options.MaxTokens,
		Temperature: options.Temperature,
	})
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openrouter: api returned status %d: %s", resp.StatusCode, string(body))
	}
	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("openrouter: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openrouter: response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// ChatStream opens a streaming completion. A non-2xx upstream status
// fails the whole call; no partial stream is handed out. SSE frames are
// reframed into plain content chunks, malformed frames are skipped, and
// the "[DONE]" sentinel ends the stream cleanly. Closing the returned
// stream aborts the upstream request.
func (p *Provider) ChatStream(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.ContentStream, error) {
	options := p.options(opts)
	streamCtx, cancel := context.WithCancel(ctx)
	req, err := p.newRequest(streamCtx, chatRequest{
		Model:       options.Model,
		Messages:    history,
		MaxTokens:   options.MaxTokens,
		Temperature: options.Temperature,
		Stream:      true,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("openrouter: request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("openrouter: api returned status %d: %s", resp.StatusCode, string(body))
	}

	stream := llm.NewContentStream(cancel)
	go p.pump(resp.Body, stream)
	return stream, nil
}

// pump reads SSE lines off the response body and feeds the stream.
func (p *Provider) pump(body io.ReadCloser, stream *llm.ContentStream) {
	defer body.Close()
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			stream.CloseSend(nil)
			return
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		if !stream.Emit(content) {
			stream.CloseSend(nil)
			return
		}
	}
	stream.CloseSend(scanner.Err())
}
