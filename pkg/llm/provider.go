package llm

import "context"

// Message is a single chat turn in provider wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries per-request generation parameters.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Option mutates Options.
type Option func(*Options)

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

// Provider is the LLM backend contract. Chat blocks for the full
// completion; ChatStream returns incremental content.
type Provider interface {
	Chat(ctx context.Context, history []Message, opts ...Option) (string, error)
	ChatStream(ctx context.Context, history []Message, opts ...Option) (*ContentStream, error)
}
