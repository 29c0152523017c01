package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sycophancy-survey-be/pkg/llm"
	"sycophancy-survey-be/pkg/survey"
)

type capturingProvider struct {
	history []llm.Message
	opts    llm.Options
}

func (p *capturingProvider) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.history = history
	for _, opt := range opts {
		opt(&p.opts)
	}
	return "full reply", nil
}

func (p *capturingProvider) ChatStream(_ context.Context, history []llm.Message, opts ...llm.Option) (*llm.ContentStream, error) {
	p.history = history
	for _, opt := range opts {
		opt(&p.opts)
	}
	stream := llm.NewContentStream(nil)
	go func() {
		stream.Emit("chunk")
		stream.CloseSend(nil)
	}()
	return stream, nil
}

func TestEnhanceSystemPromptWithoutProfile(t *testing.T) {
	assert.Equal(t, "be neutral", EnhanceSystemPrompt("be neutral", nil))
}

func TestEnhanceSystemPromptPrependsProfile(t *testing.T) {
	profile := &survey.Demographics{
		Name:       "Ada",
		Age:        30,
		Location:   "London",
		Profession: "Engineer",
		Education:  "phd",
	}
	got := EnhanceSystemPrompt("be neutral", profile)
	assert.Equal(t, "User Profile: Name: Ada, Age: 30, Location: London, Profession: Engineer, Education: phd. be neutral", got)
}

func TestStreamBuildsHistoryAndPinsParameters(t *testing.T) {
	provider := &capturingProvider{}
	r := New(provider)

	messages := []survey.Message{
		{Role: survey.RoleUser, Content: "hi", Timestamp: 1},
		{Role: survey.RoleAssistant, Content: "hello", Timestamp: 2},
	}
	stream, err := r.Stream(context.Background(), messages, "be warm", nil)
	require.NoError(t, err)
	defer stream.Close()

	require.Len(t, provider.history, 3)
	assert.Equal(t, "system", provider.history[0].Role)
	assert.Equal(t, "be warm", provider.history[0].Content)
	assert.Equal(t, "hi", provider.history[1].Content)
	assert.Equal(t, "hello", provider.history[2].Content)

	assert.Equal(t, maxTokens, provider.opts.MaxTokens)
	assert.Equal(t, temperature, provider.opts.Temperature)

	chunk, ok := stream.Recv()
	assert.True(t, ok)
	assert.Equal(t, "chunk", chunk)
}

func TestStreamEnhancesSystemPrompt(t *testing.T) {
	provider := &capturingProvider{}
	r := New(provider)

	profile := &survey.Demographics{Name: "Ada", Age: 30, Location: "London", Profession: "Engineer", Education: "phd"}
	stream, err := r.Stream(context.Background(), []survey.Message{{Role: survey.RoleUser, Content: "hi"}}, "be warm", profile)
	require.NoError(t, err)
	defer stream.Close()

	assert.Contains(t, provider.history[0].Content, "User Profile: Name: Ada")
	assert.Contains(t, provider.history[0].Content, "be warm")
}
