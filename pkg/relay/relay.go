// Package relay turns survey conversations into upstream LLM streams. It
// prepends the system prompt (enhanced with participant data when
// available), pins the study's generation parameters, and hands back a
// cancellable chunk stream. Stateless per invocation.
package relay

import (
	"context"
	"fmt"

	"sycophancy-survey-be/pkg/llm"
	"sycophancy-survey-be/pkg/survey"
)

const (
	maxTokens   = 1000
	temperature = 0.7
)

// Relay adapts an llm.Provider to the driver's Streamer contract.
type Relay struct {
	provider llm.Provider
}

func New(provider llm.Provider) *Relay {
	return &Relay{provider: provider}
}

// EnhanceSystemPrompt prepends the participant profile to the system
// prompt by plain concatenation. A nil profile returns the prompt as-is.
func EnhanceSystemPrompt(systemPrompt string, participant *survey.Demographics) string {
	if participant == nil {
		return systemPrompt
	}
	return fmt.Sprintf(
		"User Profile: Name: %s, Age: %d, Location: %s, Profession: %s, Education: %s. ",
		participant.Name,
		participant.Age,
		participant.Location,
		participant.Profession,
		participant.Education,
	) + systemPrompt
}

// Stream opens an upstream completion for the given history. The system
// prompt goes first, then the conversation turns in order. Upstream
// failure before any content fails the whole call.
func (r *Relay) Stream(ctx context.Context, messages []survey.Message, systemPrompt string, participant *survey.Demographics) (survey.ChunkStream, error) {
	history := make([]llm.Message, 0, len(messages)+1)
	history = append(history, llm.Message{
		Role:    "system",
		Content: EnhanceSystemPrompt(systemPrompt, participant),
	})
	for _, m := range messages {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	return r.provider.ChatStream(ctx, history,
		llm.WithMaxTokens(maxTokens),
		llm.WithTemperature(temperature),
	)
}
