package dto

import "sycophancy-survey-be/pkg/survey"

type WorkflowStateResponse struct {
	SessionId              string             `json:"session_id"`
	ParticipantId          string             `json:"participant_id,omitempty"`
	CurrentStep            survey.Step        `json:"current_step"`
	CurrentChallengeNumber int                `json:"current_challenge_number"`
	Progress               float64            `json:"progress"`
	IsComplete             bool               `json:"is_complete"`
	CanComplete            bool               `json:"can_complete"`
	QuestionsRemainingA    int                `json:"questions_remaining_a"`
	QuestionsRemainingB    int                `json:"questions_remaining_b"`
	ConversationA          []ChatMessage      `json:"conversation_a,omitempty"`
	ConversationB          []ChatMessage      `json:"conversation_b,omitempty"`
	Info                   survey.SessionInfo `json:"info"`
}

type StartChallengeResponse struct {
	SessionId string            `json:"session_id"`
	Challenge ChallengeResponse `json:"challenge"`
}

type SendMessageRequest struct {
	Agent   string `json:"agent" validate:"required,oneof=A B"`
	Content string `json:"content" validate:"required"`
}

type CompleteChallengeRequest struct {
	ConversationA []ChatMessage `json:"conversation_a" validate:"required,min=1,dive"`
	ConversationB []ChatMessage `json:"conversation_b" validate:"required,min=1,dive"`
}

type WorkflowRatingRequest struct {
	PreferredAgent string `json:"preferred_agent" validate:"omitempty,oneof=A B"`
	Reason         string `json:"reason"`
}

// FromSurveyMessages converts domain messages into wire messages.
func FromSurveyMessages(messages []survey.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, ChatMessage{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
	return out
}
