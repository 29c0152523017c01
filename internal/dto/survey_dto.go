package dto

import (
	"time"

	"github.com/google/uuid"

	"sycophancy-survey-be/pkg/survey"
)

type CreateParticipantRequest struct {
	Name       string `json:"name" validate:"required"`
	Age        int    `json:"age" validate:"required,gte=18,lte=120"`
	Location   string `json:"location" validate:"required"`
	Profession string `json:"profession" validate:"required"`
	Education  string `json:"education" validate:"required,oneof=high-school bachelors masters phd other"`
}

type CreateParticipantResponse struct {
	Id uuid.UUID `json:"id"`
}

type ChallengeResponse struct {
	Id            uuid.UUID `json:"id"`
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	UserPrompt    string    `json:"user_prompt"`
	SystemPromptA string    `json:"system_prompt_a"`
	SystemPromptB string    `json:"system_prompt_b"`
	UseUserData   bool      `json:"use_user_data"`
}

type CreateSessionRequest struct {
	ParticipantId uuid.UUID `json:"participant_id" validate:"required"`
	ChallengeId   uuid.UUID `json:"challenge_id" validate:"required"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type ChatMessage struct {
	Role      string `json:"role" validate:"required,oneof=user assistant"`
	Content   string `json:"content" validate:"required"`
	Timestamp int64  `json:"timestamp"`
}

type ConversationPayload struct {
	Side     string        `json:"side" validate:"required,oneof=A B"`
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

type SaveConversationsRequest struct {
	Conversations []ConversationPayload `json:"conversations" validate:"required,min=1,max=2,dive"`
}

type SaveChallengeRatingRequest struct {
	SessionId      uuid.UUID `json:"session_id" validate:"required"`
	ChallengeId    uuid.UUID `json:"challenge_id" validate:"required"`
	PreferredAgent string    `json:"preferred_agent" validate:"omitempty,oneof=A B"`
	Reason         string    `json:"reason"`
}

type RatingAnswerPayload struct {
	Kind   string `json:"kind" validate:"required,oneof=likert choice free_text"`
	Likert int    `json:"likert,omitempty"`
	Choice string `json:"choice,omitempty"`
	Text   string `json:"text,omitempty"`
}

type SaveFinalRatingsRequest struct {
	Ratings map[string]RatingAnswerPayload `json:"ratings" validate:"required,min=1"`
}

type SessionSummaryResponse struct {
	Id              uuid.UUID  `json:"id"`
	ChallengeId     uuid.UUID  `json:"challenge_id"`
	ChallengeNumber int        `json:"challenge_number"`
	ChallengeTitle  string     `json:"challenge_title"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ToSurveyAnswer converts the wire payload into the domain union.
func (p RatingAnswerPayload) ToSurveyAnswer() survey.RatingAnswer {
	return survey.RatingAnswer{
		Kind:   survey.RatingKind(p.Kind),
		Likert: p.Likert,
		Choice: p.Choice,
		Text:   p.Text,
	}
}

// ToSurveyMessages converts wire messages into domain messages.
func ToSurveyMessages(messages []ChatMessage) []survey.Message {
	out := make([]survey.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, survey.Message{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
	return out
}

// ToRatingAnswers converts a wire answer map into the domain map.
func ToRatingAnswers(payload map[string]RatingAnswerPayload) map[string]survey.RatingAnswer {
	out := make(map[string]survey.RatingAnswer, len(payload))
	for id, answer := range payload {
		out[id] = answer.ToSurveyAnswer()
	}
	return out
}
