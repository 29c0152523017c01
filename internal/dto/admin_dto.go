package dto

import (
	"time"

	"github.com/google/uuid"

	"sycophancy-survey-be/pkg/survey"
)

type AdminLoginRequest struct {
	Secret string `json:"secret" validate:"required"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
}

type ParticipantSummary struct {
	Id                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Age               int       `json:"age"`
	Location          string    `json:"location"`
	Profession        string    `json:"profession"`
	Education         string    `json:"education"`
	ConsentedAt       time.Time `json:"consented_at"`
	TotalSessions     int       `json:"total_sessions"`
	CompletedSessions int       `json:"completed_sessions"`
	IsComplete        bool      `json:"is_complete"`
}

type ConversationDetail struct {
	Side     string        `json:"side"`
	Messages []ChatMessage `json:"messages"`
}

type SessionDetail struct {
	Id              uuid.UUID            `json:"id"`
	ChallengeId     uuid.UUID            `json:"challenge_id"`
	ChallengeNumber int                  `json:"challenge_number"`
	ChallengeTitle  string               `json:"challenge_title"`
	PreferredAgent  string               `json:"preferred_agent,omitempty"`
	Reason          string               `json:"reason,omitempty"`
	Conversations   []ConversationDetail `json:"conversations"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

type ParticipantDetails struct {
	ParticipantSummary
	FinalRatings map[string]survey.RatingAnswer `json:"final_ratings,omitempty"`
	Sessions     []SessionDetail                `json:"sessions"`
}

type ChallengeStats struct {
	ChallengeNumber int     `json:"challenge_number"`
	ChallengeTitle  string  `json:"challenge_title"`
	SessionsTotal   int     `json:"sessions_total"`
	SessionsDone    int     `json:"sessions_done"`
	PreferredA      int     `json:"preferred_a"`
	PreferredB      int     `json:"preferred_b"`
	NoPreference    int     `json:"no_preference"`
	PreferenceRateA float64 `json:"preference_rate_a"`
}

type StatsResponse struct {
	TotalParticipants     int              `json:"total_participants"`
	CompletedParticipants int              `json:"completed_participants"`
	TotalSessions         int              `json:"total_sessions"`
	CompletedSessions     int              `json:"completed_sessions"`
	CompletionRate        float64          `json:"completion_rate"`
	Challenges            []ChallengeStats `json:"challenges"`
}

type ExportMetadata struct {
	ExportedAt        time.Time `json:"exported_at"`
	TotalParticipants int       `json:"total_participants"`
	TotalSessions     int       `json:"total_sessions"`
	TotalChallenges   int       `json:"total_challenges"`
}

type ExportData struct {
	Metadata     ExportMetadata       `json:"metadata"`
	Challenges   []ChallengeResponse  `json:"challenges"`
	Participants []ParticipantDetails `json:"participants"`
}

type SeedResponse struct {
	Message          string `json:"message"`
	ParticipantsMade int    `json:"participants_made"`
	SessionsMade     int    `json:"sessions_made"`
}
