package entity

import (
	"time"

	"github.com/google/uuid"

	"sycophancy-survey-be/pkg/survey"
)

// StudySession is one participant working one challenge. CompletedAt is
// set when the challenge rating lands.
type StudySession struct {
	Id            uuid.UUID
	ParticipantId uuid.UUID
	ChallengeId   uuid.UUID
	CompletedAt   *time.Time
	CreatedAt     time.Time

	// Loaded on demand, not by every query.
	Conversations []Conversation
	Rating        *ChallengeRating
}

// Conversation is one agent thread of a study session, stored as the full
// message array.
type Conversation struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Side      survey.Agent
	Messages  []survey.Message
	CreatedAt time.Time
}

// ChallengeRating is the per-challenge preference a participant submits
// after talking to both agents.
type ChallengeRating struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	ChallengeId    uuid.UUID
	PreferredAgent string
	Reason         string
	CreatedAt      time.Time
}
