package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StudySession struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ParticipantId uuid.UUID  `gorm:"type:uuid;index;not null"`
	ChallengeId   uuid.UUID  `gorm:"type:uuid;index;not null"`
	CompletedAt   *time.Time `gorm:"index"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`

	Participant *Participant `gorm:"foreignKey:ParticipantId"`
	Challenge   *Challenge   `gorm:"foreignKey:ChallengeId"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

type Conversation struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID      `gorm:"type:uuid;index;not null"`
	Side      string         `gorm:"type:varchar(1);not null"`
	Messages  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ChallengeRating struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ChallengeId    uuid.UUID `gorm:"type:uuid;index;not null"`
	PreferredAgent *string   `gorm:"type:varchar(1)"`
	Reason         string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (ChallengeRating) TableName() string {
	return "challenge_ratings"
}
