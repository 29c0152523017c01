package model

import (
	"time"

	"github.com/google/uuid"
)

type Challenge struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number        int       `gorm:"uniqueIndex;not null"`
	Title         string    `gorm:"type:text;not null"`
	UserPrompt    string    `gorm:"type:text;not null"`
	SystemPromptA string    `gorm:"type:text;not null"`
	SystemPromptB string    `gorm:"type:text;not null"`
	UseUserData   bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Challenge) TableName() string {
	return "challenges"
}
