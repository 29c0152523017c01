package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Participant struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string         `gorm:"type:text;not null"`
	Age          int            `gorm:"not null"`
	Location     string         `gorm:"type:text;not null"`
	Profession   string         `gorm:"type:text;not null"`
	Education    string         `gorm:"type:varchar(32);not null"`
	FinalRatings datatypes.JSON `gorm:"type:jsonb"`
	ConsentedAt  time.Time      `gorm:"not null;autoCreateTime"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    *time.Time     `gorm:"autoUpdateTime"`
}

func (Participant) TableName() string {
	return "participants"
}
