package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByNumber filters challenges by ordinal.
type ByNumber struct {
	Number int
}

func (s ByNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("number = ?", s.Number)
}

// ByParticipantID filters sessions by owning participant.
type ByParticipantID struct {
	ParticipantID uuid.UUID
}

func (s ByParticipantID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("participant_id = ?", s.ParticipantID)
}

// BySessionID filters conversations and ratings by study session.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// BySide filters conversations by agent side ("A" or "B").
type BySide struct {
	Side string
}

func (s BySide) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("side = ?", s.Side)
}

// Completed keeps only finished study sessions.
type Completed struct{}

func (s Completed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("completed_at IS NOT NULL")
}

// NotCompleted keeps only in-flight study sessions.
type NotCompleted struct{}

func (s NotCompleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("completed_at IS NULL")
}
