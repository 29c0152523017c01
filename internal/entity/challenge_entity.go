package entity

import (
	"time"

	"github.com/google/uuid"
)

// Challenge is one of the five fixed study tasks. Each carries two system
// prompts, one per agent persona.
type Challenge struct {
	Id            uuid.UUID
	Number        int
	Title         string
	UserPrompt    string
	SystemPromptA string
	SystemPromptB string
	UseUserData   bool
	CreatedAt     time.Time
}
