package entity

import (
	"time"

	"github.com/google/uuid"

	"sycophancy-survey-be/pkg/survey"
)

// Participant is an enrolled study participant. FinalRatings stays nil
// until the closing questionnaire is submitted.
type Participant struct {
	Id           uuid.UUID
	Name         string
	Age          int
	Location     string
	Profession   string
	Education    string
	FinalRatings map[string]survey.RatingAnswer
	ConsentedAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Completed reports whether the participant finished the whole survey.
func (p *Participant) Completed() bool {
	return len(p.FinalRatings) > 0
}
