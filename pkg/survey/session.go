package survey

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is bumped whenever the persisted session shape changes.
// Slots written under an older version are discarded on load.
const SchemaVersion = 1

// StorageKey is the fixed prefix under which session slots are stored.
const StorageKey = "sycophant_survey_session"

// ChallengeCount is the number of challenges every participant completes.
const ChallengeCount = 5

// Step is the wizard position. Transitions are linear and forward-only.
type Step string

const (
	StepConsent      Step = "consent"
	StepDemographics Step = "demographics"
	StepChallenge    Step = "challenge"
	StepRating       Step = "rating"
	StepFinal        Step = "final"
	StepComplete     Step = "complete"
)

// Agent identifies one of the two conversation threads.
type Agent string

const (
	AgentA Agent = "A"
	AgentB Agent = "B"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn. Timestamp is epoch milliseconds.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Education levels accepted from the demographics form.
var EducationLevels = []string{"high-school", "bachelors", "masters", "phd", "other"}

// Demographics is the participant profile. Immutable once submitted.
type Demographics struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Location   string `json:"location"`
	Profession string `json:"profession"`
	Education  string `json:"education"`
}

// Validate checks the demographics form server-side. The HTTP layer
// validates the same rules via struct tags; the machine re-checks so it
// cannot be driven into a bad state by a different caller.
func (d Demographics) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDemographics)
	}
	if d.Age < 18 || d.Age > 120 {
		return fmt.Errorf("%w: age must be between 18 and 120", ErrInvalidDemographics)
	}
	if strings.TrimSpace(d.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidDemographics)
	}
	if strings.TrimSpace(d.Profession) == "" {
		return fmt.Errorf("%w: profession is required", ErrInvalidDemographics)
	}
	for _, level := range EducationLevels {
		if d.Education == level {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown education level %q", ErrInvalidDemographics, d.Education)
}

// ChallengeProgress is the per-challenge record inside a session. Entries
// are upserted by ChallengeNumber.
type ChallengeProgress struct {
	ChallengeNumber int        `json:"challenge_number"`
	SessionID       string     `json:"session_id,omitempty"`
	ConversationA   []Message  `json:"conversation_a"`
	ConversationB   []Message  `json:"conversation_b"`
	PreferredAgent  string     `json:"preferred_agent,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Timestamps tracks the session lifecycle. All values serialize as ISO
// strings and survive a store round trip.
type Timestamps struct {
	Started      time.Time  `json:"started"`
	LastActivity time.Time  `json:"last_activity"`
	Completed    *time.Time `json:"completed,omitempty"`
}

// Session is the full resumable survey state for one participant.
type Session struct {
	SessionID              string              `json:"session_id"`
	ParticipantID          string              `json:"participant_id,omitempty"`
	CurrentStep            Step                `json:"current_step"`
	CurrentChallengeNumber int                 `json:"current_challenge_number"`
	ParticipantData        *Demographics       `json:"participant_data,omitempty"`
	ChallengeProgress      []ChallengeProgress `json:"challenge_progress"`
	FinalRatings           map[string]RatingAnswer `json:"final_ratings,omitempty"`
	IsComplete             bool                `json:"is_complete"`
	Timestamps             Timestamps          `json:"timestamps"`
	SchemaVersion          int                 `json:"schema_version"`
}

// NewSession returns a fresh session positioned at the consent step.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		SessionID:              fmt.Sprintf("survey_%d_%s", now.UnixMilli(), uuid.NewString()[:8]),
		CurrentStep:            StepConsent,
		CurrentChallengeNumber: 1,
		ChallengeProgress:      []ChallengeProgress{},
		Timestamps: Timestamps{
			Started:      now,
			LastActivity: now,
		},
		SchemaVersion: SchemaVersion,
	}
}

// Progress maps a wizard position to a completion percentage. The walk
// through the whole survey is monotonically non-decreasing and reaches
// 100 only at the complete step.
func Progress(step Step, challengeNumber int) float64 {
	switch step {
	case StepConsent:
		return 5
	case StepDemographics:
		return 10
	case StepChallenge:
		return 10 + float64(challengeNumber-1)*15
	case StepRating:
		return 10 + float64(challengeNumber-1)*15 + 7.5
	case StepFinal:
		return 90
	case StepComplete:
		return 100
	default:
		return 0
	}
}

// Progress reports the session's completion percentage.
func (s *Session) Progress() float64 {
	return Progress(s.CurrentStep, s.CurrentChallengeNumber)
}

// FindProgress returns the progress entry for a challenge number, or nil.
func (s *Session) FindProgress(challengeNumber int) *ChallengeProgress {
	for i := range s.ChallengeProgress {
		if s.ChallengeProgress[i].ChallengeNumber == challengeNumber {
			return &s.ChallengeProgress[i]
		}
	}
	return nil
}

// UpsertProgress replaces the entry matching p.ChallengeNumber or appends
// a new one, keeping at most one entry per challenge.
func (s *Session) UpsertProgress(p ChallengeProgress) {
	for i := range s.ChallengeProgress {
		if s.ChallengeProgress[i].ChallengeNumber == p.ChallengeNumber {
			s.ChallengeProgress[i] = p
			return
		}
	}
	s.ChallengeProgress = append(s.ChallengeProgress, p)
}

// SessionInfo is a lightweight summary of a stored session for debugging
// and admin surfaces.
type SessionInfo struct {
	SessionID    string    `json:"session_id"`
	CurrentStep  Step      `json:"current_step"`
	Progress     float64   `json:"progress"`
	IsComplete   bool      `json:"is_complete"`
	Started      time.Time `json:"started"`
	LastActivity time.Time `json:"last_activity"`
}

// Info summarizes the session.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		SessionID:    s.SessionID,
		CurrentStep:  s.CurrentStep,
		Progress:     s.Progress(),
		IsComplete:   s.IsComplete,
		Started:      s.Timestamps.Started,
		LastActivity: s.Timestamps.LastActivity,
	}
}

// IsExpired reports whether the session has been idle longer than maxAge.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return time.Since(s.Timestamps.LastActivity) > maxAge
}
