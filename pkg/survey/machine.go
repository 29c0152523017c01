package survey

import (
	"context"
	"time"
)

// Recorder is the persistence collaborator awaited by the machine before a
// step transition commits. A failing recorder call blocks the transition,
// leaving the participant on their current step.
type Recorder interface {
	SaveConversations(ctx context.Context, backendSessionID string, convA, convB []Message) error
	SaveChallengeRating(ctx context.Context, backendSessionID, challengeID, preferredAgent, reason string) error
	CompleteSession(ctx context.Context, backendSessionID string) error
	SaveFinalRatings(ctx context.Context, participantID string, ratings map[string]RatingAnswer) error
}

// Machine drives one participant through the survey wizard. It restores
// its session from the store on construction, persists after every
// transition, and never moves backwards or skips a step. Not safe for
// concurrent use; callers serialize access per client.
type Machine struct {
	store    Store
	recorder Recorder
	session  *Session
}

// NewMachine loads the stored session or starts a fresh one. A fresh
// session is persisted immediately so a restart before the first
// transition still resumes at consent.
func NewMachine(ctx context.Context, store Store, recorder Recorder) (*Machine, error) {
	session, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	m := &Machine{store: store, recorder: recorder}
	if session != nil {
		m.session = session
		return m, nil
	}
	m.session = NewSession()
	if err := store.Save(ctx, m.session); err != nil {
		return nil, err
	}
	return m, nil
}

// Session returns a copy of the current session state.
func (m *Machine) Session() Session {
	return *m.session
}

// Step returns the current wizard position.
func (m *Machine) Step() Step {
	return m.session.CurrentStep
}

// ProgressPercent returns the session's completion percentage.
func (m *Machine) ProgressPercent() float64 {
	return m.session.Progress()
}

func (m *Machine) require(step Step) error {
	if m.session.IsComplete {
		return ErrSessionComplete
	}
	if m.session.CurrentStep != step {
		return ErrInvalidTransition
	}
	return nil
}

// GiveConsent moves consent -> demographics.
func (m *Machine) GiveConsent(ctx context.Context) error {
	if err := m.require(StepConsent); err != nil {
		return err
	}
	m.session.CurrentStep = StepDemographics
	return m.store.Save(ctx, m.session)
}

// SubmitDemographics records the participant profile and its backend id,
// then moves demographics -> challenge 1. The profile is immutable after
// this call.
func (m *Machine) SubmitDemographics(ctx context.Context, data Demographics, participantID string) error {
	if err := m.require(StepDemographics); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	m.session.ParticipantData = &data
	m.session.ParticipantID = participantID
	m.session.CurrentStep = StepChallenge
	m.session.CurrentChallengeNumber = 1
	return m.store.Save(ctx, m.session)
}

// StartChallenge attaches a backend session id to the current challenge's
// progress entry. Idempotent per challenge: restarting keeps existing
// conversations.
func (m *Machine) StartChallenge(ctx context.Context, backendSessionID string) error {
	if err := m.require(StepChallenge); err != nil {
		return err
	}
	progress := m.session.FindProgress(m.session.CurrentChallengeNumber)
	if progress == nil {
		m.session.UpsertProgress(ChallengeProgress{
			ChallengeNumber: m.session.CurrentChallengeNumber,
			SessionID:       backendSessionID,
			ConversationA:   []Message{},
			ConversationB:   []Message{},
		})
	} else {
		progress.SessionID = backendSessionID
	}
	return m.store.Save(ctx, m.session)
}

// SaveChallengeProgress snapshots both conversations for a challenge
// without moving the wizard. Store-only; used while a challenge is in
// flight so a refresh resumes mid-conversation.
func (m *Machine) SaveChallengeProgress(ctx context.Context, challengeNumber int, backendSessionID string, convA, convB []Message) error {
	if m.session.IsComplete {
		return ErrSessionComplete
	}
	existing := m.session.FindProgress(challengeNumber)
	updated := ChallengeProgress{
		ChallengeNumber: challengeNumber,
		SessionID:       backendSessionID,
		ConversationA:   convA,
		ConversationB:   convB,
	}
	if existing != nil {
		updated.PreferredAgent = existing.PreferredAgent
		updated.Reason = existing.Reason
		updated.CompletedAt = existing.CompletedAt
		if updated.SessionID == "" {
			updated.SessionID = existing.SessionID
		}
	}
	m.session.UpsertProgress(updated)
	return m.store.Save(ctx, m.session)
}

// CompleteChallenge persists both conversations through the recorder, then
// moves challenge -> rating. Both conversations must be non-empty.
func (m *Machine) CompleteChallenge(ctx context.Context, convA, convB []Message) error {
	if err := m.require(StepChallenge); err != nil {
		return err
	}
	if len(convA) == 0 || len(convB) == 0 {
		return ErrEmptyConversation
	}
	number := m.session.CurrentChallengeNumber
	progress := m.session.FindProgress(number)
	sessionID := ""
	if progress != nil {
		sessionID = progress.SessionID
	}
	if err := m.recorder.SaveConversations(ctx, sessionID, convA, convB); err != nil {
		return err
	}
	updated := ChallengeProgress{
		ChallengeNumber: number,
		SessionID:       sessionID,
		ConversationA:   convA,
		ConversationB:   convB,
	}
	m.session.UpsertProgress(updated)
	m.session.CurrentStep = StepRating
	return m.store.Save(ctx, m.session)
}

// SubmitChallengeRating persists the rating and marks the backend session
// complete, then advances: challenge 5 -> final, otherwise the next
// challenge with conversations cleared.
func (m *Machine) SubmitChallengeRating(ctx context.Context, challengeID, preferredAgent, reason string) error {
	if err := m.require(StepRating); err != nil {
		return err
	}
	number := m.session.CurrentChallengeNumber
	progress := m.session.FindProgress(number)
	sessionID := ""
	if progress != nil {
		sessionID = progress.SessionID
	}
	if err := m.recorder.SaveChallengeRating(ctx, sessionID, challengeID, preferredAgent, reason); err != nil {
		return err
	}
	if err := m.recorder.CompleteSession(ctx, sessionID); err != nil {
		return err
	}
	now := time.Now()
	if progress != nil {
		progress.PreferredAgent = preferredAgent
		progress.Reason = reason
		progress.CompletedAt = &now
	}
	if number >= ChallengeCount {
		m.session.CurrentStep = StepFinal
	} else {
		m.session.CurrentStep = StepChallenge
		m.session.CurrentChallengeNumber = number + 1
	}
	return m.store.Save(ctx, m.session)
}

// SubmitFinalRatings validates and persists the final questionnaire, then
// moves final -> complete. The session becomes terminal and read-only.
func (m *Machine) SubmitFinalRatings(ctx context.Context, ratings map[string]RatingAnswer) error {
	if err := m.require(StepFinal); err != nil {
		return err
	}
	if err := ValidateFinalRatings(ratings); err != nil {
		return err
	}
	if err := m.recorder.SaveFinalRatings(ctx, m.session.ParticipantID, ratings); err != nil {
		return err
	}
	now := time.Now()
	m.session.FinalRatings = ratings
	m.session.CurrentStep = StepComplete
	m.session.IsComplete = true
	m.session.Timestamps.Completed = &now
	return m.store.Save(ctx, m.session)
}

// Reset clears the slot and starts a fresh session at consent.
func (m *Machine) Reset(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.session = NewSession()
	return m.store.Save(ctx, m.session)
}
