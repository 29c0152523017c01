package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderCall struct {
	name      string
	sessionID string
}

type fakeRecorder struct {
	calls   []recorderCall
	failOn  string
	ratings map[string]RatingAnswer
}

func (r *fakeRecorder) call(name, sessionID string) error {
	if r.failOn == name {
		return errors.New("recorder down")
	}
	r.calls = append(r.calls, recorderCall{name: name, sessionID: sessionID})
	return nil
}

func (r *fakeRecorder) SaveConversations(_ context.Context, sessionID string, _, _ []Message) error {
	return r.call("SaveConversations", sessionID)
}

func (r *fakeRecorder) SaveChallengeRating(_ context.Context, sessionID, _, _, _ string) error {
	return r.call("SaveChallengeRating", sessionID)
}

func (r *fakeRecorder) CompleteSession(_ context.Context, sessionID string) error {
	return r.call("CompleteSession", sessionID)
}

func (r *fakeRecorder) SaveFinalRatings(_ context.Context, participantID string, ratings map[string]RatingAnswer) error {
	r.ratings = ratings
	return r.call("SaveFinalRatings", participantID)
}

func newTestStore() Store {
	return NewCacheStore(cache.New(cache.NoExpiration, 0), "test-client")
}

func validDemographics() Demographics {
	return Demographics{
		Name:       "Ada",
		Age:        30,
		Location:   "London",
		Profession: "Engineer",
		Education:  "phd",
	}
}

func validFinalRatings() map[string]RatingAnswer {
	ratings := map[string]RatingAnswer{}
	for id, kind := range FinalQuestionKinds {
		switch kind {
		case RatingLikert:
			ratings[id] = RatingAnswer{Kind: RatingLikert, Likert: 5}
		case RatingChoice:
			ratings[id] = RatingAnswer{Kind: RatingChoice, Choice: ChoiceAgentA}
		case RatingFreeText:
			ratings[id] = RatingAnswer{Kind: RatingFreeText, Text: "interesting study"}
		}
	}
	return ratings
}

func sampleConversation() []Message {
	return []Message{
		{Role: RoleUser, Content: "hello", Timestamp: 1},
		{Role: RoleAssistant, Content: "hi there", Timestamp: 2},
	}
}

func TestMachineStartsAtConsent(t *testing.T) {
	m, err := NewMachine(context.Background(), newTestStore(), &fakeRecorder{})
	require.NoError(t, err)

	assert.Equal(t, StepConsent, m.Step())
	assert.Equal(t, 5.0, m.ProgressPercent())
	assert.NotEmpty(t, m.Session().SessionID)
}

func TestMachineRestoresFromStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	m1, err := NewMachine(ctx, store, &fakeRecorder{})
	require.NoError(t, err)
	require.NoError(t, m1.GiveConsent(ctx))

	m2, err := NewMachine(ctx, store, &fakeRecorder{})
	require.NoError(t, err)
	assert.Equal(t, StepDemographics, m2.Step())
	assert.Equal(t, m1.Session().SessionID, m2.Session().SessionID)
}

func TestMachineFullWalkthrough(t *testing.T) {
	ctx := context.Background()
	recorder := &fakeRecorder{}
	m, err := NewMachine(ctx, newTestStore(), recorder)
	require.NoError(t, err)

	require.NoError(t, m.GiveConsent(ctx))
	require.NoError(t, m.SubmitDemographics(ctx, validDemographics(), "participant-1"))
	assert.Equal(t, StepChallenge, m.Step())
	assert.Equal(t, 1, m.Session().CurrentChallengeNumber)

	lastProgress := 0.0
	for number := 1; number <= ChallengeCount; number++ {
		require.NoError(t, m.StartChallenge(ctx, "backend-session"))
		require.NoError(t, m.CompleteChallenge(ctx, sampleConversation(), sampleConversation()))
		assert.Equal(t, StepRating, m.Step())

		progress := m.ProgressPercent()
		assert.Greater(t, progress, lastProgress)
		lastProgress = progress

		require.NoError(t, m.SubmitChallengeRating(ctx, "challenge-id", "A", "warmer"))
	}

	assert.Equal(t, StepFinal, m.Step())
	assert.Equal(t, 90.0, m.ProgressPercent())

	require.NoError(t, m.SubmitFinalRatings(ctx, validFinalRatings()))
	assert.Equal(t, StepComplete, m.Step())
	assert.True(t, m.Session().IsComplete)
	assert.Equal(t, 100.0, m.ProgressPercent())
	require.NotNil(t, m.Session().Timestamps.Completed)

	// Terminal: nothing moves anymore.
	assert.ErrorIs(t, m.GiveConsent(ctx), ErrSessionComplete)
	assert.ErrorIs(t, m.SubmitFinalRatings(ctx, validFinalRatings()), ErrSessionComplete)
}

func TestMachineRejectsSkippedSteps(t *testing.T) {
	ctx := context.Background()
	m, err := NewMachine(ctx, newTestStore(), &fakeRecorder{})
	require.NoError(t, err)

	assert.ErrorIs(t, m.SubmitDemographics(ctx, validDemographics(), "p1"), ErrInvalidTransition)
	assert.ErrorIs(t, m.CompleteChallenge(ctx, sampleConversation(), sampleConversation()), ErrInvalidTransition)
	assert.ErrorIs(t, m.SubmitChallengeRating(ctx, "c1", "A", ""), ErrInvalidTransition)
	assert.ErrorIs(t, m.SubmitFinalRatings(ctx, validFinalRatings()), ErrInvalidTransition)

	require.NoError(t, m.GiveConsent(ctx))
	assert.ErrorIs(t, m.GiveConsent(ctx), ErrInvalidTransition)
}

func TestMachineRejectsInvalidDemographics(t *testing.T) {
	ctx := context.Background()
	m, err := NewMachine(ctx, newTestStore(), &fakeRecorder{})
	require.NoError(t, err)
	require.NoError(t, m.GiveConsent(ctx))

	bad := validDemographics()
	bad.Age = 17
	assert.ErrorIs(t, m.SubmitDemographics(ctx, bad, "p1"), ErrInvalidDemographics)

	bad = validDemographics()
	bad.Education = "kindergarten"
	assert.ErrorIs(t, m.SubmitDemographics(ctx, bad, "p1"), ErrInvalidDemographics)

	// Still on demographics after the rejections.
	assert.Equal(t, StepDemographics, m.Step())
}

func TestMachineRejectsEmptyConversations(t *testing.T) {
	ctx := context.Background()
	m, err := NewMachine(ctx, newTestStore(), &fakeRecorder{})
	require.NoError(t, err)
	require.NoError(t, m.GiveConsent(ctx))
	require.NoError(t, m.SubmitDemographics(ctx, validDemographics(), "p1"))

	assert.ErrorIs(t, m.CompleteChallenge(ctx, nil, sampleConversation()), ErrEmptyConversation)
	assert.ErrorIs(t, m.CompleteChallenge(ctx, sampleConversation(), nil), ErrEmptyConversation)
	assert.Equal(t, StepChallenge, m.Step())
}

func TestMachineRecorderFailureBlocksTransition(t *testing.T) {
	ctx := context.Background()
	recorder := &fakeRecorder{failOn: "SaveConversations"}
	m, err := NewMachine(ctx, newTestStore(), recorder)
	require.NoError(t, err)
	require.NoError(t, m.GiveConsent(ctx))
	require.NoError(t, m.SubmitDemographics(ctx, validDemographics(), "p1"))

	err = m.CompleteChallenge(ctx, sampleConversation(), sampleConversation())
	assert.Error(t, err)
	assert.Equal(t, StepChallenge, m.Step())

	// Recorder recovers, the same transition succeeds.
	recorder.failOn = ""
	require.NoError(t, m.CompleteChallenge(ctx, sampleConversation(), sampleConversation()))
	assert.Equal(t, StepRating, m.Step())
}

func TestMachineStartChallengeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, err := NewMachine(ctx, newTestStore(), &fakeRecorder{})
	require.NoError(t, err)
	require.NoError(t, m.GiveConsent(ctx))
	require.NoError(t, m.SubmitDemographics(ctx, validDemographics(), "p1"))

	require.NoError(t, m.StartChallenge(ctx, "session-1"))
	require.NoError(t, m.SaveChallengeProgress(ctx, 1, "session-1", sampleConversation(), sampleConversation()))

	// Remount re-attaches without dropping the snapshot.
	require.NoError(t, m.StartChallenge(ctx, "session-1"))
	progress := m.session.FindProgress(1)
	require.NotNil(t, progress)
	assert.Equal(t, "session-1", progress.SessionID)
	assert.Len(t, progress.ConversationA, 2)
}

func TestMachineSaveChallengeProgressKeepsRating(t *testing.T) {
	ctx := context.Background()
	m, err := NewMachine(ctx, newTestStore(), &fakeRecorder{})
	require.NoError(t, err)
	require.NoError(t, m.GiveConsent(ctx))
	require.NoError(t, m.SubmitDemographics(ctx, validDemographics(), "p1"))
	require.NoError(t, m.StartChallenge(ctx, "session-1"))
	require.NoError(t, m.CompleteChallenge(ctx, sampleConversation(), sampleConversation()))
	require.NoError(t, m.SubmitChallengeRating(ctx, "challenge-1", "B", "more thorough"))

	// A late snapshot for challenge 1 must not erase its rating.
	require.NoError(t, m.SaveChallengeProgress(ctx, 1, "", sampleConversation(), sampleConversation()))
	progress := m.session.FindProgress(1)
	require.NotNil(t, progress)
	assert.Equal(t, "B", progress.PreferredAgent)
	assert.Equal(t, "more thorough", progress.Reason)
	assert.Equal(t, "session-1", progress.SessionID)
	assert.NotNil(t, progress.CompletedAt)
}

func TestMachineRatingAdvancesChallenges(t *testing.T) {
	ctx := context.Background()
	recorder := &fakeRecorder{}
	m, err := NewMachine(ctx, newTestStore(), recorder)
	require.NoError(t, err)
	require.NoError(t, m.GiveConsent(ctx))
	require.NoError(t, m.SubmitDemographics(ctx, validDemographics(), "p1"))
	require.NoError(t, m.StartChallenge(ctx, "session-1"))
	require.NoError(t, m.CompleteChallenge(ctx, sampleConversation(), sampleConversation()))
	require.NoError(t, m.SubmitChallengeRating(ctx, "challenge-1", "A", ""))

	assert.Equal(t, StepChallenge, m.Step())
	assert.Equal(t, 2, m.Session().CurrentChallengeNumber)

	// Rating persisted against the backend session, then the session closed.
	names := make([]string, 0, len(recorder.calls))
	for _, c := range recorder.calls {
		names = append(names, c.name)
	}
	assert.Equal(t, []string{"SaveConversations", "SaveChallengeRating", "CompleteSession"}, names)
}

func TestMachineReset(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	m, err := NewMachine(ctx, store, &fakeRecorder{})
	require.NoError(t, err)
	require.NoError(t, m.GiveConsent(ctx))
	oldID := m.Session().SessionID

	require.NoError(t, m.Reset(ctx))
	assert.Equal(t, StepConsent, m.Step())
	assert.NotEqual(t, oldID, m.Session().SessionID)

	restored, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, StepConsent, restored.CurrentStep)
}
