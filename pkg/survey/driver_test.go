package survey

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStream replays fixed chunks and ends with a given error.
type scriptedStream struct {
	chunks []string
	err    error
	pos    int
}

func (s *scriptedStream) Recv() (string, bool) {
	if s.pos >= len(s.chunks) {
		return "", false
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, true
}

func (s *scriptedStream) Err() error { return s.err }
func (s *scriptedStream) Close()     {}

type fakeStreamer struct {
	mu       sync.Mutex
	calls    []string // system prompts seen, in order
	profiles []*Demographics
	chunks   []string
	openErr  error
	recvErr  error
}

func (f *fakeStreamer) Stream(_ context.Context, _ []Message, systemPrompt string, participant *Demographics) (ChunkStream, error) {
	f.mu.Lock()
	f.calls = append(f.calls, systemPrompt)
	f.profiles = append(f.profiles, participant)
	f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &scriptedStream{chunks: f.chunks, err: f.recvErr}, nil
}

func testChallenge() Challenge {
	return Challenge{
		ID:            "challenge-1",
		Number:        1,
		Title:         "Trip Planning",
		UserPrompt:    "Help me plan a trip",
		SystemPromptA: "prompt-a",
		SystemPromptB: "prompt-b",
		UseUserData:   true,
	}
}

func TestDriverSendStreamsReply(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"Hel", "lo ", "there"}}
	d := NewDriver(testChallenge(), nil, streamer)

	var received strings.Builder
	err := d.Send(context.Background(), AgentA, "hi", func(chunk string) {
		received.WriteString(chunk)
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello there", received.String())
	conv := d.Conversation(AgentA)
	require.Len(t, conv, 2)
	assert.Equal(t, RoleUser, conv[0].Role)
	assert.Equal(t, "hi", conv[0].Content)
	assert.Equal(t, RoleAssistant, conv[1].Role)
	assert.Equal(t, "Hello there", conv[1].Content)

	// The other thread stays untouched.
	assert.Empty(t, d.Conversation(AgentB))
	assert.Equal(t, 1, d.QuestionsUsed(AgentA))
	assert.Equal(t, 0, d.QuestionsUsed(AgentB))
}

func TestDriverSendUsesAgentSystemPrompt(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"ok"}}
	d := NewDriver(testChallenge(), &Demographics{Name: "Ada", Age: 30}, streamer)

	require.NoError(t, d.Send(context.Background(), AgentB, "hi", nil))
	require.Len(t, streamer.calls, 1)
	assert.Equal(t, "prompt-b", streamer.calls[0])
	require.NotNil(t, streamer.profiles[0])
	assert.Equal(t, "Ada", streamer.profiles[0].Name)
}

func TestDriverWithholdsProfileWhenDisabled(t *testing.T) {
	challenge := testChallenge()
	challenge.UseUserData = false
	streamer := &fakeStreamer{chunks: []string{"ok"}}
	d := NewDriver(challenge, &Demographics{Name: "Ada"}, streamer)

	require.NoError(t, d.Send(context.Background(), AgentA, "hi", nil))
	require.Len(t, streamer.profiles, 1)
	assert.Nil(t, streamer.profiles[0])
}

func TestDriverQuestionLimit(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"ok"}}
	d := NewDriver(testChallenge(), nil, streamer, WithMaxQuestions(2))

	require.NoError(t, d.Send(context.Background(), AgentA, "one", nil))
	require.NoError(t, d.Send(context.Background(), AgentA, "two", nil))
	assert.ErrorIs(t, d.Send(context.Background(), AgentA, "three", nil), ErrQuestionLimit)

	assert.Equal(t, 0, d.QuestionsRemaining(AgentA))
	assert.Equal(t, 2, d.QuestionsRemaining(AgentB))
	// The rejected turn leaves no trace in the conversation.
	assert.Len(t, d.Conversation(AgentA), 4)
}

func TestDriverStreamFailureWritesErrorMessage(t *testing.T) {
	streamer := &fakeStreamer{openErr: errors.New("upstream down")}
	d := NewDriver(testChallenge(), nil, streamer)

	var received strings.Builder
	err := d.Send(context.Background(), AgentA, "hi", func(chunk string) {
		received.WriteString(chunk)
	})
	require.NoError(t, err)

	conv := d.Conversation(AgentA)
	require.Len(t, conv, 2)
	assert.Equal(t, streamErrorMessage, conv[1].Content)
	assert.Equal(t, streamErrorMessage, received.String())

	// The question was still consumed and the thread remains usable.
	assert.Equal(t, 1, d.QuestionsUsed(AgentA))
	streamer.openErr = nil
	streamer.chunks = []string{"recovered"}
	require.NoError(t, d.Send(context.Background(), AgentA, "again", nil))
	conv = d.Conversation(AgentA)
	assert.Equal(t, "recovered", conv[3].Content)
}

func TestDriverMidStreamFailureWritesErrorMessage(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"partial "}, recvErr: errors.New("connection reset")}
	d := NewDriver(testChallenge(), nil, streamer)

	require.NoError(t, d.Send(context.Background(), AgentA, "hi", nil))
	conv := d.Conversation(AgentA)
	require.Len(t, conv, 2)
	assert.Equal(t, streamErrorMessage, conv[1].Content)
}

func TestDriverAutoFireOnce(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"reply"}}
	d := NewDriver(testChallenge(), nil, streamer)

	require.NoError(t, d.AutoFire(context.Background()))
	assert.True(t, d.Fired())
	assert.Equal(t, 1, d.QuestionsUsed(AgentA))
	assert.Equal(t, 1, d.QuestionsUsed(AgentB))

	convA := d.Conversation(AgentA)
	require.Len(t, convA, 2)
	assert.Equal(t, "Help me plan a trip", convA[0].Content)

	// Remount: the second call must not send anything.
	require.NoError(t, d.AutoFire(context.Background()))
	assert.Equal(t, 1, d.QuestionsUsed(AgentA))
	assert.Len(t, streamer.calls, 2)
}

func TestDriverCanComplete(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"reply"}}
	d := NewDriver(testChallenge(), nil, streamer)

	assert.False(t, d.CanComplete())
	require.NoError(t, d.Send(context.Background(), AgentA, "hi", nil))
	assert.False(t, d.CanComplete())
	require.NoError(t, d.Send(context.Background(), AgentB, "hi", nil))
	assert.True(t, d.CanComplete())
}

func TestDriverRejectsUnknownAgent(t *testing.T) {
	d := NewDriver(testChallenge(), nil, &fakeStreamer{})
	assert.ErrorIs(t, d.Send(context.Background(), Agent("C"), "hi", nil), ErrInvalidTransition)
}
