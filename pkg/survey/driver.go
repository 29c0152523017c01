package survey

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxQuestions is the per-thread question budget. Deployments run
	// with 3 or 5.
	DefaultMaxQuestions = 3

	// MinQuestions is the per-thread floor before a challenge may complete.
	MinQuestions = 1
)

// streamErrorMessage replaces the assistant placeholder when the relay
// fails. The fixed wording is part of the participant-facing contract.
const streamErrorMessage = "Sorry, I encountered an error. Please try again."

// Challenge is the task definition driven through both agent threads.
type Challenge struct {
	ID            string
	Number        int
	Title         string
	UserPrompt    string
	SystemPromptA string
	SystemPromptB string
	UseUserData   bool
}

// SystemPrompt returns the agent-specific system prompt.
func (c Challenge) SystemPrompt(agent Agent) string {
	if agent == AgentB {
		return c.SystemPromptB
	}
	return c.SystemPromptA
}

// ChunkStream is a pull-based stream of incremental assistant text.
type ChunkStream interface {
	// Recv returns the next chunk; ok is false once the stream is finished.
	Recv() (chunk string, ok bool)
	// Err reports why the stream ended, nil on clean completion.
	Err() error
	// Close releases the stream and aborts the upstream request.
	Close()
}

// Streamer produces an assistant reply stream for a conversation history.
// Implemented by the relay.
type Streamer interface {
	Stream(ctx context.Context, messages []Message, systemPrompt string, participant *Demographics) (ChunkStream, error)
}

// thread is one agent's conversation state. Each thread has its own lock
// so a stalled stream on one agent never blocks the other.
type thread struct {
	mu            sync.Mutex
	conversation  []Message
	questionsUsed int
	loading       bool
}

// Driver runs the two agent conversations for a single challenge. Sends
// to different agents may run concurrently; sends to the same agent are
// rejected while a reply is still streaming.
type Driver struct {
	challenge    Challenge
	participant  *Demographics
	streamer     Streamer
	maxQuestions int
	threads      map[Agent]*thread
	fired        atomic.Bool
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithMaxQuestions overrides the per-thread question budget.
func WithMaxQuestions(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.maxQuestions = n
		}
	}
}

func NewDriver(challenge Challenge, participant *Demographics, streamer Streamer, opts ...DriverOption) *Driver {
	d := &Driver{
		challenge:    challenge,
		participant:  participant,
		streamer:     streamer,
		maxQuestions: DefaultMaxQuestions,
		threads: map[Agent]*thread{
			AgentA: {conversation: []Message{}},
			AgentB: {conversation: []Message{}},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send appends the user message to the agent's thread, streams the
// assistant reply into a placeholder message, and invokes onChunk (may be
// nil) per received chunk. A relay failure rewrites the placeholder to the
// fixed error message and leaves the thread usable.
func (d *Driver) Send(ctx context.Context, agent Agent, content string, onChunk func(chunk string)) error {
	th, ok := d.threads[agent]
	if !ok {
		return ErrInvalidTransition
	}

	th.mu.Lock()
	if th.questionsUsed >= d.maxQuestions {
		th.mu.Unlock()
		return ErrQuestionLimit
	}
	if th.loading {
		th.mu.Unlock()
		return ErrQuestionLimit
	}
	th.questionsUsed++
	th.loading = true
	th.conversation = append(th.conversation, Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	})
	history := make([]Message, len(th.conversation))
	copy(history, th.conversation)
	th.conversation = append(th.conversation, Message{
		Role:      RoleAssistant,
		Timestamp: time.Now().UnixMilli(),
	})
	placeholder := len(th.conversation) - 1
	th.mu.Unlock()

	defer func() {
		th.mu.Lock()
		th.loading = false
		th.mu.Unlock()
	}()

	var participant *Demographics
	if d.challenge.UseUserData {
		participant = d.participant
	}

	stream, err := d.streamer.Stream(ctx, history, d.challenge.SystemPrompt(agent), participant)
	if err != nil {
		d.failThread(th, placeholder, onChunk)
		return nil
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		chunk, more := stream.Recv()
		if !more {
			break
		}
		reply.WriteString(chunk)
		th.mu.Lock()
		th.conversation[placeholder].Content = reply.String()
		th.conversation[placeholder].Timestamp = time.Now().UnixMilli()
		th.mu.Unlock()
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if stream.Err() != nil {
		d.failThread(th, placeholder, onChunk)
	}
	return nil
}

func (d *Driver) failThread(th *thread, placeholder int, onChunk func(string)) {
	th.mu.Lock()
	th.conversation[placeholder].Content = streamErrorMessage
	th.conversation[placeholder].Timestamp = time.Now().UnixMilli()
	th.mu.Unlock()
	if onChunk != nil {
		onChunk(streamErrorMessage)
	}
}

// AutoFire sends the challenge's fixed user prompt to both agents
// concurrently, exactly once per driver. Subsequent calls are no-ops, so
// a remount of the challenge screen cannot double-fire. The fired turns
// count toward the question minimum.
func (d *Driver) AutoFire(ctx context.Context) error {
	if !d.fired.CompareAndSwap(false, true) {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, agent := range []Agent{AgentA, AgentB} {
		g.Go(func() error {
			return d.Send(gctx, agent, d.challenge.UserPrompt, nil)
		})
	}
	return g.Wait()
}

// Fired reports whether the auto-fire prompt has been launched.
func (d *Driver) Fired() bool {
	return d.fired.Load()
}

// Conversation returns a copy of an agent's thread.
func (d *Driver) Conversation(agent Agent) []Message {
	th, ok := d.threads[agent]
	if !ok {
		return nil
	}
	th.mu.Lock()
	defer th.mu.Unlock()
	out := make([]Message, len(th.conversation))
	copy(out, th.conversation)
	return out
}

// QuestionsUsed returns how many user turns an agent's thread has consumed.
func (d *Driver) QuestionsUsed(agent Agent) int {
	th, ok := d.threads[agent]
	if !ok {
		return 0
	}
	th.mu.Lock()
	defer th.mu.Unlock()
	return th.questionsUsed
}

// QuestionsRemaining returns the unused question budget for an agent.
func (d *Driver) QuestionsRemaining(agent Agent) int {
	return d.maxQuestions - d.QuestionsUsed(agent)
}

// Loading reports whether an agent's reply is still streaming.
func (d *Driver) Loading(agent Agent) bool {
	th, ok := d.threads[agent]
	if !ok {
		return false
	}
	th.mu.Lock()
	defer th.mu.Unlock()
	return th.loading
}

// CanComplete reports whether both threads hit the question minimum.
func (d *Driver) CanComplete() bool {
	return d.QuestionsUsed(AgentA) >= MinQuestions && d.QuestionsUsed(AgentB) >= MinQuestions
}

// ChallengeID returns the backend id of the driven challenge.
func (d *Driver) ChallengeID() string {
	return d.challenge.ID
}

// ChallengeNumber returns the ordinal of the driven challenge.
func (d *Driver) ChallengeNumber() int {
	return d.challenge.Number
}
