package controller

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sycophancy-survey-be/internal/dto"
)

// floodWorkflowService emits a reply far larger than any socket buffer so
// the test can observe what happens when the reader stops mid-stream.
type floodWorkflowService struct {
	chunk  string
	count  int
	done   chan struct{}
	ctxErr error
}

func (s *floodWorkflowService) SendMessage(ctx context.Context, clientKey string, req dto.SendMessageRequest, onChunk func(chunk string)) error {
	defer close(s.done)
	for i := 0; i < s.count; i++ {
		onChunk(s.chunk)
	}
	s.ctxErr = ctx.Err()
	return nil
}

func (s *floodWorkflowService) State(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error) {
	return &dto.WorkflowStateResponse{}, nil
}

func (s *floodWorkflowService) Consent(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error) {
	return &dto.WorkflowStateResponse{}, nil
}

func (s *floodWorkflowService) Demographics(ctx context.Context, clientKey string, req dto.CreateParticipantRequest) (*dto.WorkflowStateResponse, error) {
	return &dto.WorkflowStateResponse{}, nil
}

func (s *floodWorkflowService) StartChallenge(ctx context.Context, clientKey string) (*dto.StartChallengeResponse, error) {
	return &dto.StartChallengeResponse{}, nil
}

func (s *floodWorkflowService) CompleteChallenge(ctx context.Context, clientKey string, req *dto.CompleteChallengeRequest) (*dto.WorkflowStateResponse, error) {
	return &dto.WorkflowStateResponse{}, nil
}

func (s *floodWorkflowService) SubmitRating(ctx context.Context, clientKey string, req dto.WorkflowRatingRequest) (*dto.WorkflowStateResponse, error) {
	return &dto.WorkflowStateResponse{}, nil
}

func (s *floodWorkflowService) SubmitFinal(ctx context.Context, clientKey string, req dto.SaveFinalRatingsRequest) (*dto.WorkflowStateResponse, error) {
	return &dto.WorkflowStateResponse{}, nil
}

func (s *floodWorkflowService) Reset(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error) {
	return &dto.WorkflowStateResponse{}, nil
}

// A browser that closes the tab mid-reply must not leave the agent thread
// stuck: the service callback has to keep returning so the send completes,
// clears the loading flag and persists the snapshot.
func TestSendMessageClientGoneMidStream(t *testing.T) {
	svc := &floodWorkflowService{
		chunk: strings.Repeat("x", 64),
		count: 200000,
		done:  make(chan struct{}),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	NewWorkflowController(svc).RegisterRoutes(app.Group("/api"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)

	body := `{"agent":"A","content":"hello"}`
	request := "POST /api/workflow/v1/challenge/message HTTP/1.1\r\n" +
		"Host: localhost\r\n" +
		"Content-Type: application/json\r\n" +
		"X-Survey-Client: gone-client\r\n" +
		fmt.Sprintf("Content-Length: %d\r\n", len(body)) +
		"\r\n" + body
	_, err = conn.Write([]byte(request))
	require.NoError(t, err)

	// Read a sliver of the response, then hang up.
	buf := make([]byte, 256)
	_, err = conn.Read(buf)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	select {
	case <-svc.done:
	case <-time.After(3 * time.Second):
		t.Fatal("service callback still blocked after the client disconnected")
	}
	assert.Error(t, svc.ctxErr, "stream context should be cancelled once the writer exits")
}
