package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/internal/repository/memory"
	"sycophancy-survey-be/pkg/survey"
)

// StoreFactory hands out the session slot store for one client key.
type StoreFactory func(clientKey string) survey.Store

type IWorkflowService interface {
	State(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error)
	Consent(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error)
	Demographics(ctx context.Context, clientKey string, req dto.CreateParticipantRequest) (*dto.WorkflowStateResponse, error)
	StartChallenge(ctx context.Context, clientKey string) (*dto.StartChallengeResponse, error)
	SendMessage(ctx context.Context, clientKey string, req dto.SendMessageRequest, onChunk func(chunk string)) error
	CompleteChallenge(ctx context.Context, clientKey string, req *dto.CompleteChallengeRequest) (*dto.WorkflowStateResponse, error)
	SubmitRating(ctx context.Context, clientKey string, req dto.WorkflowRatingRequest) (*dto.WorkflowStateResponse, error)
	SubmitFinal(ctx context.Context, clientKey string, req dto.SaveFinalRatingsRequest) (*dto.WorkflowStateResponse, error)
	Reset(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error)
}

// workflowService drives the wizard server-side: one machine per client
// key, one driver per in-flight challenge. Machine access is serialized
// per client; driver threads manage their own locking so the two agents
// can stream concurrently.
type workflowService struct {
	surveyService ISurveyService
	storeFactory  StoreFactory
	runtimes      *memory.WorkflowRepository
	streamer      survey.Streamer
	maxQuestions  int
	autoFire      bool
	logger        logger.ILogger

	locks sync.Map // clientKey -> *sync.Mutex
}

func NewWorkflowService(
	surveyService ISurveyService,
	storeFactory StoreFactory,
	runtimes *memory.WorkflowRepository,
	streamer survey.Streamer,
	maxQuestions int,
	autoFire bool,
	log logger.ILogger,
) IWorkflowService {
	return &workflowService{
		surveyService: surveyService,
		storeFactory:  storeFactory,
		runtimes:      runtimes,
		streamer:      streamer,
		maxQuestions:  maxQuestions,
		autoFire:      autoFire,
		logger:        log,
	}
}

func (s *workflowService) lock(clientKey string) func() {
	raw, _ := s.locks.LoadOrStore(clientKey, &sync.Mutex{})
	mu := raw.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// recorder adapts the survey service to the machine's persistence
// collaborator contract.
type recorder struct {
	surveyService ISurveyService
}

func (r *recorder) SaveConversations(ctx context.Context, backendSessionID string, convA, convB []survey.Message) error {
	sessionId, err := uuid.Parse(backendSessionID)
	if err != nil {
		return err
	}
	return r.surveyService.SaveConversations(ctx, sessionId, dto.SaveConversationsRequest{
		Conversations: []dto.ConversationPayload{
			{Side: string(survey.AgentA), Messages: dto.FromSurveyMessages(convA)},
			{Side: string(survey.AgentB), Messages: dto.FromSurveyMessages(convB)},
		},
	})
}

func (r *recorder) SaveChallengeRating(ctx context.Context, backendSessionID, challengeID, preferredAgent, reason string) error {
	sessionId, err := uuid.Parse(backendSessionID)
	if err != nil {
		return err
	}
	challengeId, err := uuid.Parse(challengeID)
	if err != nil {
		return err
	}
	return r.surveyService.SaveChallengeRating(ctx, dto.SaveChallengeRatingRequest{
		SessionId:      sessionId,
		ChallengeId:    challengeId,
		PreferredAgent: preferredAgent,
		Reason:         reason,
	})
}

func (r *recorder) CompleteSession(ctx context.Context, backendSessionID string) error {
	sessionId, err := uuid.Parse(backendSessionID)
	if err != nil {
		return err
	}
	return r.surveyService.CompleteSession(ctx, sessionId)
}

func (r *recorder) SaveFinalRatings(ctx context.Context, participantID string, ratings map[string]survey.RatingAnswer) error {
	participantId, err := uuid.Parse(participantID)
	if err != nil {
		return err
	}
	return r.surveyService.SaveFinalRatings(ctx, participantId, ratings)
}

// runtime returns the cached runtime for a client, rebuilding the machine
// from the session store after a cache miss or process restart.
func (s *workflowService) runtime(ctx context.Context, clientKey string) (*survey.Runtime, error) {
	if rt, ok := s.runtimes.Get(clientKey); ok {
		return rt, nil
	}
	machine, err := survey.NewMachine(ctx, s.storeFactory(clientKey), &recorder{surveyService: s.surveyService})
	if err != nil {
		return nil, err
	}
	rt := &survey.Runtime{Machine: machine}
	s.runtimes.Save(clientKey, rt)
	return rt, nil
}

func (s *workflowService) stateResponse(rt *survey.Runtime) *dto.WorkflowStateResponse {
	session := rt.Machine.Session()
	resp := &dto.WorkflowStateResponse{
		SessionId:              session.SessionID,
		ParticipantId:          session.ParticipantID,
		CurrentStep:            session.CurrentStep,
		CurrentChallengeNumber: session.CurrentChallengeNumber,
		Progress:               session.Progress(),
		IsComplete:             session.IsComplete,
		Info:                   session.Info(),
	}
	if rt.Driver != nil {
		resp.CanComplete = rt.Driver.CanComplete()
		resp.QuestionsRemainingA = rt.Driver.QuestionsRemaining(survey.AgentA)
		resp.QuestionsRemainingB = rt.Driver.QuestionsRemaining(survey.AgentB)
		resp.ConversationA = dto.FromSurveyMessages(rt.Driver.Conversation(survey.AgentA))
		resp.ConversationB = dto.FromSurveyMessages(rt.Driver.Conversation(survey.AgentB))
	} else if progress := session.FindProgress(session.CurrentChallengeNumber); progress != nil {
		resp.ConversationA = dto.FromSurveyMessages(progress.ConversationA)
		resp.ConversationB = dto.FromSurveyMessages(progress.ConversationB)
	}
	return resp
}

func (s *workflowService) State(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error) {
	unlock := s.lock(clientKey)
	defer unlock()

	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		return nil, err
	}
	return s.stateResponse(rt), nil
}

func (s *workflowService) Consent(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error) {
	unlock := s.lock(clientKey)
	defer unlock()

	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		return nil, err
	}
	if err := rt.Machine.GiveConsent(ctx); err != nil {
		return nil, err
	}
	return s.stateResponse(rt), nil
}

func (s *workflowService) Demographics(ctx context.Context, clientKey string, req dto.CreateParticipantRequest) (*dto.WorkflowStateResponse, error) {
	unlock := s.lock(clientKey)
	defer unlock()

	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		return nil, err
	}
	if rt.Machine.Step() != survey.StepDemographics {
		return nil, survey.ErrInvalidTransition
	}

	created, err := s.surveyService.CreateParticipant(ctx, req)
	if err != nil {
		return nil, err
	}
	data := survey.Demographics{
		Name:       req.Name,
		Age:        req.Age,
		Location:   req.Location,
		Profession: req.Profession,
		Education:  req.Education,
	}
	if err := rt.Machine.SubmitDemographics(ctx, data, created.Id.String()); err != nil {
		return nil, err
	}
	return s.stateResponse(rt), nil
}

func (s *workflowService) StartChallenge(ctx context.Context, clientKey string) (*dto.StartChallengeResponse, error) {
	unlock := s.lock(clientKey)
	defer unlock()

	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		return nil, err
	}
	if rt.Machine.Step() != survey.StepChallenge {
		return nil, survey.ErrInvalidTransition
	}

	session := rt.Machine.Session()
	number := session.CurrentChallengeNumber

	challenge, err := s.surveyService.GetChallengeByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	// Screen remount: keep the running driver, do not re-fire.
	if rt.Driver != nil && rt.Driver.ChallengeNumber() == number {
		if progress := session.FindProgress(number); progress != nil {
			return &dto.StartChallengeResponse{
				SessionId: progress.SessionID,
				Challenge: *challenge,
			}, nil
		}
	}

	participantId, err := uuid.Parse(session.ParticipantID)
	if err != nil {
		return nil, err
	}
	backendSession, err := s.surveyService.CreateSession(ctx, dto.CreateSessionRequest{
		ParticipantId: participantId,
		ChallengeId:   challenge.Id,
	})
	if err != nil {
		return nil, err
	}
	if err := rt.Machine.StartChallenge(ctx, backendSession.Id.String()); err != nil {
		return nil, err
	}

	driver := survey.NewDriver(
		survey.Challenge{
			ID:            challenge.Id.String(),
			Number:        challenge.Number,
			Title:         challenge.Title,
			UserPrompt:    challenge.UserPrompt,
			SystemPromptA: challenge.SystemPromptA,
			SystemPromptB: challenge.SystemPromptB,
			UseUserData:   challenge.UseUserData,
		},
		session.ParticipantData,
		s.streamer,
		survey.WithMaxQuestions(s.maxQuestions),
	)
	rt.Driver = driver
	s.runtimes.Save(clientKey, rt)

	if s.autoFire {
		if err := driver.AutoFire(ctx); err != nil {
			s.logger.Warn("WorkflowService", "Auto-fire failed", map[string]interface{}{
				"client": clientKey,
				"error":  err.Error(),
			})
		}
		s.snapshot(ctx, rt, backendSession.Id.String())
	}

	return &dto.StartChallengeResponse{
		SessionId: backendSession.Id.String(),
		Challenge: *challenge,
	}, nil
}

// snapshot persists both driver threads into the session slot so a
// refresh resumes mid-conversation. Caller holds the client lock.
func (s *workflowService) snapshot(ctx context.Context, rt *survey.Runtime, backendSessionID string) {
	if rt.Driver == nil {
		return
	}
	err := rt.Machine.SaveChallengeProgress(ctx,
		rt.Driver.ChallengeNumber(),
		backendSessionID,
		rt.Driver.Conversation(survey.AgentA),
		rt.Driver.Conversation(survey.AgentB),
	)
	if err != nil {
		s.logger.Warn("WorkflowService", "Progress snapshot failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *workflowService) SendMessage(ctx context.Context, clientKey string, req dto.SendMessageRequest, onChunk func(chunk string)) error {
	unlock := s.lock(clientKey)
	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		unlock()
		return err
	}
	if rt.Machine.Step() != survey.StepChallenge || rt.Driver == nil {
		unlock()
		return survey.ErrInvalidTransition
	}
	driver := rt.Driver
	session := rt.Machine.Session()
	backendSessionID := ""
	if progress := session.FindProgress(driver.ChallengeNumber()); progress != nil {
		backendSessionID = progress.SessionID
	}
	// Release the machine lock while streaming so the other agent thread
	// stays responsive.
	unlock()

	if err := driver.Send(ctx, survey.Agent(req.Agent), req.Content, onChunk); err != nil {
		return err
	}

	unlock = s.lock(clientKey)
	defer unlock()
	s.snapshot(ctx, rt, backendSessionID)
	return nil
}

func (s *workflowService) CompleteChallenge(ctx context.Context, clientKey string, req *dto.CompleteChallengeRequest) (*dto.WorkflowStateResponse, error) {
	unlock := s.lock(clientKey)
	defer unlock()

	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		return nil, err
	}

	var convA, convB []survey.Message
	if req != nil {
		convA = dto.ToSurveyMessages(req.ConversationA)
		convB = dto.ToSurveyMessages(req.ConversationB)
	} else if rt.Driver != nil {
		convA = rt.Driver.Conversation(survey.AgentA)
		convB = rt.Driver.Conversation(survey.AgentB)
	}

	if err := rt.Machine.CompleteChallenge(ctx, convA, convB); err != nil {
		return nil, err
	}
	return s.stateResponse(rt), nil
}

// challengeIdForRating resolves the challenge being rated, surviving a
// driver loss (process restart between challenge and rating).
func (s *workflowService) challengeIdForRating(ctx context.Context, rt *survey.Runtime) (string, error) {
	if rt.Driver != nil {
		return rt.Driver.ChallengeID(), nil
	}
	session := rt.Machine.Session()
	challenge, err := s.surveyService.GetChallengeByNumber(ctx, session.CurrentChallengeNumber)
	if err != nil {
		return "", err
	}
	return challenge.Id.String(), nil
}

func (s *workflowService) SubmitRating(ctx context.Context, clientKey string, req dto.WorkflowRatingRequest) (*dto.WorkflowStateResponse, error) {
	unlock := s.lock(clientKey)
	defer unlock()

	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		return nil, err
	}
	challengeId, err := s.challengeIdForRating(ctx, rt)
	if err != nil {
		return nil, err
	}
	if err := rt.Machine.SubmitChallengeRating(ctx, challengeId, req.PreferredAgent, req.Reason); err != nil {
		return nil, err
	}

	// The next challenge gets a fresh driver.
	rt.Driver = nil
	s.runtimes.Save(clientKey, rt)
	return s.stateResponse(rt), nil
}

func (s *workflowService) SubmitFinal(ctx context.Context, clientKey string, req dto.SaveFinalRatingsRequest) (*dto.WorkflowStateResponse, error) {
	unlock := s.lock(clientKey)
	defer unlock()

	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		return nil, err
	}
	if err := rt.Machine.SubmitFinalRatings(ctx, dto.ToRatingAnswers(req.Ratings)); err != nil {
		return nil, err
	}
	return s.stateResponse(rt), nil
}

func (s *workflowService) Reset(ctx context.Context, clientKey string) (*dto.WorkflowStateResponse, error) {
	unlock := s.lock(clientKey)
	defer unlock()

	rt, err := s.runtime(ctx, clientKey)
	if err != nil {
		return nil, err
	}
	if err := rt.Machine.Reset(ctx); err != nil {
		return nil, err
	}
	rt.Driver = nil
	s.runtimes.Save(clientKey, rt)
	return s.stateResponse(rt), nil
}
