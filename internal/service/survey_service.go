package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sycophancy-survey-be/internal/constant"
	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/internal/repository/specification"
	"sycophancy-survey-be/internal/repository/unitofwork"
	"sycophancy-survey-be/pkg/events"
	"sycophancy-survey-be/pkg/survey"
)

type ISurveyService interface {
	CreateParticipant(ctx context.Context, req dto.CreateParticipantRequest) (*dto.CreateParticipantResponse, error)
	GetChallenges(ctx context.Context) ([]dto.ChallengeResponse, error)
	GetChallengeByNumber(ctx context.Context, number int) (*dto.ChallengeResponse, error)
	InitializeChallenges(ctx context.Context) (*dto.MessageResponse, error)
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	SaveConversations(ctx context.Context, sessionId uuid.UUID, req dto.SaveConversationsRequest) error
	SaveChallengeRating(ctx context.Context, req dto.SaveChallengeRatingRequest) error
	CompleteSession(ctx context.Context, sessionId uuid.UUID) error
	SaveFinalRatings(ctx context.Context, participantId uuid.UUID, ratings map[string]survey.RatingAnswer) error
	GetParticipantSessions(ctx context.Context, participantId uuid.UUID) ([]dto.SessionSummaryResponse, error)
}

type surveyService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSurveyService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) ISurveyService {
	return &surveyService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// publishEvent is best-effort; event delivery never fails the request.
func (s *surveyService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisherService == nil {
		return
	}
	if err := s.publisherService.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("SurveyService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *surveyService) CreateParticipant(ctx context.Context, req dto.CreateParticipantRequest) (*dto.CreateParticipantResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	participant := entity.Participant{
		Id:          uuid.New(),
		Name:        req.Name,
		Age:         req.Age,
		Location:    req.Location,
		Profession:  req.Profession,
		Education:   req.Education,
		ConsentedAt: time.Now(),
		CreatedAt:   time.Now(),
	}
	if err := uow.ParticipantRepository().Create(ctx, &participant); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TypeParticipantCreated, map[string]interface{}{
		"participant_id": participant.Id,
		"name":           participant.Name,
	})

	return &dto.CreateParticipantResponse{Id: participant.Id}, nil
}

func challengeToResponse(c *entity.Challenge) dto.ChallengeResponse {
	return dto.ChallengeResponse{
		Id:            c.Id,
		Number:        c.Number,
		Title:         c.Title,
		UserPrompt:    c.UserPrompt,
		SystemPromptA: c.SystemPromptA,
		SystemPromptB: c.SystemPromptB,
		UseUserData:   c.UseUserData,
	}
}

func (s *surveyService) GetChallenges(ctx context.Context) ([]dto.ChallengeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	challenges, err := uow.ChallengeRepository().FindAll(ctx, specification.OrderBy{Field: "number"})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChallengeResponse, 0, len(challenges))
	for i := range challenges {
		out = append(out, challengeToResponse(&challenges[i]))
	}
	return out, nil
}

func (s *surveyService) GetChallengeByNumber(ctx context.Context, number int) (*dto.ChallengeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	challenge, err := uow.ChallengeRepository().FindOne(ctx, specification.ByNumber{Number: number})
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, fmt.Errorf("challenge %d not found", number)
	}
	resp := challengeToResponse(challenge)
	return &resp, nil
}

// InitializeChallenges seeds the five fixed challenges once. Subsequent
// calls are no-ops.
func (s *surveyService) InitializeChallenges(ctx context.Context) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.ChallengeRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &dto.MessageResponse{Message: "Challenges already exist"}, nil
	}

	challenges := make([]entity.Challenge, len(constant.DefaultChallenges))
	copy(challenges, constant.DefaultChallenges)
	for i := range challenges {
		challenges[i].Id = uuid.New()
		challenges[i].CreatedAt = time.Now()
	}
	if err := uow.ChallengeRepository().CreateBulk(ctx, challenges); err != nil {
		return nil, err
	}

	s.logger.Info("SurveyService", "Challenges initialized", map[string]interface{}{"count": len(challenges)})
	return &dto.MessageResponse{Message: "Challenges initialized successfully"}, nil
}

func (s *surveyService) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	participant, err := uow.ParticipantRepository().FindOne(ctx, specification.ByID{ID: req.ParticipantId})
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, fmt.Errorf("participant %s not found", req.ParticipantId)
	}
	challenge, err := uow.ChallengeRepository().FindOne(ctx, specification.ByID{ID: req.ChallengeId})
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, fmt.Errorf("challenge %s not found", req.ChallengeId)
	}

	session := entity.StudySession{
		Id:            uuid.New(),
		ParticipantId: req.ParticipantId,
		ChallengeId:   req.ChallengeId,
		CreatedAt:     time.Now(),
	}
	if err := uow.StudySessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

// SaveConversations replaces the stored threads for a session. Clients
// may snapshot mid-challenge, so last writer wins.
func (s *surveyService) SaveConversations(ctx context.Context, sessionId uuid.UUID, req dto.SaveConversationsRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", sessionId)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().Delete(ctx, specification.BySessionID{SessionID: sessionId}); err != nil {
		return err
	}

	conversations := make([]entity.Conversation, 0, len(req.Conversations))
	for _, c := range req.Conversations {
		conversations = append(conversations, entity.Conversation{
			Id:        uuid.New(),
			SessionId: sessionId,
			Side:      survey.Agent(c.Side),
			Messages:  dto.ToSurveyMessages(c.Messages),
			CreatedAt: time.Now(),
		})
	}
	if err := uow.ConversationRepository().CreateBulk(ctx, conversations); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TypeConversationsSaved, map[string]interface{}{
		"session_id": sessionId,
		"threads":    len(conversations),
	})
	return nil
}

func (s *surveyService) SaveChallengeRating(ctx context.Context, req dto.SaveChallengeRatingRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", req.SessionId)
	}

	existing, err := uow.ChallengeRatingRepository().FindOne(ctx, specification.BySessionID{SessionID: req.SessionId})
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("session %s already rated", req.SessionId)
	}

	rating := entity.ChallengeRating{
		Id:             uuid.New(),
		SessionId:      req.SessionId,
		ChallengeId:    req.ChallengeId,
		PreferredAgent: req.PreferredAgent,
		Reason:         req.Reason,
		CreatedAt:      time.Now(),
	}
	return uow.ChallengeRatingRepository().Create(ctx, &rating)
}

func (s *surveyService) CompleteSession(ctx context.Context, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", sessionId)
	}
	if session.CompletedAt != nil {
		return nil
	}

	now := time.Now()
	session.CompletedAt = &now
	if err := uow.StudySessionRepository().Update(ctx, session); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TypeSessionCompleted, map[string]interface{}{
		"session_id":     sessionId,
		"participant_id": session.ParticipantId,
	})
	return nil
}

func (s *surveyService) SaveFinalRatings(ctx context.Context, participantId uuid.UUID, ratings map[string]survey.RatingAnswer) error {
	if err := survey.ValidateFinalRatings(ratings); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	participant, err := uow.ParticipantRepository().FindOne(ctx, specification.ByID{ID: participantId})
	if err != nil {
		return err
	}
	if participant == nil {
		return fmt.Errorf("participant %s not found", participantId)
	}

	participant.FinalRatings = ratings
	if err := uow.ParticipantRepository().Update(ctx, participant); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TypeSurveyCompleted, map[string]interface{}{
		"participant_id": participantId,
		"name":           participant.Name,
	})
	return nil
}

func (s *surveyService) GetParticipantSessions(ctx context.Context, participantId uuid.UUID) ([]dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.StudySessionRepository().FindAll(ctx,
		specification.ByParticipantID{ParticipantID: participantId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	challenges, err := uow.ChallengeRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	challengeById := make(map[uuid.UUID]entity.Challenge, len(challenges))
	for _, c := range challenges {
		challengeById[c.Id] = c
	}

	out := make([]dto.SessionSummaryResponse, 0, len(sessions))
	for _, session := range sessions {
		summary := dto.SessionSummaryResponse{
			Id:          session.Id,
			ChallengeId: session.ChallengeId,
			CompletedAt: session.CompletedAt,
			CreatedAt:   session.CreatedAt,
		}
		if c, ok := challengeById[session.ChallengeId]; ok {
			summary.ChallengeNumber = c.Number
			summary.ChallengeTitle = c.Title
		}
		out = append(out, summary)
	}
	return out, nil
}
