package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/repository/specification"
	"sycophancy-survey-be/pkg/survey"
)

// SeedTestData loads a fixture participant with two sessions so the
// dashboard and export paths can be exercised without live traffic.
// Challenges are initialized first when missing.
func (s *adminService) SeedTestData(ctx context.Context) (*dto.SeedResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.ChallengeRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		surveyService := NewSurveyService(s.uowFactory, nil, s.logger)
		if _, err := surveyService.InitializeChallenges(ctx); err != nil {
			return nil, err
		}
	}

	participant := entity.Participant{
		Id:          uuid.New(),
		Name:        "Test User",
		Age:         28,
		Location:    "San Francisco, CA",
		Profession:  "Software Engineer",
		Education:   "bachelors",
		ConsentedAt: time.Now(),
		CreatedAt:   time.Now(),
	}
	if err := uow.ParticipantRepository().Create(ctx, &participant); err != nil {
		return nil, err
	}

	challenge1, err := uow.ChallengeRepository().FindOne(ctx, specification.ByNumber{Number: 1})
	if err != nil {
		return nil, err
	}
	challenge2, err := uow.ChallengeRepository().FindOne(ctx, specification.ByNumber{Number: 2})
	if err != nil {
		return nil, err
	}
	if challenge1 == nil || challenge2 == nil {
		return nil, fmt.Errorf("challenges not found")
	}

	now := time.Now()
	session1 := entity.StudySession{
		Id:            uuid.New(),
		ParticipantId: participant.Id,
		ChallengeId:   challenge1.Id,
		CompletedAt:   &now,
		CreatedAt:     now,
	}
	if err := uow.StudySessionRepository().Create(ctx, &session1); err != nil {
		return nil, err
	}
	session2 := entity.StudySession{
		Id:            uuid.New(),
		ParticipantId: participant.Id,
		ChallengeId:   challenge2.Id,
		CreatedAt:     now,
	}
	if err := uow.StudySessionRepository().Create(ctx, &session2); err != nil {
		return nil, err
	}

	ts := now.UnixMilli()
	conversations := []entity.Conversation{
		{
			Id:        uuid.New(),
			SessionId: session1.Id,
			Side:      survey.AgentA,
			Messages: []survey.Message{
				{Role: survey.RoleUser, Content: "Help me plan a trip to Japan", Timestamp: ts},
				{Role: survey.RoleAssistant, Content: "I'd be absolutely thrilled to help you plan your amazing Japan adventure! This is going to be such an incredible journey!", Timestamp: ts + 1000},
			},
			CreatedAt: now,
		},
		{
			Id:        uuid.New(),
			SessionId: session1.Id,
			Side:      survey.AgentB,
			Messages: []survey.Message{
				{Role: survey.RoleUser, Content: "Help me plan a trip to Japan", Timestamp: ts},
				{Role: survey.RoleAssistant, Content: "I can help you create a comprehensive Japan itinerary. Here's a detailed 10-day plan:\n\nDays 1-4: Tokyo\n- Visit Senso-ji Temple\n- Explore Shibuya and Harajuku\n- Day trip to Nikko\n\nDays 5-7: Kyoto\n- Fushimi Inari Shrine\n- Bamboo Grove\n- Traditional tea ceremony\n\nDays 8-10: Osaka\n- Osaka Castle\n- Dotonbori district\n- Day trip to Nara", Timestamp: ts + 1000},
			},
			CreatedAt: now,
		},
	}
	if err := uow.ConversationRepository().CreateBulk(ctx, conversations); err != nil {
		return nil, err
	}

	rating := entity.ChallengeRating{
		Id:             uuid.New(),
		SessionId:      session1.Id,
		ChallengeId:    challenge1.Id,
		PreferredAgent: "A",
		Reason:         "The warm tone made the plan feel more approachable.",
		CreatedAt:      now,
	}
	if err := uow.ChallengeRatingRepository().Create(ctx, &rating); err != nil {
		return nil, err
	}

	s.logger.Info("AdminService", "Test data seeded", map[string]interface{}{
		"participant_id": participant.Id,
	})
	return &dto.SeedResponse{
		Message:          "Test data seeded successfully",
		ParticipantsMade: 1,
		SessionsMade:     2,
	}, nil
}
