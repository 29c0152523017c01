package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sycophancy-survey-be/internal/config"
	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/pkg/export"
	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/internal/repository/specification"
	"sycophancy-survey-be/internal/repository/unitofwork"
	"sycophancy-survey-be/pkg/survey"
)

// ErrInvalidAdminSecret is returned on a failed dashboard login.
var ErrInvalidAdminSecret = errors.New("invalid admin secret")

const adminTokenTTL = 12 * time.Hour

type IAdminService interface {
	Login(ctx context.Context, secret string) (*dto.AdminLoginResponse, error)
	GetParticipants(ctx context.Context) ([]dto.ParticipantSummary, error)
	GetParticipantDetails(ctx context.Context, id uuid.UUID) (*dto.ParticipantDetails, error)
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
	ExportJSON(ctx context.Context) (*dto.ExportData, error)
	ExportCSV(ctx context.Context) (string, error)
	SeedTestData(ctx context.Context) (*dto.SeedResponse, error)
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
	GetLogById(id string) (*logger.LogEntry, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        *config.Config
	logger     logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, log logger.ILogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		cfg:        cfg,
		logger:     log,
	}
}

// Login exchanges the shared dashboard secret for a short-lived JWT. A
// bcrypt hash in config takes precedence over the plaintext secret.
func (s *adminService) Login(_ context.Context, secret string) (*dto.AdminLoginResponse, error) {
	if s.cfg.Admin.SecretHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.SecretHash), []byte(secret)); err != nil {
			return nil, ErrInvalidAdminSecret
		}
	} else if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.Admin.Secret)) != 1 {
		return nil, ErrInvalidAdminSecret
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(adminTokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Admin.JWTSecret))
	if err != nil {
		return nil, err
	}
	return &dto.AdminLoginResponse{AccessToken: signed}, nil
}

// studyData is the fully joined dataset behind every reporting endpoint.
type studyData struct {
	participants  []entity.Participant
	challenges    map[uuid.UUID]entity.Challenge
	sessions      map[uuid.UUID][]entity.StudySession // by participant
	conversations map[uuid.UUID][]entity.Conversation // by session
	ratings       map[uuid.UUID]entity.ChallengeRating
}

func (s *adminService) loadStudyData(ctx context.Context) (*studyData, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	participants, err := uow.ParticipantRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}
	challenges, err := uow.ChallengeRepository().FindAll(ctx, specification.OrderBy{Field: "number"})
	if err != nil {
		return nil, err
	}
	sessions, err := uow.StudySessionRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}
	conversations, err := uow.ConversationRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := uow.ChallengeRatingRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	data := &studyData{
		participants:  participants,
		challenges:    make(map[uuid.UUID]entity.Challenge, len(challenges)),
		sessions:      make(map[uuid.UUID][]entity.StudySession),
		conversations: make(map[uuid.UUID][]entity.Conversation),
		ratings:       make(map[uuid.UUID]entity.ChallengeRating, len(ratings)),
	}
	for _, c := range challenges {
		data.challenges[c.Id] = c
	}
	for _, session := range sessions {
		data.sessions[session.ParticipantId] = append(data.sessions[session.ParticipantId], session)
	}
	for _, conv := range conversations {
		data.conversations[conv.SessionId] = append(data.conversations[conv.SessionId], conv)
	}
	for _, rating := range ratings {
		data.ratings[rating.SessionId] = rating
	}
	return data, nil
}

func (s *adminService) summarize(p *entity.Participant, data *studyData) dto.ParticipantSummary {
	sessions := data.sessions[p.Id]
	completed := 0
	for _, session := range sessions {
		if session.CompletedAt != nil {
			completed++
		}
	}
	return dto.ParticipantSummary{
		Id:                p.Id,
		Name:              p.Name,
		Age:               p.Age,
		Location:          p.Location,
		Profession:        p.Profession,
		Education:         p.Education,
		ConsentedAt:       p.ConsentedAt,
		TotalSessions:     len(sessions),
		CompletedSessions: completed,
		IsComplete:        p.Completed(),
	}
}

func (s *adminService) detail(p *entity.Participant, data *studyData) dto.ParticipantDetails {
	details := dto.ParticipantDetails{
		ParticipantSummary: s.summarize(p, data),
		FinalRatings:       p.FinalRatings,
		Sessions:           []dto.SessionDetail{},
	}
	for _, session := range data.sessions[p.Id] {
		sd := dto.SessionDetail{
			Id:          session.Id,
			ChallengeId: session.ChallengeId,
			CompletedAt: session.CompletedAt,
			CreatedAt:   session.CreatedAt,
		}
		if c, ok := data.challenges[session.ChallengeId]; ok {
			sd.ChallengeNumber = c.Number
			sd.ChallengeTitle = c.Title
		}
		if rating, ok := data.ratings[session.Id]; ok {
			sd.PreferredAgent = rating.PreferredAgent
			sd.Reason = rating.Reason
		}
		for _, conv := range data.conversations[session.Id] {
			sd.Conversations = append(sd.Conversations, dto.ConversationDetail{
				Side:     string(conv.Side),
				Messages: dto.FromSurveyMessages(conv.Messages),
			})
		}
		details.Sessions = append(details.Sessions, sd)
	}
	return details
}

func (s *adminService) GetParticipants(ctx context.Context) ([]dto.ParticipantSummary, error) {
	data, err := s.loadStudyData(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ParticipantSummary, 0, len(data.participants))
	for i := range data.participants {
		out = append(out, s.summarize(&data.participants[i], data))
	}
	return out, nil
}

func (s *adminService) GetParticipantDetails(ctx context.Context, id uuid.UUID) (*dto.ParticipantDetails, error) {
	data, err := s.loadStudyData(ctx)
	if err != nil {
		return nil, err
	}
	for i := range data.participants {
		if data.participants[i].Id == id {
			details := s.detail(&data.participants[i], data)
			return &details, nil
		}
	}
	return nil, fmt.Errorf("participant %s not found", id)
}

func (s *adminService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	data, err := s.loadStudyData(ctx)
	if err != nil {
		return nil, err
	}
	return buildStats(data), nil
}

// buildStats aggregates participant and per-challenge numbers. Pure so it
// is directly testable.
func buildStats(data *studyData) *dto.StatsResponse {
	stats := &dto.StatsResponse{}
	stats.TotalParticipants = len(data.participants)
	for i := range data.participants {
		if data.participants[i].Completed() {
			stats.CompletedParticipants++
		}
	}

	perChallenge := make(map[uuid.UUID]*dto.ChallengeStats)
	for id, c := range data.challenges {
		perChallenge[id] = &dto.ChallengeStats{
			ChallengeNumber: c.Number,
			ChallengeTitle:  c.Title,
		}
	}

	for _, sessions := range data.sessions {
		for _, session := range sessions {
			stats.TotalSessions++
			cs := perChallenge[session.ChallengeId]
			if cs != nil {
				cs.SessionsTotal++
			}
			if session.CompletedAt == nil {
				continue
			}
			stats.CompletedSessions++
			if cs != nil {
				cs.SessionsDone++
			}
			if rating, ok := data.ratings[session.Id]; ok && cs != nil {
				switch rating.PreferredAgent {
				case "A":
					cs.PreferredA++
				case "B":
					cs.PreferredB++
				default:
					cs.NoPreference++
				}
			}
		}
	}

	if stats.TotalSessions > 0 {
		stats.CompletionRate = float64(stats.CompletedSessions) / float64(stats.TotalSessions)
	}

	stats.Challenges = make([]dto.ChallengeStats, 0, len(perChallenge))
	for number := 1; number <= survey.ChallengeCount; number++ {
		for _, cs := range perChallenge {
			if cs.ChallengeNumber != number {
				continue
			}
			if rated := cs.PreferredA + cs.PreferredB; rated > 0 {
				cs.PreferenceRateA = float64(cs.PreferredA) / float64(rated)
			}
			stats.Challenges = append(stats.Challenges, *cs)
		}
	}
	return stats
}

// exportChallenges renders the catalog in challenge order so exports are
// stable run to run, the same ordering buildStats uses.
func exportChallenges(data *studyData) []dto.ChallengeResponse {
	out := make([]dto.ChallengeResponse, 0, len(data.challenges))
	for _, c := range data.challenges {
		out = append(out, challengeToResponse(&c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (s *adminService) ExportJSON(ctx context.Context) (*dto.ExportData, error) {
	data, err := s.loadStudyData(ctx)
	if err != nil {
		return nil, err
	}

	exportData := &dto.ExportData{
		Metadata: dto.ExportMetadata{
			ExportedAt:        time.Now(),
			TotalParticipants: len(data.participants),
			TotalChallenges:   len(data.challenges),
		},
		Challenges:   exportChallenges(data),
		Participants: []dto.ParticipantDetails{},
	}
	for i := range data.participants {
		details := s.detail(&data.participants[i], data)
		exportData.Metadata.TotalSessions += len(details.Sessions)
		exportData.Participants = append(exportData.Participants, details)
	}
	return exportData, nil
}

func (s *adminService) ExportCSV(ctx context.Context) (string, error) {
	exportData, err := s.ExportJSON(ctx)
	if err != nil {
		return "", err
	}
	return export.BuildCSV(exportData.Participants)
}

func (s *adminService) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.logger.GetLogs(level, limit, offset)
}

func (s *adminService) GetLogById(id string) (*logger.LogEntry, error) {
	return s.logger.GetLogById(id)
}
