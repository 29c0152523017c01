package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/model"
	"sycophancy-survey-be/pkg/survey"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToModel(e *entity.StudySession) *model.StudySession {
	if e == nil {
		return nil
	}
	return &model.StudySession{
		Id:            e.Id,
		ParticipantId: e.ParticipantId,
		ChallengeId:   e.ChallengeId,
		CompletedAt:   e.CompletedAt,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *SessionMapper) ToEntity(mo *model.StudySession) *entity.StudySession {
	if mo == nil {
		return nil
	}
	return &entity.StudySession{
		Id:            mo.Id,
		ParticipantId: mo.ParticipantId,
		ChallengeId:   mo.ChallengeId,
		CompletedAt:   mo.CompletedAt,
		CreatedAt:     mo.CreatedAt,
	}
}

func (m *SessionMapper) ToEntities(models []model.StudySession) []entity.StudySession {
	entities := make([]entity.StudySession, 0, len(models))
	for i := range models {
		entities = append(entities, *m.ToEntity(&models[i]))
	}
	return entities
}

func (m *SessionMapper) ConversationToModel(e *entity.Conversation) *model.Conversation {
	if e == nil {
		return nil
	}
	messages, err := json.Marshal(e.Messages)
	if err != nil {
		messages = datatypes.JSON("[]")
	}
	return &model.Conversation{
		Id:        e.Id,
		SessionId: e.SessionId,
		Side:      string(e.Side),
		Messages:  messages,
		CreatedAt: e.CreatedAt,
	}
}

func (m *SessionMapper) ConversationToEntity(mo *model.Conversation) *entity.Conversation {
	if mo == nil {
		return nil
	}
	var messages []survey.Message
	if len(mo.Messages) > 0 {
		_ = json.Unmarshal(mo.Messages, &messages)
	}
	return &entity.Conversation{
		Id:        mo.Id,
		SessionId: mo.SessionId,
		Side:      survey.Agent(mo.Side),
		Messages:  messages,
		CreatedAt: mo.CreatedAt,
	}
}

func (m *SessionMapper) ConversationsToEntities(models []model.Conversation) []entity.Conversation {
	entities := make([]entity.Conversation, 0, len(models))
	for i := range models {
		entities = append(entities, *m.ConversationToEntity(&models[i]))
	}
	return entities
}

func (m *SessionMapper) RatingToModel(e *entity.ChallengeRating) *model.ChallengeRating {
	if e == nil {
		return nil
	}
	var preferred *string
	if e.PreferredAgent != "" {
		agent := e.PreferredAgent
		preferred = &agent
	}
	return &model.ChallengeRating{
		Id:             e.Id,
		SessionId:      e.SessionId,
		ChallengeId:    e.ChallengeId,
		PreferredAgent: preferred,
		Reason:         e.Reason,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SessionMapper) RatingToEntity(mo *model.ChallengeRating) *entity.ChallengeRating {
	if mo == nil {
		return nil
	}
	preferred := ""
	if mo.PreferredAgent != nil {
		preferred = *mo.PreferredAgent
	}
	return &entity.ChallengeRating{
		Id:             mo.Id,
		SessionId:      mo.SessionId,
		ChallengeId:    mo.ChallengeId,
		PreferredAgent: preferred,
		Reason:         mo.Reason,
		CreatedAt:      mo.CreatedAt,
	}
}

func (m *SessionMapper) RatingsToEntities(models []model.ChallengeRating) []entity.ChallengeRating {
	entities := make([]entity.ChallengeRating, 0, len(models))
	for i := range models {
		entities = append(entities, *m.RatingToEntity(&models[i]))
	}
	return entities
}
