package mapper

import (
	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/model"
)

type ChallengeMapper struct{}

func NewChallengeMapper() *ChallengeMapper {
	return &ChallengeMapper{}
}

func (m *ChallengeMapper) ToModel(e *entity.Challenge) *model.Challenge {
	if e == nil {
		return nil
	}
	return &model.Challenge{
		Id:            e.Id,
		Number:        e.Number,
		Title:         e.Title,
		UserPrompt:    e.UserPrompt,
		SystemPromptA: e.SystemPromptA,
		SystemPromptB: e.SystemPromptB,
		UseUserData:   e.UseUserData,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ChallengeMapper) ToEntity(mo *model.Challenge) *entity.Challenge {
	if mo == nil {
		return nil
	}
	return &entity.Challenge{
		Id:            mo.Id,
		Number:        mo.Number,
		Title:         mo.Title,
		UserPrompt:    mo.UserPrompt,
		SystemPromptA: mo.SystemPromptA,
		SystemPromptB: mo.SystemPromptB,
		UseUserData:   mo.UseUserData,
		CreatedAt:     mo.CreatedAt,
	}
}

func (m *ChallengeMapper) ToEntities(models []model.Challenge) []entity.Challenge {
	entities := make([]entity.Challenge, 0, len(models))
	for i := range models {
		entities = append(entities, *m.ToEntity(&models[i]))
	}
	return entities
}
