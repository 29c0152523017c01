package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/model"
	"sycophancy-survey-be/pkg/survey"
)

type ParticipantMapper struct{}

func NewParticipantMapper() *ParticipantMapper {
	return &ParticipantMapper{}
}

func (m *ParticipantMapper) ToModel(e *entity.Participant) *model.Participant {
	if e == nil {
		return nil
	}
	var ratings datatypes.JSON
	if e.FinalRatings != nil {
		if data, err := json.Marshal(e.FinalRatings); err == nil {
			ratings = data
		}
	}
	return &model.Participant{
		Id:           e.Id,
		Name:         e.Name,
		Age:          e.Age,
		Location:     e.Location,
		Profession:   e.Profession,
		Education:    e.Education,
		FinalRatings: ratings,
		ConsentedAt:  e.ConsentedAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (m *ParticipantMapper) ToEntity(mo *model.Participant) *entity.Participant {
	if mo == nil {
		return nil
	}
	var ratings map[string]survey.RatingAnswer
	if len(mo.FinalRatings) > 0 {
		_ = json.Unmarshal(mo.FinalRatings, &ratings)
	}
	return &entity.Participant{
		Id:           mo.Id,
		Name:         mo.Name,
		Age:          mo.Age,
		Location:     mo.Location,
		Profession:   mo.Profession,
		Education:    mo.Education,
		FinalRatings: ratings,
		ConsentedAt:  mo.ConsentedAt,
		CreatedAt:    mo.CreatedAt,
		UpdatedAt:    mo.UpdatedAt,
	}
}

func (m *ParticipantMapper) ToEntities(models []model.Participant) []entity.Participant {
	entities := make([]entity.Participant, 0, len(models))
	for i := range models {
		entities = append(entities, *m.ToEntity(&models[i]))
	}
	return entities
}
