package dto

import "sycophancy-survey-be/pkg/survey"

type ParticipantDataPayload struct {
	Name       string `json:"name" validate:"required"`
	Age        int    `json:"age" validate:"required,gte=18,lte=120"`
	Location   string `json:"location" validate:"required"`
	Profession string `json:"profession" validate:"required"`
	Education  string `json:"education" validate:"required"`
}

// ChatRelayRequest is the raw relay endpoint contract: full message
// history, an agent system prompt, and optional participant data for
// prompt enhancement.
type ChatRelayRequest struct {
	Messages        []ChatMessage           `json:"messages" validate:"required,min=1,dive"`
	SystemPrompt    string                  `json:"system_prompt" validate:"required"`
	ParticipantData *ParticipantDataPayload `json:"participant_data,omitempty"`
}

type ChatRelayError struct {
	Error string `json:"error"`
}

// ToDemographics converts the optional payload, nil in nil out.
func (p *ParticipantDataPayload) ToDemographics() *survey.Demographics {
	if p == nil {
		return nil
	}
	return &survey.Demographics{
		Name:       p.Name,
		Age:        p.Age,
		Location:   p.Location,
		Profession: p.Profession,
		Education:  p.Education,
	}
}
