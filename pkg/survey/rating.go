package survey

import "fmt"

// RatingKind discriminates the closed union of final-survey answers.
type RatingKind string

const (
	RatingLikert   RatingKind = "likert"
	RatingChoice   RatingKind = "choice"
	RatingFreeText RatingKind = "free_text"
)

const (
	LikertMin = 1
	LikertMax = 7
)

// ChoiceAgentA / ChoiceAgentB are the legal values of a choice answer.
const (
	ChoiceAgentA = "agentA"
	ChoiceAgentB = "agentB"
)

// RatingAnswer is one final-survey answer. Exactly the field matching Kind
// is meaningful; the rest stay zero.
type RatingAnswer struct {
	Kind   RatingKind `json:"kind"`
	Likert int        `json:"likert,omitempty"`
	Choice string     `json:"choice,omitempty"`
	Text   string     `json:"text,omitempty"`
}

// Validate checks the answer against its declared kind.
func (a RatingAnswer) Validate() error {
	switch a.Kind {
	case RatingLikert:
		if a.Likert < LikertMin || a.Likert > LikertMax {
			return fmt.Errorf("%w: likert value %d out of range", ErrInvalidRating, a.Likert)
		}
	case RatingChoice:
		if a.Choice != ChoiceAgentA && a.Choice != ChoiceAgentB {
			return fmt.Errorf("%w: choice %q is not a valid agent", ErrInvalidRating, a.Choice)
		}
	case RatingFreeText:
		// Free text may be empty; the question is optional.
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRating, a.Kind)
	}
	return nil
}

// FinalQuestionKinds is the closed final-questionnaire catalog: eight
// per-agent likert scales, an overall confidence scale, an overall agent
// preference, and one open-ended response.
var FinalQuestionKinds = map[string]RatingKind{
	"agent_a_helpfulness":     RatingLikert,
	"agent_a_trustworthiness": RatingLikert,
	"agent_a_intelligence":    RatingLikert,
	"agent_a_friendliness":    RatingLikert,
	"agent_b_helpfulness":     RatingLikert,
	"agent_b_trustworthiness": RatingLikert,
	"agent_b_intelligence":    RatingLikert,
	"agent_b_friendliness":    RatingLikert,
	"overall_confidence":      RatingLikert,
	"overall_preference":      RatingChoice,
	"open_ended_feedback":     RatingFreeText,
}

// ValidateFinalRatings checks a submitted answer set against the question
// catalog: unknown questions and kind mismatches are rejected, and every
// non-free-text question must be answered.
func ValidateFinalRatings(ratings map[string]RatingAnswer) error {
	for id, answer := range ratings {
		kind, ok := FinalQuestionKinds[id]
		if !ok {
			return fmt.Errorf("%w: unknown question %q", ErrInvalidRating, id)
		}
		if answer.Kind != kind {
			return fmt.Errorf("%w: question %q expects %s, got %s", ErrInvalidRating, id, kind, answer.Kind)
		}
		if err := answer.Validate(); err != nil {
			return err
		}
	}
	for id, kind := range FinalQuestionKinds {
		if kind == RatingFreeText {
			continue
		}
		if _, ok := ratings[id]; !ok {
			return fmt.Errorf("%w: question %q is unanswered", ErrInvalidRating, id)
		}
	}
	return nil
}
