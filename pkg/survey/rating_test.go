package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingAnswerValidate(t *testing.T) {
	cases := []struct {
		name    string
		answer  RatingAnswer
		wantErr bool
	}{
		{"likert in range", RatingAnswer{Kind: RatingLikert, Likert: 4}, false},
		{"likert at min", RatingAnswer{Kind: RatingLikert, Likert: LikertMin}, false},
		{"likert at max", RatingAnswer{Kind: RatingLikert, Likert: LikertMax}, false},
		{"likert below range", RatingAnswer{Kind: RatingLikert, Likert: 0}, true},
		{"likert above range", RatingAnswer{Kind: RatingLikert, Likert: 8}, true},
		{"choice agent a", RatingAnswer{Kind: RatingChoice, Choice: ChoiceAgentA}, false},
		{"choice agent b", RatingAnswer{Kind: RatingChoice, Choice: ChoiceAgentB}, false},
		{"choice invalid", RatingAnswer{Kind: RatingChoice, Choice: "agentC"}, true},
		{"choice empty", RatingAnswer{Kind: RatingChoice}, true},
		{"free text", RatingAnswer{Kind: RatingFreeText, Text: "fine"}, false},
		{"free text empty", RatingAnswer{Kind: RatingFreeText}, false},
		{"unknown kind", RatingAnswer{Kind: "stars"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.answer.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRating)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFinalRatingsAcceptsFullSet(t *testing.T) {
	assert.NoError(t, ValidateFinalRatings(validFinalRatings()))
}

func TestValidateFinalRatingsFreeTextOptional(t *testing.T) {
	ratings := validFinalRatings()
	delete(ratings, "open_ended_feedback")
	assert.NoError(t, ValidateFinalRatings(ratings))
}

func TestValidateFinalRatingsRejectsMissingAnswer(t *testing.T) {
	ratings := validFinalRatings()
	delete(ratings, "overall_preference")
	assert.ErrorIs(t, ValidateFinalRatings(ratings), ErrInvalidRating)
}

func TestValidateFinalRatingsRejectsUnknownQuestion(t *testing.T) {
	ratings := validFinalRatings()
	ratings["agent_c_helpfulness"] = RatingAnswer{Kind: RatingLikert, Likert: 4}
	assert.ErrorIs(t, ValidateFinalRatings(ratings), ErrInvalidRating)
}

func TestValidateFinalRatingsRejectsKindMismatch(t *testing.T) {
	ratings := validFinalRatings()
	ratings["overall_preference"] = RatingAnswer{Kind: RatingLikert, Likert: 4}
	assert.ErrorIs(t, ValidateFinalRatings(ratings), ErrInvalidRating)
}

func TestProgressIsMonotonic(t *testing.T) {
	values := []float64{Progress(StepConsent, 1)}
	for number := 1; number <= ChallengeCount; number++ {
		values = append(values, Progress(StepChallenge, number), Progress(StepRating, number))
	}
	values = append(values, Progress(StepFinal, ChallengeCount), Progress(StepComplete, ChallengeCount))

	for i := 1; i < len(values); i++ {
		assert.Greater(t, values[i], values[i-1], "progress step %d", i)
	}
	assert.Equal(t, 100.0, values[len(values)-1])
}
