package survey

import "errors"

var (
	// ErrInvalidTransition is returned when an operation is invoked from a
	// step that does not allow it.
	ErrInvalidTransition = errors.New("survey: invalid step transition")

	// ErrInvalidDemographics is returned when the demographics form fails
	// validation.
	ErrInvalidDemographics = errors.New("survey: invalid demographics")

	// ErrEmptyConversation is returned when a challenge is completed with an
	// empty conversation on either thread.
	ErrEmptyConversation = errors.New("survey: conversation must not be empty")

	// ErrQuestionLimit is returned by the driver when a thread has used all
	// of its questions.
	ErrQuestionLimit = errors.New("survey: question limit reached for this agent")

	// ErrInvalidRating is returned when a rating answer fails tagged-union
	// validation.
	ErrInvalidRating = errors.New("survey: invalid rating answer")

	// ErrSessionComplete is returned when a mutation is attempted on a
	// completed, read-only session.
	ErrSessionComplete = errors.New("survey: session already complete")
)
