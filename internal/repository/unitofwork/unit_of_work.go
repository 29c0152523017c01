package unitofwork

import (
	"context"

	"sycophancy-survey-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ParticipantRepository() contract.ParticipantRepository
	ChallengeRepository() contract.ChallengeRepository
	StudySessionRepository() contract.StudySessionRepository
	ConversationRepository() contract.ConversationRepository
	ChallengeRatingRepository() contract.ChallengeRatingRepository
}
