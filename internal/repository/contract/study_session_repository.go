package contract

import (
	"context"

	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/repository/specification"
)

type StudySessionRepository interface {
	Create(ctx context.Context, session *entity.StudySession) error
	Update(ctx context.Context, session *entity.StudySession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudySession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.StudySession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	CreateBulk(ctx context.Context, conversations []entity.Conversation) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Delete(ctx context.Context, specs ...specification.Specification) error
}

type ChallengeRatingRepository interface {
	Create(ctx context.Context, rating *entity.ChallengeRating) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChallengeRating, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.ChallengeRating, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
