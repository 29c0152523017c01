package contract

import (
	"context"

	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/repository/specification"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *entity.Challenge) error
	CreateBulk(ctx context.Context, challenges []entity.Challenge) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Challenge, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Challenge, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
