package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/mapper"
	"sycophancy-survey-be/internal/model"
	"sycophancy-survey-be/internal/repository/contract"
	"sycophancy-survey-be/internal/repository/specification"
)

type ChallengeRatingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewChallengeRatingRepository(db *gorm.DB) contract.ChallengeRatingRepository {
	return &ChallengeRatingRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *ChallengeRatingRepositoryImpl) Create(ctx context.Context, rating *entity.ChallengeRating) error {
	m := r.mapper.RatingToModel(rating)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rating = *r.mapper.RatingToEntity(m)
	return nil
}

func (r *ChallengeRatingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChallengeRating, error) {
	var m model.ChallengeRating
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RatingToEntity(&m), nil
}

func (r *ChallengeRatingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.ChallengeRating, error) {
	var models []model.ChallengeRating
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.RatingsToEntities(models), nil
}

func (r *ChallengeRatingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.ChallengeRating{}), specs)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
