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

type ChallengeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChallengeMapper
}

func NewChallengeRepository(db *gorm.DB) contract.ChallengeRepository {
	return &ChallengeRepositoryImpl{
		db:     db,
		mapper: mapper.NewChallengeMapper(),
	}
}

func (r *ChallengeRepositoryImpl) Create(ctx context.Context, challenge *entity.Challenge) error {
	m := r.mapper.ToModel(challenge)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*challenge = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChallengeRepositoryImpl) CreateBulk(ctx context.Context, challenges []entity.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}
	models := make([]model.Challenge, 0, len(challenges))
	for i := range challenges {
		models = append(models, *r.mapper.ToModel(&challenges[i]))
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i := range models {
		challenges[i] = *r.mapper.ToEntity(&models[i])
	}
	return nil
}

func (r *ChallengeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Challenge, error) {
	var m model.Challenge
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChallengeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Challenge, error) {
	var models []model.Challenge
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChallengeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Challenge{}), specs)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
