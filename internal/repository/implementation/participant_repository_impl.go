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

type ParticipantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ParticipantMapper
}

func NewParticipantRepository(db *gorm.DB) contract.ParticipantRepository {
	return &ParticipantRepositoryImpl{
		db:     db,
		mapper: mapper.NewParticipantMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs []specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ParticipantRepositoryImpl) Create(ctx context.Context, participant *entity.Participant) error {
	m := r.mapper.ToModel(participant)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*participant = *r.mapper.ToEntity(m)
	return nil
}

func (r *ParticipantRepositoryImpl) Update(ctx context.Context, participant *entity.Participant) error {
	m := r.mapper.ToModel(participant)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*participant = *r.mapper.ToEntity(m)
	return nil
}

func (r *ParticipantRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Participant, error) {
	var m model.Participant
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ParticipantRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Participant, error) {
	var models []model.Participant
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ParticipantRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Participant{}), specs)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ParticipantRepositoryImpl) Delete(ctx context.Context, specs ...specification.Specification) error {
	query := applySpecifications(r.db.WithContext(ctx), specs)
	return query.Delete(&model.Participant{}).Error
}
