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

type StudySessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewStudySessionRepository(db *gorm.DB) contract.StudySessionRepository {
	return &StudySessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *StudySessionRepositoryImpl) Create(ctx context.Context, session *entity.StudySession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *StudySessionRepositoryImpl) Update(ctx context.Context, session *entity.StudySession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *StudySessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudySession, error) {
	var m model.StudySession
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StudySessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.StudySession, error) {
	var models []model.StudySession
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StudySessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.StudySession{}), specs)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
