package implementation

import (
	"context"

	"gorm.io/gorm"

	"sycophancy-survey-be/internal/entity"
	"sycophancy-survey-be/internal/mapper"
	"sycophancy-survey-be/internal/model"
	"sycophancy-survey-be/internal/repository/contract"
	"sycophancy-survey-be/internal/repository/specification"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.Conversation) error {
	m := r.mapper.ConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ConversationToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) CreateBulk(ctx context.Context, conversations []entity.Conversation) error {
	if len(conversations) == 0 {
		return nil
	}
	models := make([]model.Conversation, 0, len(conversations))
	for i := range conversations {
		models = append(models, *r.mapper.ConversationToModel(&conversations[i]))
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i := range models {
		conversations[i] = *r.mapper.ConversationToEntity(&models[i])
	}
	return nil
}

func (r *ConversationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Conversation, error) {
	var models []model.Conversation
	query := applySpecifications(r.db.WithContext(ctx), specs)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ConversationsToEntities(models), nil
}

func (r *ConversationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Conversation{}), specs)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ConversationRepositoryImpl) Delete(ctx context.Context, specs ...specification.Specification) error {
	query := applySpecifications(r.db.WithContext(ctx), specs)
	return query.Delete(&model.Conversation{}).Error
}
