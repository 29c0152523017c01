package unitofwork

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sycophancy-survey-be/internal/repository/contract"
	"sycophancy-survey-be/internal/repository/implementation"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

// getDB returns the active transaction, or the base handle outside one.
func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository accessors

func (u *UnitOfWorkImpl) ParticipantRepository() contract.ParticipantRepository {
	return implementation.NewParticipantRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChallengeRepository() contract.ChallengeRepository {
	return implementation.NewChallengeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) StudySessionRepository() contract.StudySessionRepository {
	return implementation.NewStudySessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ConversationRepository() contract.ConversationRepository {
	return implementation.NewConversationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChallengeRatingRepository() contract.ChallengeRatingRepository {
	return implementation.NewChallengeRatingRepository(u.getDB())
}
