package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/types"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, fb *types.Feedback) (*types.Feedback, error)
	List(ctx context.Context, tx *gorm.DB, status string) ([]*types.Feedback, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, fb *types.Feedback) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).Create(fb).Error; err != nil {
		return nil, err
	}
	return fb, nil
}

func (fr *feedbackRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Feedback
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *feedbackRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Feedback{}).
		Where("id = ?", id).
		Update("status", status).Error
}
