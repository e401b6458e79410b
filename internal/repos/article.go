package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/types"
)

type ArticleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, article *types.Article) (*types.Article, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Article, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Article, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) error
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return &articleRepo{db: db, log: baseLog.With("repo", "ArticleRepo")}
}

func (ar *articleRepo) Create(ctx context.Context, tx *gorm.DB, article *types.Article) (*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

func (ar *articleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Article
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *articleRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*types.Article
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *articleRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Article{}).Error
}
