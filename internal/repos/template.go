package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/types"
)

type TemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error)
	Update(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Template, error)
	// GetActiveByKey returns (nil, nil) when no active template matches:
	// a missing key is an ordinary outcome, not an error.
	GetActiveByKey(ctx context.Context, tx *gorm.DB, key string) (*types.Template, error)
	List(ctx context.Context, tx *gorm.DB, onlyActive bool) ([]*types.Template, error)
}

type templateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	return &templateRepo{db: db, log: baseLog.With("repo", "TemplateRepo")}
}

func (tr *templateRepo) Create(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if err := transaction.WithContext(ctx).Create(tpl).Error; err != nil {
		return nil, err
	}
	return tpl, nil
}

func (tr *templateRepo) Update(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if err := transaction.WithContext(ctx).Save(tpl).Error; err != nil {
		return nil, err
	}
	return tpl, nil
}

func (tr *templateRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Delete(&types.Template{}, "id = ?", id).Error
}

func (tr *templateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.Template
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *templateRepo) GetActiveByKey(ctx context.Context, tx *gorm.DB, key string) (*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.Template
	err := transaction.WithContext(ctx).
		Where("key = ? AND status = ?", key, types.TemplateStatusActive).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *templateRepo) List(ctx context.Context, tx *gorm.DB, onlyActive bool) ([]*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.Template
	q := transaction.WithContext(ctx).Order("created_at ASC")
	if onlyActive {
		q = q.Where("status = ?", types.TemplateStatusActive)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
