package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/types"
)

type AuditLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.AuditLog) (*types.AuditLog, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.AuditLog, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (alr *auditLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.AuditLog) (*types.AuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = alr.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (alr *auditLogRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.AuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = alr.db
	}
	if limit <= 0 {
		limit = 100
	}
	var results []*types.AuditLog
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
