package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/repos"
	"github.com/pressgen/pressgen-backend/internal/requestdata"
	"github.com/pressgen/pressgen-backend/internal/types"
)

// ArticleService is the user-facing history surface. All operations are
// scoped to the caller in the request context.
type ArticleService interface {
	ListMine(ctx context.Context, limit int) ([]*types.Article, error)
	GetMine(ctx context.Context, id uuid.UUID) (*types.Article, error)
	DeleteMine(ctx context.Context, id uuid.UUID) error
}

type articleService struct {
	log         *logger.Logger
	articleRepo repos.ArticleRepo
}

func NewArticleService(log *logger.Logger, articleRepo repos.ArticleRepo) ArticleService {
	return &articleService{
		log:         log.With("service", "ArticleService"),
		articleRepo: articleRepo,
	}
}

func caller(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no user in context")
	}
	return rd.UserID, nil
}

func (as *articleService) ListMine(ctx context.Context, limit int) ([]*types.Article, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return as.articleRepo.ListByUser(ctx, nil, userID, limit)
}

func (as *articleService) GetMine(ctx context.Context, id uuid.UUID) (*types.Article, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	article, err := as.articleRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if article.UserID != userID {
		// Indistinguishable from a missing row on purpose.
		return nil, fmt.Errorf("article not found")
	}
	return article, nil
}

func (as *articleService) DeleteMine(ctx context.Context, id uuid.UUID) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	return as.articleRepo.Delete(ctx, nil, id, userID)
}
