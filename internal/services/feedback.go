package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/repos"
	"github.com/pressgen/pressgen-backend/internal/types"
)

type FeedbackService interface {
	Submit(ctx context.Context, rating int, content string) (*types.Feedback, error)
}

type feedbackService struct {
	log          *logger.Logger
	feedbackRepo repos.FeedbackRepo
}

func NewFeedbackService(log *logger.Logger, feedbackRepo repos.FeedbackRepo) FeedbackService {
	return &feedbackService{
		log:          log.With("service", "FeedbackService"),
		feedbackRepo: feedbackRepo,
	}
}

func (fs *feedbackService) Submit(ctx context.Context, rating int, content string) (*types.Feedback, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}
	fb := &types.Feedback{
		UserID:  userID,
		Rating:  rating,
		Content: strings.TrimSpace(content),
		Status:  types.FeedbackStatusOpen,
	}
	if _, err := fs.feedbackRepo.Create(ctx, nil, fb); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}
	return fb, nil
}
