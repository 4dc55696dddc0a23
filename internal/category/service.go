package category

import (
	"context"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter string) ([]Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, filter string) ([]Category, error) {
	categories, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list categories",
			zap.String("layer", "service"),
			zap.String("method", "ListCategories"),
			zap.Error(err),
		)
		return nil, err
	}
	return categories, nil
}
