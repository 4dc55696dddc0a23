package order

import (
	"context"
	"errors"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	ListForUser(ctx context.Context, userID uint) ([]Order, error)
	GetForUser(ctx context.Context, orderID, userID uint) (*Order, error)
	ListAll(ctx context.Context, limit int) ([]Order, error)
	MarkDelivered(ctx context.Context, orderID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetForUser(ctx context.Context, orderID, userID uint) (*Order, error) {
	return s.repo.GetForUser(ctx, orderID, userID)
}

func (s *service) ListAll(ctx context.Context, limit int) ([]Order, error) {
	return s.repo.ListAll(ctx, limit)
}

// MarkDelivered is idempotent; an unknown id yields ErrOrderNotFound.
func (s *service) MarkDelivered(ctx context.Context, orderID uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkDelivered"),
		zap.Uint("order_id", orderID),
	)

	if err := s.repo.MarkDelivered(ctx, orderID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn("mark delivered on unknown order")
		} else {
			log.Error("failed to mark order delivered", zap.Error(err))
		}
		return err
	}

	log.Info("order delivered")
	return nil
}
