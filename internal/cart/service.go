package cart

import (
	"context"
	"errors"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	AddItem(ctx context.Context, userID, productID uint) error
	SetQuantity(ctx context.Context, userID, productID uint, quantity int) (Totals, error)
	Remove(ctx context.Context, userID, productID uint) error
	List(ctx context.Context, userID uint) (View, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AddItem(ctx context.Context, userID, productID uint) error {
	if productID == 0 {
		return ErrInvalidProduct
	}
	if err := s.repo.AddItem(ctx, userID, productID); err != nil {
		return err
	}
	logger.FromCtx(ctx).Debug("cart item added",
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
	)
	return nil
}

// SetQuantity deletes the line when quantity is zero or negative.
func (s *service) SetQuantity(ctx context.Context, userID, productID uint, quantity int) (Totals, error) {
	if productID == 0 {
		return Totals{}, ErrInvalidProduct
	}
	return s.repo.SetQuantity(ctx, userID, productID, quantity)
}

// Remove reports a missing line as ErrCartItemNotFound; callers treat it as
// a notice, not a failure.
func (s *service) Remove(ctx context.Context, userID, productID uint) error {
	err := s.repo.Remove(ctx, userID, productID)
	if err != nil && !errors.Is(err, ErrCartItemNotFound) {
		logger.FromCtx(ctx).Error("failed to remove cart item",
			zap.String("layer", "service"),
			zap.String("method", "RemoveCartItem"),
			zap.Error(err),
		)
	}
	return err
}

func (s *service) List(ctx context.Context, userID uint) (View, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list cart",
			zap.String("layer", "service"),
			zap.String("method", "ListCart"),
			zap.Error(err),
		)
		return View{}, err
	}
	return View{Items: items, GrandTotal: GrandTotal(items)}, nil
}
