package product

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, includeInactive bool) ([]Product, error)
	Get(ctx context.Context, id uint, includeInactive bool) (Product, error)
	Create(ctx context.Context, input Input) (Product, error)
	Update(ctx context.Context, id uint, input Input) (Product, error)
	Delete(ctx context.Context, id uint) (DeleteOutcome, error)
}

type service struct {
	repo   Repository
	images storage.ImageStore
}

func NewService(repo Repository, images storage.ImageStore) Service {
	return &service{repo: repo, images: images}
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]Product, error) {
	return s.repo.List(ctx, !includeInactive)
}

// Get hides deactivated products from storefront callers.
func (s *service) Get(ctx context.Context, id uint, includeInactive bool) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !p.Active && !includeInactive {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, input Input) (Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	params, err := parseInput(input)
	if err != nil {
		return Product{}, err
	}

	if params.Image, err = s.storeImage(ctx, input); err != nil {
		return Product{}, err
	}

	p, err := s.repo.Create(ctx, params)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		s.discardImage(ctx, params.Image)
		return Product{}, err
	}

	log.Info("product created", zap.Uint("product_id", p.ID))
	return p, nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.Uint("product_id", id),
	)

	params, err := parseInput(input)
	if err != nil {
		return Product{}, err
	}

	var previous string
	if s.hasImage(input) {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return Product{}, err
		}
		previous = current.Image
	}

	if params.Image, err = s.storeImage(ctx, input); err != nil {
		return Product{}, err
	}

	p, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			log.Error("failed to update product", zap.Error(err))
		}
		s.discardImage(ctx, params.Image)
		return Product{}, err
	}

	if params.Image != "" && previous != params.Image {
		s.discardImage(ctx, previous)
	}

	log.Info("product updated")
	return p, nil
}

func (s *service) Delete(ctx context.Context, id uint) (DeleteOutcome, error) {
	return s.repo.Delete(ctx, id)
}

func (s *service) hasImage(input Input) bool {
	return input.Image != nil && input.ImageName != "" && s.images != nil
}

func (s *service) storeImage(ctx context.Context, input Input) (string, error) {
	if !s.hasImage(input) {
		return "", nil
	}
	return s.images.Save(ctx, input.ImageName, input.Image)
}

func (s *service) discardImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Remove(ctx, name); err != nil {
		logger.FromCtx(ctx).Warn("failed to remove image",
			zap.String("image", name), zap.Error(err))
	}
}

func parseInput(input Input) (SaveParams, error) {
	params := SaveParams{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
	}
	if params.Name == "" {
		return SaveParams{}, ErrNameRequired
	}
	if params.Category == "" {
		return SaveParams{}, ErrCategoryReq
	}

	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || price.IsNegative() {
		return SaveParams{}, ErrInvalidPrice
	}
	params.Price = price.Round(2)

	stock, err := strconv.Atoi(strings.TrimSpace(input.Stock))
	if err != nil || stock < 0 {
		return SaveParams{}, ErrInvalidStock
	}
	params.Stock = stock

	return params, nil
}
