package location

import (
	"context"
	"strings"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Save(ctx context.Context, userID uint, address string) (*Location, error)
	List(ctx context.Context, userID uint) ([]Location, error)
}

type service struct {
	repo     Repository
	geocoder Geocoder
}

func NewService(repo Repository, geocoder Geocoder) Service {
	return &service{repo: repo, geocoder: geocoder}
}

// Save geocodes address and stores the result for userID. The address is
// kept as the customer typed it.
func (s *service) Save(ctx context.Context, userID uint, address string) (*Location, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SaveLocation"),
		zap.Uint("user_id", userID),
	)

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	coords, err := s.geocoder.Resolve(ctx, address)
	if err != nil {
		log.Warn("geocoding failed", zap.Error(err))
		return nil, err
	}

	loc := &Location{
		UserID:    userID,
		Address:   address,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		log.Error("failed to save location", zap.Error(err))
		return nil, err
	}

	log.Info("delivery location saved", zap.Uint("location_id", loc.ID))
	return loc, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]Location, error) {
	return s.repo.ListByUser(ctx, userID)
}
