package location

import (
	"context"
	"database/sql"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, loc *Location) error
	ListByUser(ctx context.Context, userID uint) ([]Location, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, loc *Location) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO delivery_locations (user_id, address, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, loc.UserID, loc.Address, loc.Latitude, loc.Longitude).Scan(&loc.ID, &loc.CreatedAt)
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Location, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListLocations"),
		zap.Uint("user_id", userID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, address, latitude, longitude, created_at
		FROM delivery_locations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.UserID, &l.Address, &l.Latitude, &l.Longitude, &l.CreatedAt); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
