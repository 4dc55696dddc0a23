package dashboard

import (
	"context"
	"database/sql"

	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/order"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Stats struct {
	Products  int64           `json:"products"`
	Customers int64           `json:"customers"`
	Orders    int64           `json:"orders"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type View struct {
	Stats        Stats         `json:"stats"`
	RecentOrders []order.Order `json:"recent_orders"`
	// Degraded is set when any read failed and zero values were substituted.
	Degraded bool `json:"degraded"`
}

type Repository interface {
	Stats(ctx context.Context) (Stats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders)
	`).Scan(&s.Products, &s.Customers, &s.Orders, &s.Revenue)
	return s, err
}

type Service interface {
	View(ctx context.Context) View
}

type service struct {
	repo   Repository
	orders order.Repository
	recent int
}

func NewService(repo Repository, orders order.Repository, recent int) Service {
	if recent <= 0 {
		recent = 10
	}
	return &service{repo: repo, orders: orders, recent: recent}
}

// View never fails: unreadable parts come back zero-valued with Degraded set.
func (s *service) View(ctx context.Context) View {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DashboardView"),
	)

	v := View{Stats: Stats{Revenue: decimal.Zero}, RecentOrders: []order.Order{}}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		log.Warn("dashboard stats unavailable", zap.Error(err))
		v.Degraded = true
	} else {
		v.Stats = stats
	}

	recent, err := s.orders.ListAll(ctx, s.recent)
	if err != nil {
		log.Warn("recent orders unavailable", zap.Error(err))
		v.Degraded = true
	} else {
		v.RecentOrders = recent
	}

	return v
}
