package category

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, filter string) ([]Category, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// List groups active products by category, optionally matching filter
// case-insensitively.
func (r *repository) List(ctx context.Context, filter string) ([]Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListCategories"),
		zap.String("filter", filter),
	)

	query := `
		SELECT
			p.category,
			COUNT(*)
		FROM products p
	`

	where := []string{"p.active = TRUE"}
	args := []interface{}{}

	if filter = strings.TrimSpace(filter); filter != "" {
		where = append(where, fmt.Sprintf("p.category ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter+"%")
	}

	query += " WHERE " + strings.Join(where, " AND ")
	query += " GROUP BY p.category ORDER BY p.category ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.ProductCount); err != nil {
			log.Error("failed to scan category", zap.Error(err))
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
