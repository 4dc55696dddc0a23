package product

import (
	"context"
	"database/sql"
	"errors"

	"sudhamrit-be/internal/db"
	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, onlyActive bool) ([]Product, error)
	GetByID(ctx context.Context, id uint) (Product, error)
	Create(ctx context.Context, params SaveParams) (Product, error)
	Update(ctx context.Context, id uint, params SaveParams) (Product, error)
	Delete(ctx context.Context, id uint) (DeleteOutcome, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, COALESCE(description, ''), category, price, stock, COALESCE(image, ''), active, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (Product, error) {
	var p Product
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.Stock,
		&p.Image,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
	)

	query := `SELECT ` + productColumns + ` FROM products`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, params SaveParams) (Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, category, price, stock, image)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''))
		RETURNING `+productColumns,
		params.Name, params.Description, params.Category, params.Price, params.Stock, params.Image,
	))
}

// Update overwrites all fields; an empty Image keeps the stored one.
func (r *repository) Update(ctx context.Context, id uint, params SaveParams) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1,
		    description = NULLIF($2, ''),
		    category = $3,
		    price = $4,
		    stock = $5,
		    image = COALESCE(NULLIF($6, ''), image),
		    updated_at = NOW()
		WHERE id = $7
		RETURNING `+productColumns,
		params.Name, params.Description, params.Category, params.Price, params.Stock, params.Image, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

// Delete hard-deletes a product nobody ever ordered. A product referenced by
// order history is deactivated instead and dropped from every cart.
func (r *repository) Delete(ctx context.Context, id uint) (DeleteOutcome, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "DeleteProduct"),
		zap.Uint("product_id", id),
	)

	var outcome DeleteOutcome
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked uint
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM products WHERE id = $1 FOR UPDATE`, id,
		).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		var referenced bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM order_items WHERE product_id = $1)`, id,
		).Scan(&referenced); err != nil {
			return err
		}

		if !referenced {
			if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
				return err
			}
			outcome = Deleted
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET active = FALSE, updated_at = NOW() WHERE id = $1`, id,
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE product_id = $1`, id); err != nil {
			return err
		}
		outcome = Deactivated
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			log.Error("failed to delete product", zap.Error(err))
		}
		return "", err
	}

	log.Info("product removed", zap.String("outcome", string(outcome)))
	return outcome, nil
}
