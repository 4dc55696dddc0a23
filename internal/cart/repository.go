package cart

import (
	"context"
	"database/sql"
	"errors"

	"sudhamrit-be/internal/db"
	"sudhamrit-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	AddItem(ctx context.Context, userID, productID uint) error
	SetQuantity(ctx context.Context, userID, productID uint, quantity int) (Totals, error)
	Remove(ctx context.Context, userID, productID uint) error
	List(ctx context.Context, userID uint) ([]Item, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// AddItem inserts a line with quantity 1 or bumps the existing one. Inactive
// or unknown products affect no rows.
func (r *repository) AddItem(ctx context.Context, userID, productID uint) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, product_id, quantity)
		SELECT $1, p.id, 1 FROM products p WHERE p.id = $2 AND p.active = TRUE
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = carts.quantity + 1, updated_at = NOW()
	`, userID, productID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to upsert cart item",
			zap.String("layer", "repository"),
			zap.String("method", "AddItem"),
			zap.Error(err),
		)
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SetQuantity sets or, for quantity ≤ 0, deletes a line and returns the new
// totals read in the same transaction.
func (r *repository) SetQuantity(ctx context.Context, userID, productID uint, quantity int) (Totals, error) {
	var totals Totals
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if quantity <= 0 {
			res, err := tx.ExecContext(ctx,
				`DELETE FROM carts WHERE user_id = $1 AND product_id = $2`,
				userID, productID,
			)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return ErrCartItemNotFound
			}
			totals.ItemTotal = decimal.Zero
		} else {
			err := tx.QueryRowContext(ctx, `
				UPDATE carts c
				SET quantity = $3, updated_at = NOW()
				FROM products p
				WHERE c.user_id = $1 AND c.product_id = $2 AND p.id = c.product_id
				RETURNING c.quantity * p.price
			`, userID, productID, quantity).Scan(&totals.ItemTotal)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCartItemNotFound
			}
			if err != nil {
				return err
			}
		}

		return tx.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(c.quantity * p.price), 0)
			FROM carts c JOIN products p ON p.id = c.product_id
			WHERE c.user_id = $1
		`, userID).Scan(&totals.GrandTotal)
	})
	if err != nil {
		if !errors.Is(err, ErrCartItemNotFound) {
			logger.FromCtx(ctx).Error("failed to set cart quantity",
				zap.String("layer", "repository"),
				zap.String("method", "SetQuantity"),
				zap.Error(err),
			)
		}
		return Totals{}, err
	}
	return totals, nil
}

func (r *repository) Remove(ctx context.Context, userID, productID uint) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM carts WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, userID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id,
			c.product_id,
			p.name,
			p.category,
			COALESCE(p.image, ''),
			p.price,
			c.quantity,
			c.added_at
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.added_at, c.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID,
			&it.ProductID,
			&it.Name,
			&it.Category,
			&it.Image,
			&it.Price,
			&it.Quantity,
			&it.AddedAt,
		); err != nil {
			return nil, err
		}
		it.ItemTotal = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, it)
	}
	return items, rows.Err()
}
