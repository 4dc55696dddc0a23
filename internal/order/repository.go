package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sudhamrit-be/internal/db"
	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/payment"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	PlaceOrderTx(ctx context.Context, params PlaceParams) (*Placed, error)
	ListByUser(ctx context.Context, userID uint) ([]Order, error)
	GetForUser(ctx context.Context, orderID, userID uint) (*Order, error)
	ListAll(ctx context.Context, limit int) ([]Order, error)
	MarkDelivered(ctx context.Context, orderID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type cartLine struct {
	cartID    int64
	productID uint
	name      string
	quantity  int
	price     decimal.Decimal
}

// PlaceOrderTx writes payment, order and order items and empties the cart
// in one transaction. The customer row lock serialises checkouts per user;
// only the cart rows read here are deleted, so a line added concurrently
// survives for the next order.
func (r *repository) PlaceOrderTx(ctx context.Context, params PlaceParams) (*Placed, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PlaceOrderTx"),
		zap.Uint("user_id", params.UserID),
	)

	placed := &Placed{}
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		o := &placed.Order

		// 1. lock the customer
		err := tx.QueryRowContext(ctx,
			`SELECT username, email, address FROM users WHERE id = $1 FOR UPDATE`,
			params.UserID,
		).Scan(&o.CustomerName, &o.CustomerEmail, &placed.Address)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		// 2. re-read the cart with current prices
		lines, err := lockCart(ctx, tx, params.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.price.Mul(decimal.NewFromInt(int64(l.quantity))))
		}
		if !total.IsPositive() {
			return ErrInvalidAmount
		}
		if params.ExpectedAmount != nil && !total.Equal(*params.ExpectedAmount) {
			return ErrAmountMismatch
		}

		// 3. payment
		placed.Payment = payment.Payment{
			UserID:           params.UserID,
			Amount:           total,
			Method:           params.Method,
			Status:           payment.StatusCompleted,
			GatewayOrderID:   params.GatewayOrderID,
			GatewayPaymentID: params.GatewayPaymentID,
			GatewaySignature: params.GatewaySignature,
		}
		if err := payment.Insert(ctx, tx, &placed.Payment); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicatePayment
			}
			return fmt.Errorf("insert payment: %w", err)
		}

		// 4. order
		o.PaymentID = placed.Payment.ID
		o.UserID = params.UserID
		o.TotalAmount = placed.Payment.Amount
		o.Status = params.OrderStatus
		o.PaymentMethod = placed.Payment.Method
		o.PaymentStatus = placed.Payment.Status
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (payment_id, user_id, total_amount, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`, o.PaymentID, o.UserID, o.TotalAmount, string(o.Status),
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		// 5. items at the price read above
		ids := make([]int64, 0, len(lines))
		for _, l := range lines {
			it := Item{
				OrderID:      o.ID,
				ProductID:    l.productID,
				Name:         l.name,
				Quantity:     l.quantity,
				PricePerItem: l.price,
			}
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, price_per_item)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, it.OrderID, it.ProductID, it.Quantity, it.PricePerItem,
			).Scan(&it.ID); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			o.Items = append(o.Items, it)
			ids = append(ids, l.cartID)
		}

		// 6. clear what was ordered
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM carts WHERE user_id = $1 AND id = ANY($2)`,
			params.UserID, pq.Array(ids),
		); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrAmountMismatch),
			errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUserNotFound):
			log.Warn("checkout aborted", zap.Error(err))
		default:
			log.Error("checkout transaction rolled back", zap.Error(err))
		}
		return nil, err
	}

	log.Info("order placed",
		zap.Uint("order_id", placed.Order.ID),
		zap.Uint("payment_id", placed.Payment.ID),
		zap.String("total", placed.Order.TotalAmount.String()),
	)
	return placed, nil
}

func lockCart(ctx context.Context, tx *sql.Tx, userID uint) ([]cartLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT c.id, c.product_id, p.name, c.quantity, p.price
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.id
		FOR UPDATE OF c
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	defer rows.Close()

	var lines []cartLine
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.cartID, &l.productID, &l.name, &l.quantity, &l.price); err != nil {
			return nil, fmt.Errorf("scan cart: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

const orderSelect = `
	SELECT
		o.id,
		o.payment_id,
		o.user_id,
		u.username,
		u.email,
		o.total_amount,
		o.status,
		p.method,
		p.status,
		o.created_at,
		o.updated_at
	FROM orders o
	JOIN users u ON u.id = o.user_id
	JOIN payments p ON p.id = o.payment_id
`

func scanOrders(rows *sql.Rows) ([]Order, error) {
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.PaymentID,
			&o.UserID,
			&o.CustomerName,
			&o.CustomerEmail,
			&o.TotalAmount,
			&o.Status,
			&o.PaymentMethod,
			&o.PaymentStatus,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		orderSelect+` WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	return orders, r.attachItems(ctx, orders)
}

// GetForUser returns ErrOrderNotFound for orders owned by someone else.
func (r *repository) GetForUser(ctx context.Context, orderID, userID uint) (*Order, error) {
	rows, err := r.db.QueryContext(ctx,
		orderSelect+` WHERE o.id = $1 AND o.user_id = $2`,
		orderID, userID,
	)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *repository) ListAll(ctx context.Context, limit int) ([]Order, error) {
	query := orderSelect + ` ORDER BY o.created_at DESC, o.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	return orders, r.attachItems(ctx, orders)
}

// attachItems loads items for all orders in one query.
func (r *repository) attachItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[uint]int, len(orders))
	for i, o := range orders {
		ids[i] = int64(o.ID)
		index[o.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price_per_item
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Quantity, &it.PricePerItem); err != nil {
			return err
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

func (r *repository) MarkDelivered(ctx context.Context, orderID uint) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(StatusDelivered), orderID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
