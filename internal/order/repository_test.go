package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"sudhamrit-be/internal/payment"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cartCols = []string{"id", "product_id", "name", "quantity", "price"}

func expectLockedCart(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT username, email, address FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"username", "email", "address"}).AddRow("asha", "asha@example.com", "12 MG Road, Pune"))
	mock.ExpectQuery(`FROM carts c\s+JOIN products p ON p.id = c.product_id\s+WHERE c.user_id = \$1\s+ORDER BY c.id\s+FOR UPDATE OF c`).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows(cartCols).
			AddRow(10, 1, "Milk", 2, "60.00").
			AddRow(11, 2, "Paneer", 1, "250.00"))
}

func TestRepository_PlaceOrderTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	expectLockedCart(mock)
	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(uint(1), "370", payment.MethodRazorpay, "Completed", "order_abc", "pay_xyz", "sig").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(uint(5), uint(1), "370", "Confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(uint(7), uint(1), 2, "60").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(uint(7), uint(2), 1, "250").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(`DELETE FROM carts WHERE user_id = \$1 AND id = ANY\(\$2\)`).
		WithArgs(uint(1), "{10,11}").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	expected := decimal.NewFromInt(370)
	placed, err := NewRepository(db).PlaceOrderTx(context.Background(), PlaceParams{
		UserID:           1,
		Method:           payment.MethodRazorpay,
		OrderStatus:      StatusConfirmed,
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		GatewaySignature: "sig",
		ExpectedAmount:   &expected,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), placed.Order.ID)
	assert.Equal(t, uint(5), placed.Order.PaymentID)
	assert.True(t, placed.Order.TotalAmount.Equal(expected))
	assert.True(t, placed.Payment.Amount.Equal(placed.Order.TotalAmount))
	require.Len(t, placed.Order.Items, 2)

	sum := decimal.Zero
	for _, it := range placed.Order.Items {
		sum = sum.Add(it.LineTotal())
	}
	assert.True(t, sum.Equal(placed.Order.TotalAmount))
	assert.Equal(t, "asha@example.com", placed.Order.CustomerEmail)
	assert.Equal(t, "12 MG Road, Pune", placed.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PlaceOrderTx_Aborts(t *testing.T) {
	t.Run("Empty cart writes nothing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT username, email, address FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"username", "email", "address"}).AddRow("asha", "a@x.com", ""))
		mock.ExpectQuery(`FROM carts c`).
			WillReturnRows(sqlmock.NewRows(cartCols))
		mock.ExpectRollback()

		_, err = NewRepository(db).PlaceOrderTx(context.Background(), PlaceParams{UserID: 1, Method: payment.MethodCash, OrderStatus: StatusCompleted})
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Amount changed since initiate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		expectLockedCart(mock)
		mock.ExpectRollback()

		stale := decimal.NewFromInt(310)
		_, err = NewRepository(db).PlaceOrderTx(context.Background(), PlaceParams{
			UserID: 1, Method: payment.MethodRazorpay, OrderStatus: StatusConfirmed, ExpectedAmount: &stale,
		})
		assert.ErrorIs(t, err, ErrAmountMismatch)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zero total", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT username, email, address FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"username", "email", "address"}).AddRow("asha", "a@x.com", ""))
		mock.ExpectQuery(`FROM carts c`).
			WillReturnRows(sqlmock.NewRows(cartCols).AddRow(10, 1, "Sample", 3, "0.00"))
		mock.ExpectRollback()

		_, err = NewRepository(db).PlaceOrderTx(context.Background(), PlaceParams{UserID: 1, Method: payment.MethodCash})
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown customer", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT username, email, address FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"username", "email", "address"}))
		mock.ExpectRollback()

		_, err = NewRepository(db).PlaceOrderTx(context.Background(), PlaceParams{UserID: 1})
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Item insert failure rolls back everything", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mock.ExpectBegin()
		expectLockedCart(mock)
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, err = NewRepository(db).PlaceOrderTx(context.Background(), PlaceParams{UserID: 1, Method: payment.MethodCash, OrderStatus: StatusCompleted})
		assert.ErrorContains(t, err, "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Replayed gateway payment id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		expectLockedCart(mock)
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		_, err = NewRepository(db).PlaceOrderTx(context.Background(), PlaceParams{
			UserID: 1, Method: payment.MethodRazorpay, GatewayPaymentID: "pay_xyz",
		})
		assert.ErrorIs(t, err, ErrDuplicatePayment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit failure surfaces", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mock.ExpectBegin()
		expectLockedCart(mock)
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectExec(`DELETE FROM carts`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		_, err = NewRepository(db).PlaceOrderTx(context.Background(), PlaceParams{UserID: 1, Method: payment.MethodCash, OrderStatus: StatusCompleted})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

var orderCols = []string{
	"id", "payment_id", "user_id", "username", "email", "total_amount", "status", "method", "status", "created_at", "updated_at",
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM orders o .* WHERE o.user_id = \$1 ORDER BY o.created_at DESC`).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(8, 6, 1, "asha", "a@x.com", "120.00", "Completed", "Cash", "Completed", now, now).
			AddRow(7, 5, 1, "asha", "a@x.com", "370.00", "Confirmed", "Razorpay", "Completed", now, now))
	mock.ExpectQuery(`FROM order_items oi .* WHERE oi.order_id = ANY\(\$1\)`).
		WithArgs("{8,7}").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "quantity", "price_per_item"}).
			AddRow(1, 7, 1, "Milk", 2, "60.00").
			AddRow(2, 7, 2, "Paneer", 1, "250.00").
			AddRow(3, 8, 1, "Milk", 2, "60.00"))

	orders, err := NewRepository(db).ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Items, 1)
	assert.Len(t, orders[1].Items, 2)
	assert.Equal(t, StatusConfirmed, orders[1].Status)
	assert.Equal(t, payment.StatusCompleted, orders[1].PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetForUser_ItemsKeepOrderedPrice(t *testing.T) {
	// Items must be priced from the order_items snapshot, never from the
	// joined products row, which may since have been repriced.
	livePrice := regexp.MustCompile(`\bp\.price\b`)
	matcher := sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		if strings.Contains(actual, "order_items") && livePrice.MatchString(actual) {
			return fmt.Errorf("order items read the live product price: %s", actual)
		}
		return sqlmock.QueryMatcherRegexp.Match(expected, actual)
	})

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE o.id = \$1 AND o.user_id = \$2`).
		WithArgs(uint(7), uint(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(7, 5, 1, "asha", "a@x.com", "120.00", "Confirmed", "Razorpay", "Completed", now, now))
	mock.ExpectQuery(`SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price_per_item\s+FROM order_items oi`).
		WithArgs("{7}").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "quantity", "price_per_item"}).
			AddRow(1, 7, 1, "Milk", 2, "60.00"))

	o, err := NewRepository(db).GetForUser(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "60", o.Items[0].PricePerItem.String())
	assert.True(t, o.Items[0].LineTotal().Equal(o.TotalAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetForUser_OtherCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE o.id = \$1 AND o.user_id = \$2`).
		WithArgs(uint(7), uint(2)).
		WillReturnRows(sqlmock.NewRows(orderCols))

	_, err = NewRepository(db).GetForUser(context.Background(), 7, 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRepository_ListAll_Limit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`ORDER BY o.created_at DESC, o.id DESC LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(orderCols))

	orders, err := NewRepository(db).ListAll(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkDelivered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs("Delivered", uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs("Delivered", uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs("Delivered", uint(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkDelivered(context.Background(), 7))
	require.NoError(t, repo.MarkDelivered(context.Background(), 7))
	assert.ErrorIs(t, repo.MarkDelivered(context.Background(), 99), ErrOrderNotFound)
}
