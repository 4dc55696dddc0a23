package order

import (
	"context"
	"errors"
	"time"

	"sudhamrit-be/internal/cart"
	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/metrics"
	"sudhamrit-be/internal/notify"
	"sudhamrit-be/internal/payment"
	"sudhamrit-be/internal/utils"

	"go.uber.org/zap"
)

// CheckoutService drives a checkout attempt from cart to committed order.
type CheckoutService interface {
	Initiate(ctx context.Context, userID uint) (*Intent, error)
	Confirm(ctx context.Context, userID uint, intent Intent, gatewayPaymentID, signature string) (*Receipt, error)
	ConfirmOffline(ctx context.Context, userID uint, method string) (*Receipt, error)
	Fail(ctx context.Context, userID uint, intent *Intent, reason string)
}

type CheckoutConfig struct {
	Currency   string
	NotifyWait time.Duration
}

type checkout struct {
	carts      cart.Repository
	orders     Repository
	gateway    payment.Gateway
	dispatcher *notify.Dispatcher
	cfg        CheckoutConfig
}

func NewCheckoutService(
	carts cart.Repository,
	orders Repository,
	gateway payment.Gateway,
	dispatcher *notify.Dispatcher,
	cfg CheckoutConfig,
) CheckoutService {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &checkout{
		carts:      carts,
		orders:     orders,
		gateway:    gateway,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// Initiate registers a gateway order for the current cart total. Nothing
// durable is written.
func (c *checkout) Initiate(ctx context.Context, userID uint) (*Intent, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "InitiateCheckout"),
		zap.Uint("user_id", userID),
	)

	items, err := c.carts.List(ctx, userID)
	if err != nil {
		log.Error("failed to read cart", zap.Error(err))
		metrics.RecordCheckout("initiate", metrics.StatusError)
		return nil, err
	}
	if len(items) == 0 {
		metrics.RecordCheckout("initiate", metrics.StatusRejected)
		return nil, ErrEmptyCart
	}

	total := cart.GrandTotal(items)
	if !total.IsPositive() {
		metrics.RecordCheckout("initiate", metrics.StatusRejected)
		return nil, ErrInvalidAmount
	}

	receipt := utils.GenerateReceipt()
	gwOrder, err := c.gateway.CreateOrderIntent(ctx, payment.ToMinorUnits(total), c.cfg.Currency, receipt)
	if err != nil {
		log.Error("gateway order creation failed", zap.Error(err))
		metrics.RecordCheckout("initiate", metrics.StatusError)
		return nil, err
	}

	metrics.RecordCheckout("initiate", metrics.StatusSuccess)
	log.Info("checkout initiated",
		zap.String("gateway_order_id", gwOrder.ID),
		zap.String("total", total.String()),
	)

	return &Intent{
		UserID:         userID,
		GatewayOrderID: gwOrder.ID,
		Amount:         total,
		AmountMinor:    payment.ToMinorUnits(total),
		Currency:       c.cfg.Currency,
		Receipt:        receipt,
		KeyID:          c.gateway.KeyID(),
	}, nil
}

// Confirm verifies the gateway callback and commits the order. A bad
// signature writes nothing and keeps the cart.
func (c *checkout) Confirm(
	ctx context.Context,
	userID uint,
	intent Intent,
	gatewayPaymentID string,
	signature string,
) (*Receipt, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmCheckout"),
		zap.Uint("user_id", userID),
		zap.String("gateway_order_id", intent.GatewayOrderID),
		zap.String("gateway_payment_id", gatewayPaymentID),
	)

	if intent.UserID != userID || intent.GatewayOrderID == "" {
		metrics.RecordCheckout("confirm", metrics.StatusRejected)
		return nil, ErrIntentMismatch
	}

	if err := c.gateway.VerifyPaymentSignature(intent.GatewayOrderID, gatewayPaymentID, signature); err != nil {
		log.Warn("payment signature mismatch, possible fraud", zap.Error(err))
		metrics.RecordCheckout("confirm", metrics.StatusRejected)
		return nil, err
	}

	amount := intent.Amount
	placed, err := c.orders.PlaceOrderTx(ctx, PlaceParams{
		UserID:           userID,
		Method:           payment.MethodRazorpay,
		OrderStatus:      StatusConfirmed,
		GatewayOrderID:   intent.GatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		GatewaySignature: signature,
		ExpectedAmount:   &amount,
	})
	if err != nil {
		metrics.RecordCheckout("confirm", outcome(err))
		return nil, err
	}

	metrics.RecordCheckout("confirm", metrics.StatusSuccess)
	return c.receipt(ctx, placed), nil
}

func (c *checkout) ConfirmOffline(ctx context.Context, userID uint, method string) (*Receipt, error) {
	if !payment.IsOfflineMethod(method) {
		metrics.RecordCheckout("confirm_offline", metrics.StatusRejected)
		return nil, ErrInvalidMethod
	}

	placed, err := c.orders.PlaceOrderTx(ctx, PlaceParams{
		UserID:      userID,
		Method:      method,
		OrderStatus: StatusCompleted,
	})
	if err != nil {
		metrics.RecordCheckout("confirm_offline", outcome(err))
		return nil, err
	}

	metrics.RecordCheckout("confirm_offline", metrics.StatusSuccess)
	return c.receipt(ctx, placed), nil
}

// Fail records a failed or cancelled payment. The cart is left intact.
func (c *checkout) Fail(ctx context.Context, userID uint, intent *Intent, reason string) {
	fields := []zap.Field{
		zap.String("layer", "service"),
		zap.String("method", "FailCheckout"),
		zap.Uint("user_id", userID),
		zap.String("reason", reason),
	}
	if intent != nil {
		fields = append(fields, zap.String("gateway_order_id", intent.GatewayOrderID))
	}
	logger.FromCtx(ctx).Info("payment failed or cancelled", fields...)
	metrics.RecordCheckout("fail", metrics.StatusSuccess)
}

func (c *checkout) receipt(ctx context.Context, placed *Placed) *Receipt {
	r := &Receipt{Order: placed.Order}
	if c.dispatcher == nil {
		return r
	}

	lines := make([]notify.OrderLine, 0, len(placed.Order.Items))
	for _, it := range placed.Order.Items {
		lines = append(lines, notify.OrderLine{Name: it.Name, Quantity: it.Quantity, Price: it.PricePerItem})
	}

	result := c.dispatcher.Dispatch(ctx, notify.OrderConfirmation(notify.OrderSummary{
		OrderID:      placed.Order.ID,
		CustomerName: placed.Order.CustomerName,
		Email:        placed.Order.CustomerEmail,
		Address:      placed.Address,
		Method:       placed.Payment.Method,
		Total:        placed.Order.TotalAmount,
		Lines:        lines,
	}))

	done, err := notify.Wait(result, c.cfg.NotifyWait)
	switch {
	case !done:
		r.Notification.Pending = true
	case err != nil:
		r.Notification.Error = err.Error()
	default:
		r.Notification.Sent = true
	}
	return r
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrAmountMismatch), errors.Is(err, ErrDuplicatePayment):
		return metrics.StatusRejected
	}
	return metrics.StatusError
}
