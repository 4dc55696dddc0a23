package notify

import (
	"context"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) Driver() string { return DriverLog }

func (LogNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	logger.FromCtx(ctx).Info("notification",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Uint("order_id", msg.OrderID),
	)
	return nil
}

func (LogNotifier) Close() error { return nil }
