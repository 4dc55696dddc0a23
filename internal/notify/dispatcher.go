package notify

import (
	"context"
	"time"

	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/metrics"

	"go.uber.org/zap"
)

// Dispatcher sends each message on its own goroutine with a fixed timeout,
// detached from the caller's context so a finished request cannot cancel it.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
}

func NewDispatcher(n Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifier: n, timeout: timeout}
}

// Dispatch starts the send and returns a channel that receives its outcome
// exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) <-chan error {
	result := make(chan error, 1)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notify"),
		zap.String("driver", d.notifier.Driver()),
		zap.Uint("order_id", msg.OrderID),
	)
	base := logger.WithRequestID(context.Background(), logger.RequestIDFrom(ctx))

	go func() {
		sendCtx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()

		err := d.notifier.Send(sendCtx, msg)
		metrics.RecordNotification(d.notifier.Driver(), err)
		if err != nil {
			log.Warn("notification failed", zap.Error(err))
		} else {
			log.Info("notification sent")
		}
		result <- err
	}()

	return result
}

// Wait returns the outcome if it arrives within wait; done is false on
// timeout and the send keeps running.
func Wait(result <-chan error, wait time.Duration) (done bool, err error) {
	if wait <= 0 {
		return false, nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-result:
		return true, err
	case <-timer.C:
		return false, nil
	}
}
