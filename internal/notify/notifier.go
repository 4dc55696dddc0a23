package notify

import (
	"context"
	"errors"
	"fmt"

	"sudhamrit-be/internal/config"
)

const (
	DriverSMTP = "smtp"
	DriverAMQP = "amqp"
	DriverLog  = "log"
)

var (
	ErrNoRecipient   = errors.New("notification has no recipient")
	ErrUnknownDriver = errors.New("unknown notifier driver")
)

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	OrderID uint   `json:"order_id,omitempty"`
}

// Notifier delivers a customer-facing message. Implementations must honour
// ctx cancellation.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
	Driver() string
	Close() error
}

// New builds the notifier selected by NOTIFIER_DRIVER.
func New(cfg *config.Config) (Notifier, error) {
	switch cfg.NotifierDriver {
	case DriverSMTP:
		return NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUsername, cfg.MailPassword, cfg.MailSender), nil
	case DriverAMQP:
		return NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange)
	case DriverLog, "":
		return NewLogNotifier(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.NotifierDriver)
	}
}
