package notify

import (
	"context"
	"crypto/tls"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
)

const defaultSMTPTimeout = 30 * time.Second

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type SMTPNotifier struct {
	host    string
	addr    string
	auth    smtp.Auth
	sender  string
	timeout time.Duration
	dial    dialFunc
}

// NewSMTPNotifier sends through host:port and upgrades to STARTTLS when the
// server offers it (port 587).
func NewSMTPNotifier(host, port, username, password, sender string) *SMTPNotifier {
	if sender == "" {
		sender = username
	}
	var d net.Dialer
	return &SMTPNotifier{
		host:    host,
		addr:    net.JoinHostPort(host, port),
		auth:    smtp.PlainAuth("", username, password, host),
		sender:  sender,
		timeout: defaultSMTPTimeout,
		dial:    d.DialContext,
	}
}

func (n *SMTPNotifier) Driver() string { return DriverSMTP }

// Send delivers msg over a single connection. Every network step shares one
// deadline: the earlier of ctx's deadline and the notifier timeout.
func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	e := email.NewEmail()
	e.From = n.sender
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)

	raw, err := e.Bytes()
	if err != nil {
		return err
	}

	deadline := time.Now().Add(n.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	conn, err := n.dial(dialCtx, "tcp", n.addr)
	if err != nil {
		return contextErr(ctx, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if err := n.deliver(conn, msg.To, raw); err != nil {
		return contextErr(ctx, err)
	}
	return nil
}

// contextErr reports ctx's error when ctx ended the exchange, even if the
// connection deadline fired first.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
		return context.DeadlineExceeded
	}
	return err
}

func (n *SMTPNotifier) deliver(conn net.Conn, to string, raw []byte) error {
	c, err := smtp.NewClient(conn, n.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.host}); err != nil {
			return err
		}
	}
	if ok, _ := c.Extension("AUTH"); ok && n.auth != nil {
		if err := c.Auth(n.auth); err != nil {
			return err
		}
	}

	if err := c.Mail(envelopeAddress(n.sender)); err != nil {
		return err
	}
	if err := c.Rcpt(envelopeAddress(to)); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func envelopeAddress(s string) string {
	if a, err := mail.ParseAddress(s); err == nil {
		return a.Address
	}
	return s
}

func (n *SMTPNotifier) Close() error { return nil }
