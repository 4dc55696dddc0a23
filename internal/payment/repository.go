package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// Queryer is satisfied by *sql.DB and *sql.Tx.
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository interface {
	UpdateStatusByGatewayPaymentID(ctx context.Context, gatewayPaymentID string, status Status) (bool, error)
	SavePaymentWebhook(
		ctx context.Context,
		provider string,
		eventID string,
		eventType string,
		externalID string,
		payload json.RawMessage,
		signatureValid bool,
	) (webhookID int64, isDuplicate bool, err error)

	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Insert writes p and fills its ID and timestamps. Checkout calls it inside
// the order transaction.
func Insert(ctx context.Context, q Queryer, p *Payment) error {
	return q.QueryRowContext(ctx, `
		INSERT INTO payments (
			user_id,
			amount,
			method,
			status,
			gateway_order_id,
			gateway_payment_id,
			gateway_signature
		)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
		RETURNING id, created_at, updated_at
	`,
		p.UserID,
		p.Amount,
		p.Method,
		string(p.Status),
		p.GatewayOrderID,
		p.GatewayPaymentID,
		p.GatewaySignature,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// UpdateStatusByGatewayPaymentID moves a Pending payment to status.
// Terminal payments are left untouched and report false.
func (r *repository) UpdateStatusByGatewayPaymentID(ctx context.Context, gatewayPaymentID string, status Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE gateway_payment_id = $2 AND status = $3
	`, string(status), gatewayPaymentID, string(StatusPending))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) SavePaymentWebhook(
	ctx context.Context,
	provider string,
	eventID string,
	eventType string,
	externalID string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	const q = `
	INSERT INTO payment_webhooks (
		provider,
		event_id,
		event_type,
		external_id,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (provider, event_id)
	DO NOTHING
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		q,
		provider,
		eventID,
		eventType,
		externalID,
		signatureValid,
		[]byte(payload),
	).Scan(&id)

	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}

	// Redelivery. Only an event that was fully processed is a duplicate; one
	// whose earlier attempt failed is handed back for another try.
	var processed bool
	err = r.db.QueryRowContext(ctx,
		`SELECT id, processed_at IS NOT NULL FROM payment_webhooks WHERE provider = $1 AND event_id = $2`,
		provider, eventID,
	).Scan(&id, &processed)
	if err != nil {
		return 0, false, err
	}
	return id, processed, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_webhooks SET processed_at = NOW(), process_error = NULL WHERE id = $1`,
		webhookID,
	)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_webhooks SET process_error = $2 WHERE id = $1`,
		webhookID, reason,
	)
	return err
}
