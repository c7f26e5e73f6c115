package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-newsletter/app/entity"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the same queries can run
// inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SubscriberRepository struct {
	db dbtx
}

func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// WithTx returns a copy of the repository that runs its queries on tx.
func (r *SubscriberRepository) WithTx(tx *sql.Tx) *SubscriberRepository {
	return &SubscriberRepository{db: tx}
}

func (r *SubscriberRepository) Create(ctx context.Context, subscriber *entity.Subscriber) error {
	query := `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		subscriber.ID,
		subscriber.Email,
		subscriber.Name,
		subscriber.SubscribedAt,
		subscriber.Status,
	)
	return err
}

func (r *SubscriberRepository) CreateToken(ctx context.Context, token *entity.SubscriptionToken) error {
	query := `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES (?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.Token,
		token.SubscriberID,
	)
	return err
}

// FindSubscriberIDByToken resolves a confirmation token to a subscriber id.
// An unknown token returns ("", nil).
func (r *SubscriberRepository) FindSubscriberIDByToken(ctx context.Context, token string) (string, error) {
	query := `
		SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = ?
	`
	var subscriberID string
	err := r.db.QueryRowContext(ctx, query, token).Scan(&subscriberID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return subscriberID, nil
}

// Confirm flips a pending subscriber to confirmed. Re-confirming an already
// confirmed subscriber matches zero rows, which is not an error.
func (r *SubscriberRepository) Confirm(ctx context.Context, subscriberID string) error {
	query := `
		UPDATE subscriptions SET status = ? WHERE id = ? AND status = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		entity.StatusConfirmed,
		subscriberID,
		entity.StatusPendingConfirmation,
	)
	return err
}

func (r *SubscriberRepository) FindConfirmed(ctx context.Context) ([]*entity.Subscriber, error) {
	query := `
		SELECT id, email, name FROM subscriptions WHERE status = ?
	`
	rows, err := r.db.QueryContext(ctx, query, entity.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscribers []*entity.Subscriber
	for rows.Next() {
		subscriber := &entity.Subscriber{Status: entity.StatusConfirmed}
		if err := rows.Scan(&subscriber.ID, &subscriber.Email, &subscriber.Name); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, subscriber)
	}
	return subscribers, rows.Err()
}
