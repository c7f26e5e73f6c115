package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vibast-solutions/ms-go-newsletter/app/email"
	"github.com/vibast-solutions/ms-go-newsletter/app/entity"
	"github.com/vibast-solutions/ms-go-newsletter/app/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrSubscriberInvalid = errors.New("invalid subscriber details")
	ErrTokenNotFound     = errors.New("unknown subscription token")
	ErrSendFailed        = errors.New("email send failed")
)

// Mailer is the slice of the email client the services need.
type Mailer interface {
	NewMessage() *email.Builder
	Send(ctx context.Context, msg *email.Message) error
}

type SubscriptionService struct {
	db          *sql.DB
	subscribers *repository.SubscriberRepository
	mailer      Mailer
	baseURL     string
}

func NewSubscriptionService(db *sql.DB, subscribers *repository.SubscriberRepository, mailer Mailer, baseURL string) *SubscriptionService {
	return &SubscriptionService{
		db:          db,
		subscribers: subscribers,
		mailer:      mailer,
		baseURL:     baseURL,
	}
}

// Subscribe validates the form input, stores the pending subscriber together
// with a fresh confirmation token in one transaction, and sends the
// confirmation email after commit. The transaction never spans the email
// call: a send failure leaves a committed-but-unnotified subscriber rather
// than holding a database transaction open across a network round trip.
func (s *SubscriptionService) Subscribe(ctx context.Context, rawName, rawEmail string) error {
	name, err := entity.ParseName(rawName)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSubscriberInvalid, err.Error())
	}
	address, err := entity.ParseEmail(rawEmail)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSubscriberInvalid, err.Error())
	}

	subscriber := &entity.Subscriber{
		ID:           uuid.NewString(),
		Email:        address.String(),
		Name:         name.String(),
		Status:       entity.StatusPendingConfirmation,
		SubscribedAt: time.Now().UTC(),
	}

	token, err := GenerateSubscriptionToken()
	if err != nil {
		return fmt.Errorf("generate subscription token: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subscription transaction: %w", err)
	}
	defer tx.Rollback()

	txRepo := s.subscribers.WithTx(tx)
	if err := txRepo.Create(ctx, subscriber); err != nil {
		return fmt.Errorf("insert new subscriber: %w", err)
	}
	if err := txRepo.CreateToken(ctx, &entity.SubscriptionToken{
		Token:        token,
		SubscriberID: subscriber.ID,
	}); err != nil {
		return fmt.Errorf("insert subscription token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subscription transaction: %w", err)
	}

	if err := s.sendConfirmationEmail(ctx, subscriber, token); err != nil {
		return fmt.Errorf("%w: confirmation email to %s: %w", ErrSendFailed, subscriber.Email, err)
	}

	logrus.WithFields(logrus.Fields{
		"subscriber_id": subscriber.ID,
		"email":         subscriber.Email,
	}).Info("New subscriber stored, confirmation email sent")
	return nil
}

func (s *SubscriptionService) sendConfirmationEmail(ctx context.Context, subscriber *entity.Subscriber, token string) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, url.QueryEscape(token))
	msg := s.mailer.NewMessage().
		To(subscriber.Name, subscriber.Email).
		Subject("Welcome!").
		HTMLContent(fmt.Sprintf(
			`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`,
			link,
		)).
		Build()
	return s.mailer.Send(ctx, msg)
}

// Confirm resolves a token and promotes the subscriber to confirmed. An
// unknown token is the caller's problem (stale or mistyped link); a token
// whose subscriber is already confirmed is a no-op, so re-clicking the link
// stays safe.
func (s *SubscriptionService) Confirm(ctx context.Context, token string) error {
	subscriberID, err := s.subscribers.FindSubscriberIDByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("look up subscription token: %w", err)
	}
	if subscriberID == "" {
		return ErrTokenNotFound
	}

	if err := s.subscribers.Confirm(ctx, subscriberID); err != nil {
		return fmt.Errorf("confirm subscriber %s: %w", subscriberID, err)
	}

	logrus.WithField("subscriber_id", subscriberID).Info("Subscriber confirmed")
	return nil
}
