package service

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-newsletter/app/entity"
	"github.com/vibast-solutions/ms-go-newsletter/app/repository"

	"github.com/sirupsen/logrus"
)

type NewsletterService struct {
	subscribers *repository.SubscriberRepository
	mailer      Mailer
}

func NewNewsletterService(subscribers *repository.SubscriberRepository, mailer Mailer) *NewsletterService {
	return &NewsletterService{subscribers: subscribers, mailer: mailer}
}

// Publish fans a newsletter issue out to every confirmed subscriber, one
// single-recipient email each so no subscriber ever sees another's address.
// Stored rows are re-validated before sending: a row that no longer parses
// is skipped with a warning instead of blocking the rest of the list. The
// first send failure aborts the remaining sends and names the recipient.
func (s *NewsletterService) Publish(ctx context.Context, title, bodyHTML string) error {
	subscribers, err := s.subscribers.FindConfirmed(ctx)
	if err != nil {
		return fmt.Errorf("retrieve confirmed subscribers: %w", err)
	}

	sent := 0
	for _, subscriber := range subscribers {
		name, err := entity.ParseName(subscriber.Name)
		if err != nil {
			logrus.WithError(err).WithField("email", subscriber.Email).
				Warn("Skipping confirmed subscriber with invalid stored name")
			continue
		}
		address, err := entity.ParseEmail(subscriber.Email)
		if err != nil {
			logrus.WithError(err).WithField("email", subscriber.Email).
				Warn("Skipping confirmed subscriber with invalid stored email")
			continue
		}

		msg := s.mailer.NewMessage().
			To(name.String(), address.String()).
			Subject(title).
			HTMLContent(bodyHTML).
			Build()
		if err := s.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("%w: newsletter issue to %s: %w", ErrSendFailed, address.String(), err)
		}
		sent++
	}

	logrus.WithFields(logrus.Fields{
		"title": title,
		"sent":  sent,
	}).Info("Newsletter issue published")
	return nil
}
