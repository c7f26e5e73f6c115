package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/vibast-solutions/ms-go-newsletter/app/email"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	insertSubscriberQuery = `(?s)INSERT INTO subscriptions \(id, email, name, subscribed_at, status\)\s+VALUES \(\?, \?, \?, \?, \?\)`
	insertTokenQuery      = `(?s)INSERT INTO subscription_tokens \(subscription_token, subscriber_id\)\s+VALUES \(\?, \?\)`
	findTokenQuery        = `(?s)SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = \?`
	confirmQuery          = `(?s)UPDATE subscriptions SET status = \? WHERE id = \? AND status = \?`
	findConfirmedQuery    = `(?s)SELECT id, email, name FROM subscriptions WHERE status = \?`
	findUserQuery         = `(?s)SELECT user_id, username, password_hash\s+FROM users WHERE username = \?`
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

// fakeMailer records sent messages and can be told to fail the nth send.
type fakeMailer struct {
	sent    []*email.Message
	failOn  int
	sendErr error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failOn: -1}
}

func (m *fakeMailer) NewMessage() *email.Builder {
	return &email.Builder{}
}

func (m *fakeMailer) Send(_ context.Context, msg *email.Message) error {
	if m.sendErr != nil && len(m.sent) == m.failOn {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}
