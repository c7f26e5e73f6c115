package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-newsletter/app/entity"
	"github.com/vibast-solutions/ms-go-newsletter/app/repository"

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

func TestSubscriberRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)
	subscriber := &entity.Subscriber{
		ID:           "sub-1",
		Email:        "ursula_le_guin@gmail.com",
		Name:         "le guin",
		Status:       entity.StatusPendingConfirmation,
		SubscribedAt: time.Now().UTC(),
	}

	mock.ExpectExec(insertSubscriberQuery).
		WithArgs(
			subscriber.ID,
			subscriber.Email,
			subscriber.Name,
			subscriber.SubscribedAt,
			subscriber.Status,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), subscriber); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubscriberRepository_CreateToken(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)
	token := &entity.SubscriptionToken{
		Token:        "aBcDeFgHiJkLmNoPqRsT",
		SubscriberID: "sub-1",
	}

	mock.ExpectExec(insertTokenQuery).
		WithArgs(token.Token, token.SubscriberID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreateToken(context.Background(), token); err != nil {
		t.Fatalf("create token failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubscriberRepository_CreateAndTokenInsideTransaction(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(insertSubscriberQuery).
		WithArgs("sub-1", "ursula_le_guin@gmail.com", "le guin", sqlmock.AnyArg(), "pending_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertTokenQuery).
		WithArgs("aBcDeFgHiJkLmNoPqRsT", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	txRepo := repo.WithTx(tx)

	subscriber := &entity.Subscriber{
		ID:           "sub-1",
		Email:        "ursula_le_guin@gmail.com",
		Name:         "le guin",
		Status:       entity.StatusPendingConfirmation,
		SubscribedAt: time.Now().UTC(),
	}
	if err := txRepo.Create(context.Background(), subscriber); err != nil {
		t.Fatalf("create in tx failed: %v", err)
	}
	if err := txRepo.CreateToken(context.Background(), &entity.SubscriptionToken{
		Token:        "aBcDeFgHiJkLmNoPqRsT",
		SubscriberID: "sub-1",
	}); err != nil {
		t.Fatalf("create token in tx failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubscriberRepository_FindSubscriberIDByToken(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)

	mock.ExpectQuery(findTokenQuery).
		WithArgs("aBcDeFgHiJkLmNoPqRsT").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}).AddRow("sub-1"))

	subscriberID, err := repo.FindSubscriberIDByToken(context.Background(), "aBcDeFgHiJkLmNoPqRsT")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if subscriberID != "sub-1" {
		t.Fatalf("expected sub-1, got %q", subscriberID)
	}
}

func TestSubscriberRepository_FindSubscriberIDByToken_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)

	mock.ExpectQuery(findTokenQuery).
		WithArgs("nosuchtoken123456789").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}))

	subscriberID, err := repo.FindSubscriberIDByToken(context.Background(), "nosuchtoken123456789")
	if err != nil {
		t.Fatalf("unknown token must not be an error, got %v", err)
	}
	if subscriberID != "" {
		t.Fatalf("expected empty id for unknown token, got %q", subscriberID)
	}
}

func TestSubscriberRepository_Confirm(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)

	mock.ExpectExec(confirmQuery).
		WithArgs(entity.StatusConfirmed, "sub-1", entity.StatusPendingConfirmation).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Confirm(context.Background(), "sub-1"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
}

func TestSubscriberRepository_Confirm_ZeroRowsIsSuccess(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)

	mock.ExpectExec(confirmQuery).
		WithArgs(entity.StatusConfirmed, "sub-1", entity.StatusPendingConfirmation).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Confirm(context.Background(), "sub-1"); err != nil {
		t.Fatalf("confirming an already-confirmed subscriber must succeed, got %v", err)
	}
}

func TestSubscriberRepository_FindConfirmed(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)

	mock.ExpectQuery(findConfirmedQuery).
		WithArgs(entity.StatusConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name"}).
			AddRow("sub-1", "ursula_le_guin@gmail.com", "le guin").
			AddRow("sub-2", "gene.wolfe@example.org", "gene wolfe"))

	subscribers, err := repo.FindConfirmed(context.Background())
	if err != nil {
		t.Fatalf("find confirmed failed: %v", err)
	}
	if len(subscribers) != 2 {
		t.Fatalf("expected 2 subscribers, got %d", len(subscribers))
	}
	if subscribers[0].Email != "ursula_le_guin@gmail.com" || subscribers[1].Name != "gene wolfe" {
		t.Fatalf("unexpected rows: %+v", subscribers)
	}
}

func TestSubscriberRepository_FindConfirmed_QueryError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewSubscriberRepository(db)

	mock.ExpectQuery(findConfirmedQuery).
		WithArgs(entity.StatusConfirmed).
		WillReturnError(errors.New("connection refused"))

	if _, err := repo.FindConfirmed(context.Background()); err == nil {
		t.Fatal("expected query error to propagate")
	}
}
