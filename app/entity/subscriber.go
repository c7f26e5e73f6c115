package entity

import "time"

const (
	StatusPendingConfirmation = "pending_confirmation"
	StatusConfirmed           = "confirmed"
)

type Subscriber struct {
	ID           string
	Email        string
	Name         string
	Status       string
	SubscribedAt time.Time
}

type SubscriptionToken struct {
	Token        string
	SubscriberID string
}

// User is the operator account table. This service only ever reads it.
type User struct {
	UserID       string
	Username     string
	PasswordHash string
}
