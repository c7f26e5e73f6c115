package entity

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("an email address must not be empty")
	ErrEmailInvalid = errors.New("invalid email address")
)

// Email is a validated subscriber email address. Obtainable only via
// ParseEmail.
type Email struct {
	value string
}

// ParseEmail validates a raw address against the RFC 5322 grammar. The
// address must stand alone: display names, comments and angle brackets are
// rejected.
func ParseEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, ErrEmailEmpty
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return Email{}, fmt.Errorf("%w: %q", ErrEmailInvalid, raw)
	}
	if addr.Name != "" || addr.Address != raw {
		return Email{}, fmt.Errorf("%w: %q", ErrEmailInvalid, raw)
	}
	local, _, _ := strings.Cut(raw, "@")
	if local == "" {
		return Email{}, fmt.Errorf("%w: %q", ErrEmailInvalid, raw)
	}
	return Email{value: raw}, nil
}

func (e Email) String() string {
	return e.value
}
