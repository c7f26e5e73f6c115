package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-newsletter/app/entity"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyPasswordHash is a valid bcrypt hash of an arbitrary fixed password.
// When a username does not exist we verify the supplied password against
// this hash instead of returning early, so the wall-clock cost of a login
// attempt is the same whether or not the username exists.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

type AuthService struct {
	users         userFinder
	verifier      *PasswordVerifier
	sessionSecret string
	sessionTTL    time.Duration
}

func NewAuthService(users userFinder, verifier *PasswordVerifier, sessionSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		verifier:      verifier,
		sessionSecret: sessionSecret,
		sessionTTL:    sessionTTL,
	}
}

// ValidateCredentials checks a username/password pair and returns the user
// id on success. Both "no such user" and "wrong password" come back as
// ErrInvalidCredentials; anything else is an internal fault and must not be
// surfaced as a credentials hint.
func (s *AuthService) ValidateCredentials(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("retrieve user %q: %w", username, err)
	}

	// The verification below always runs, against the dummy hash when the
	// user is unknown.
	hash := dummyPasswordHash
	if user != nil {
		hash = user.PasswordHash
	}

	verifyErr := s.verifier.Verify(hash, password)

	if user == nil {
		// Even a pathological dummy-hash match must not log anyone in.
		return "", ErrInvalidCredentials
	}
	if verifyErr != nil {
		if errors.Is(verifyErr, bcrypt.ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		// Anything else means the stored hash itself is broken, which is an
		// internal fault and must not masquerade as a bad password.
		return "", fmt.Errorf("verify password hash for user %q: %w", username, verifyErr)
	}
	return user.UserID, nil
}

type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueSession creates the signed session token set as a cookie after a
// successful login.
func (s *AuthService) IssueSession(userID, username string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.sessionSecret))
}

func (s *AuthService) ValidateSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
