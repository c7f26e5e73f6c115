package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	subscriptionTokenLength   = 20
	subscriptionTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateSubscriptionToken returns a 20-character alphanumeric token drawn
// from crypto/rand. The token acts as a single-use capability, so it must be
// unpredictable.
func GenerateSubscriptionToken() (string, error) {
	alphabetSize := big.NewInt(int64(len(subscriptionTokenAlphabet)))
	token := make([]byte, subscriptionTokenLength)
	for i := range token {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("read random token byte: %w", err)
		}
		token[i] = subscriptionTokenAlphabet[n.Int64()]
	}
	return string(token), nil
}
