package service_test

import (
	"sync"
	"testing"

	"github.com/vibast-solutions/ms-go-newsletter/app/service"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordVerifier_MatchAndMismatch(t *testing.T) {
	verifier := service.NewPasswordVerifier(2)
	defer verifier.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if err := verifier.Verify(string(hash), "correct horse"); err != nil {
		t.Fatalf("expected matching password to verify, got %v", err)
	}
	if err := verifier.Verify(string(hash), "wrong horse"); err == nil {
		t.Fatal("expected mismatching password to fail verification")
	}
}

func TestPasswordVerifier_MalformedHashFails(t *testing.T) {
	verifier := service.NewPasswordVerifier(1)
	defer verifier.Close()

	if err := verifier.Verify("not-a-bcrypt-hash", "anything"); err == nil {
		t.Fatal("expected malformed hash to fail verification")
	}
}

func TestPasswordVerifier_ConcurrentUse(t *testing.T) {
	verifier := service.NewPasswordVerifier(2)
	defer verifier.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := verifier.Verify(string(hash), "password"); err != nil {
				t.Errorf("concurrent verify failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
