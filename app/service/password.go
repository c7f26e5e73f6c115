package service

import (
	"golang.org/x/crypto/bcrypt"
)

type verifyJob struct {
	hash     string
	password string
	done     chan error
}

// PasswordVerifier runs bcrypt comparisons on a fixed set of worker
// goroutines so the CPU cost of a verification never stalls request
// handling. Verify has no context parameter: a submitted job always runs to
// completion, otherwise cancellation could shortcut the dummy-hash branch
// and reintroduce the timing oracle.
type PasswordVerifier struct {
	jobs chan verifyJob
}

func NewPasswordVerifier(workers int) *PasswordVerifier {
	if workers <= 0 {
		workers = 1
	}
	v := &PasswordVerifier{jobs: make(chan verifyJob)}
	for i := 0; i < workers; i++ {
		go v.worker()
	}
	return v
}

func (v *PasswordVerifier) worker() {
	for job := range v.jobs {
		job.done <- bcrypt.CompareHashAndPassword([]byte(job.hash), []byte(job.password))
	}
}

// Verify blocks until a worker has compared password against hash. A nil
// return means the password matches.
func (v *PasswordVerifier) Verify(hash, password string) error {
	done := make(chan error, 1)
	v.jobs <- verifyJob{hash: hash, password: password, done: done}
	return <-done
}

// Close stops the workers once in-flight jobs have drained. No Verify call
// may be in flight or follow Close.
func (v *PasswordVerifier) Close() {
	close(v.jobs)
}
