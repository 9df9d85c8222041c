// Package hasher wraps bcrypt behind a weighted semaphore so that password
// hashing cannot occupy more than a fixed number of CPUs at once.
package hasher

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
	// dummy is compared against when a user does not exist, so that unknown
	// and known usernames cost the same amount of work.
	dummy []byte
}

// New creates a Hasher. A cost outside bcrypt's range falls back to
// bcrypt.DefaultCost; maxConcurrent <= 0 uses GOMAXPROCS.
func New(cost, maxConcurrent int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("gw-messenger-dummy"), cost)
	if err != nil {
		panic(err)
	}
	return &Hasher{
		cost:  cost,
		sem:   semaphore.NewWeighted(int64(maxConcurrent)),
		dummy: dummy,
	}
}

// Hash returns the bcrypt hash of password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. An empty hash is compared
// against a dummy value and always reports false, as does a password longer
// than bcrypt's 72-byte input limit.
func (h *Hasher) Compare(ctx context.Context, hash, password string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	target := []byte(hash)
	if hash == "" {
		target = h.dummy
	}

	tooLong := len(password) > maxPasswordBytes
	if tooLong {
		target, password = h.dummy, password[:maxPasswordBytes]
	}

	err := bcrypt.CompareHashAndPassword(target, []byte(password))
	switch {
	case err == nil:
		return hash != "" && !tooLong, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
