package hasher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := New(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "s3cret")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"exact match", "s3cret", true},
		{"wrong password", "s3cret!", false},
		{"empty password", "", false},
		{"case differs", "S3CRET", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Compare(ctx, hash, tt.password)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := New(bcrypt.MinCost, 1)
	ctx := context.Background()

	a, err := h.Hash(ctx, "same")
	assert.NoError(t, err)
	b, err := h.Hash(ctx, "same")
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_EmptyHashNeverMatches(t *testing.T) {
	h := New(bcrypt.MinCost, 1)

	ok, err := h.Compare(context.Background(), "", "anything")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_MalformedHash(t *testing.T) {
	h := New(bcrypt.MinCost, 1)

	ok, err := h.Compare(context.Background(), "not-a-bcrypt-hash", "pw")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHasher_CancelledContext(t *testing.T) {
	h := New(bcrypt.MinCost, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	_, err := h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Defaults(t *testing.T) {
	h := New(0, 0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
	assert.NotNil(t, h.sem)
}

func TestHasher_PasswordBeyondLimitNeverMatches(t *testing.T) {
	h := New(bcrypt.MinCost, 1)
	ctx := context.Background()

	pw := strings.Repeat("a", maxPasswordBytes)
	hash, err := h.Hash(ctx, pw)
	assert.NoError(t, err)

	ok, err := h.Compare(ctx, hash, pw)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare(ctx, hash, pw+"b")
	assert.NoError(t, err)
	assert.False(t, ok)
}
