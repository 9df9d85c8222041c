package services

import (
	"strings"
	"testing"

	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		ok       bool
	}{
		{"alice", true},
		{"a.b-c_d9", true},
		{strings.Repeat("a", 50), true},
		{strings.Repeat("a", 51), false},
		{"", false},
		{"has space", false},
		{"ünicode", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			err := validateUsername("op", tt.username)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			}
		})
	}
}

func TestValidateNewUser(t *testing.T) {
	base := models.NewUser{Username: "alice", Password: "pw", FirstName: "A", LastName: "L", Phone: "1"}

	tests := []struct {
		name   string
		mutate func(u *models.NewUser)
		ok     bool
	}{
		{"valid", func(u *models.NewUser) {}, true},
		{"password at bcrypt limit", func(u *models.NewUser) { u.Password = strings.Repeat("p", 72) }, true},
		{"password over bcrypt limit", func(u *models.NewUser) { u.Password = strings.Repeat("p", 73) }, false},
		{"blank first name", func(u *models.NewUser) { u.FirstName = "  " }, false},
		{"padded phone", func(u *models.NewUser) { u.Phone = " 1 " }, true},
		{"missing last name", func(u *models.NewUser) { u.LastName = "" }, false},
		{"missing phone", func(u *models.NewUser) { u.Phone = "" }, false},
		{"long name", func(u *models.NewUser) { u.FirstName = strings.Repeat("я", 101) }, false},
		{"long phone", func(u *models.NewUser) { u.Phone = strings.Repeat("1", 33) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := base
			tt.mutate(&u)
			err := validateNewUser("op", normalizeNewUser(u))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			}
		})
	}
}

func TestValidateBodyAndID(t *testing.T) {
	assert.NoError(t, validateBody("op", "hi"))
	assert.NoError(t, validateBody("op", strings.Repeat("ж", 4096)))
	assert.Error(t, validateBody("op", strings.Repeat("ж", 4097)))
	assert.Error(t, validateBody("op", "\n\t "))

	assert.NoError(t, validateMessageID("op", 1))
	assert.Error(t, validateMessageID("op", 0))
	assert.Error(t, validateMessageID("op", -3))
}
