package services

import (
	"testing"

	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	p := &models.Participants{ID: 1, FromUsername: "alice", ToUsername: "bob"}
	var g Guard

	tests := []struct {
		name  string
		check func() error
		want  error
	}{
		{"participant sender", func() error { return g.IsParticipant(p, "alice") }, nil},
		{"participant recipient", func() error { return g.IsParticipant(p, "bob") }, nil},
		{"participant third party", func() error { return g.IsParticipant(p, "carol") }, apperr.ErrForbidden},
		{"participant anonymous", func() error { return g.IsParticipant(p, "") }, apperr.ErrAuth},
		{"recipient ok", func() error { return g.IsRecipient(p, "bob") }, nil},
		{"recipient sender denied", func() error { return g.IsRecipient(p, "alice") }, apperr.ErrForbidden},
		{"recipient third party", func() error { return g.IsRecipient(p, "carol") }, apperr.ErrForbidden},
		{"recipient anonymous", func() error { return g.IsRecipient(p, "") }, apperr.ErrAuth},
		{"self ok", func() error { return g.IsSelf("alice", "alice") }, nil},
		{"self other", func() error { return g.IsSelf("alice", "bob") }, apperr.ErrForbidden},
		{"self anonymous", func() error { return g.IsSelf("alice", "") }, apperr.ErrAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
