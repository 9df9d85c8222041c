package services

import (
	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// Guard decides whether an acting username may touch a resource.
// The zero value is ready to use.
type Guard struct{}

func (Guard) authenticated(op, acting string) error {
	if acting == "" {
		return apperr.New(apperr.KindAuth, op, "authentication required")
	}
	return nil
}

// IsParticipant allows the sender and the recipient of a message.
func (g Guard) IsParticipant(p *models.Participants, acting string) error {
	const op = "guard.IsParticipant"
	if err := g.authenticated(op, acting); err != nil {
		return err
	}
	if acting != p.FromUsername && acting != p.ToUsername {
		return apperr.New(apperr.KindForbidden, op, "only the sender or the recipient may view this message")
	}
	return nil
}

// IsRecipient allows only the recipient of a message.
func (g Guard) IsRecipient(p *models.Participants, acting string) error {
	const op = "guard.IsRecipient"
	if err := g.authenticated(op, acting); err != nil {
		return err
	}
	if acting != p.ToUsername {
		return apperr.New(apperr.KindForbidden, op, "only the recipient may mark this message as read")
	}
	return nil
}

// IsSelf allows a user to act only on their own resources.
func (g Guard) IsSelf(username, acting string) error {
	const op = "guard.IsSelf"
	if err := g.authenticated(op, acting); err != nil {
		return err
	}
	if acting != username {
		return apperr.New(apperr.KindForbidden, op, "users may only list their own messages")
	}
	return nil
}
