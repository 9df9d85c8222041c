package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// Input limits. Password length is capped by bcrypt.
const (
	maxPasswordBytes = 72
	maxNameRunes     = 100
	maxPhoneRunes    = 32
	maxBodyRunes     = 4096
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,50}$`)

func invalid(op, msg string) error {
	return apperr.New(apperr.KindValidation, op, msg)
}

func validateUsername(op, username string) error {
	if username == "" {
		return invalid(op, "username is required")
	}
	if !usernamePattern.MatchString(username) {
		return invalid(op, "username must be 1-50 letters, digits, '_', '.' or '-'")
	}
	return nil
}

func validatePassword(op, password string) error {
	if password == "" {
		return invalid(op, "password is required")
	}
	if len(password) > maxPasswordBytes {
		return invalid(op, "password must be at most 72 bytes")
	}
	return nil
}

func normalizeNewUser(u models.NewUser) models.NewUser {
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Phone = strings.TrimSpace(u.Phone)
	return u
}

func validateNewUser(op string, u models.NewUser) error {
	if err := validateUsername(op, u.Username); err != nil {
		return err
	}
	if err := validatePassword(op, u.Password); err != nil {
		return err
	}
	switch {
	case u.FirstName == "":
		return invalid(op, "first_name is required")
	case u.LastName == "":
		return invalid(op, "last_name is required")
	case u.Phone == "":
		return invalid(op, "phone is required")
	case utf8.RuneCountInString(u.FirstName) > maxNameRunes,
		utf8.RuneCountInString(u.LastName) > maxNameRunes:
		return invalid(op, "names must be at most 100 characters")
	case utf8.RuneCountInString(u.Phone) > maxPhoneRunes:
		return invalid(op, "phone must be at most 32 characters")
	}
	return nil
}

func validateBody(op, body string) error {
	if strings.TrimSpace(body) == "" {
		return invalid(op, "body is required")
	}
	if utf8.RuneCountInString(body) > maxBodyRunes {
		return invalid(op, "body must be at most 4096 characters")
	}
	return nil
}

func validateMessageID(op string, id int64) error {
	if id <= 0 {
		return invalid(op, "message id must be a positive integer")
	}
	return nil
}
