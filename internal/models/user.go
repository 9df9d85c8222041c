package models

import "time"

// UserDB represents a row of the users table.
type UserDB struct {
	Username     string    `json:"username" db:"username"`           // Primary key
	PasswordHash string    `json:"-" db:"password_hash"`             // bcrypt hash, never serialised
	FirstName    string    `json:"first_name" db:"first_name"`       // Given name
	LastName     string    `json:"last_name" db:"last_name"`         // Family name
	Phone        string    `json:"phone" db:"phone"`                 // Contact phone
	JoinedAt     time.Time `json:"joined_at" db:"joined_at"`         // Registration timestamp
	LastLoginAt  time.Time `json:"last_login_at" db:"last_login_at"` // Last successful authentication
}

// Profile returns the public fields of u.
func (u *UserDB) Profile() *UserProfile {
	return &UserProfile{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinedAt:    u.JoinedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// UserProfile is the full public view of a user.
// swagger:model UserProfile
type UserProfile struct {
	Username    string    `json:"username" db:"username"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Phone       string    `json:"phone" db:"phone"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
	LastLoginAt time.Time `json:"last_login_at" db:"last_login_at"`
}

// UserSummary is the short public view of a user embedded in listings and
// message details.
// swagger:model UserSummary
type UserSummary struct {
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Phone     string `json:"phone" db:"phone"`
}

// NewUser holds the registration input.
type NewUser struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}
