package models

import "time"

// MessageDB represents a row of the messages table.
// ReadAt is nil until the recipient marks the message as read.
type MessageDB struct {
	ID           int64      `json:"id" db:"id"`
	FromUsername string     `json:"from_username" db:"from_username"`
	ToUsername   string     `json:"to_username" db:"to_username"`
	Body         string     `json:"body" db:"body"`
	SentAt       time.Time  `json:"sent_at" db:"sent_at"`
	ReadAt       *time.Time `json:"read_at" db:"read_at"`
}

// Participants returns the sender and recipient of a message.
type Participants struct {
	ID           int64  `db:"id"`
	FromUsername string `db:"from_username"`
	ToUsername   string `db:"to_username"`
}

// MessageDetail is a message with both participants expanded.
// swagger:model MessageDetail
type MessageDetail struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserSummary `json:"from_user"`
	ToUser   UserSummary `json:"to_user"`
}

// SentMessage is a message in a sender's outbox with the recipient expanded.
// swagger:model SentMessage
type SentMessage struct {
	ID     int64       `json:"id"`
	Body   string      `json:"body"`
	SentAt time.Time   `json:"sent_at"`
	ReadAt *time.Time  `json:"read_at"`
	ToUser UserSummary `json:"to_user"`
}

// ReceivedMessage is a message in a recipient's inbox with the sender expanded.
// swagger:model ReceivedMessage
type ReceivedMessage struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserSummary `json:"from_user"`
}

// ReadReceipt is returned when a message is marked read.
// swagger:model ReadReceipt
type ReadReceipt struct {
	ID     int64     `json:"id" db:"id"`
	ReadAt time.Time `json:"read_at" db:"read_at"`
}
