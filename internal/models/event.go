package models

// Message event types published to Kafka.
const (
	EventMessageSent = "message.sent"
	EventMessageRead = "message.read"
)

// MessageEvent describes a message lifecycle transition. The body is not
// included.
type MessageEvent struct {
	EventID      string `json:"event_id"`      // Unique event identifier
	Type         string `json:"type"`          // message.sent or message.read
	MessageID    int64  `json:"message_id"`    // Message the event refers to
	FromUsername string `json:"from_username"` // Sender
	ToUsername   string `json:"to_username"`   // Recipient
	Timestamp    int64  `json:"timestamp"`     // Unix seconds of the transition
}
