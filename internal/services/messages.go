package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=messages.go -destination=mock_messages.go -package=services

// MessageWriter defines write operations for messages.
type MessageWriter interface {
	Save(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error)
	MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error)
}

// MessageReader defines read operations for messages.
type MessageReader interface {
	GetParticipants(ctx context.Context, id int64) (*models.Participants, error)
	GetByID(ctx context.Context, id int64) (*models.MessageDetail, error)
	ListSentBy(ctx context.Context, username string) ([]models.SentMessage, error)
	ListReceivedBy(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// CommitDeferrer postpones fn until the transaction carried by ctx commits.
type CommitDeferrer func(ctx context.Context, fn func())

// MessageService sends, shows and acknowledges messages on behalf of an
// acting user.
type MessageService struct {
	writer      MessageWriter
	reader      MessageReader
	guard       Guard
	kafkaWriter KafkaWriter
	afterCommit CommitDeferrer
}

// NewMessageService creates a new MessageService. kafkaWriter may be nil.
func NewMessageService(writer MessageWriter, reader MessageReader, kafkaWriter KafkaWriter) *MessageService {
	return &MessageService{
		writer:      writer,
		reader:      reader,
		kafkaWriter: kafkaWriter,
	}
}

// WithCommitDeferrer holds events back until the request transaction
// commits. Without it events are published as soon as the write returns.
func (s *MessageService) WithCommitDeferrer(d CommitDeferrer) *MessageService {
	s.afterCommit = d
	return s
}

// publishEvent publishes a message lifecycle event once the write is durable.
// Failures are logged and never fail the request.
func (s *MessageService) publishEvent(ctx context.Context, evt models.MessageEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "event_id", evt.EventID)
		return
	}
	if s.afterCommit != nil {
		s.afterCommit(ctx, func() { s.writeEvent(ctx, evt) })
		return
	}
	s.writeEvent(ctx, evt)
}

func (s *MessageService) writeEvent(ctx context.Context, evt models.MessageEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Errorw("Failed to marshal message event", "event_id", evt.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.MessageID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish message event", "event_id", evt.EventID, "type", evt.Type, "error", err)
	} else {
		logger.Log.Infow("Message event published", "event_id", evt.EventID, "type", evt.Type, "message_id", evt.MessageID)
	}
}

// Get returns message id if acting is its sender or recipient.
func (s *MessageService) Get(ctx context.Context, id int64, acting string) (*models.MessageDetail, error) {
	const op = "messages.Get"
	if err := validateMessageID(op, id); err != nil {
		return nil, err
	}

	msg, err := s.reader.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	p := &models.Participants{ID: msg.ID, FromUsername: msg.FromUser.Username, ToUsername: msg.ToUser.Username}
	if err := s.guard.IsParticipant(p, acting); err != nil {
		logger.Log.Infow("message access denied", "message_id", id, "acting", acting)
		return nil, err
	}
	return msg, nil
}

// Send stores a new unread message from acting to toUsername.
func (s *MessageService) Send(ctx context.Context, toUsername, body, acting string) (*models.MessageDB, error) {
	const op = "messages.Send"
	if acting == "" {
		return nil, apperr.New(apperr.KindAuth, op, "authentication required")
	}
	if err := validateUsername(op, toUsername); err != nil {
		return nil, err
	}
	if err := validateBody(op, body); err != nil {
		return nil, err
	}
	if toUsername == acting {
		return nil, invalid(op, "cannot send a message to yourself")
	}

	msg, err := s.writer.Save(ctx, acting, toUsername, body)
	if err != nil {
		logger.Log.Errorw("failed to save message", "from", acting, "to", toUsername, "err", err)
		return nil, apperr.Internal(op, err)
	}

	s.publishEvent(ctx, models.MessageEvent{
		EventID:      uuid.NewString(),
		Type:         models.EventMessageSent,
		MessageID:    msg.ID,
		FromUsername: msg.FromUsername,
		ToUsername:   msg.ToUsername,
		Timestamp:    msg.SentAt.Unix(),
	})
	return msg, nil
}

// MarkRead records that the recipient has read message id. Only the
// recipient may do this; repeated calls return the first read_at.
func (s *MessageService) MarkRead(ctx context.Context, id int64, acting string) (*models.ReadReceipt, error) {
	const op = "messages.MarkRead"
	if err := validateMessageID(op, id); err != nil {
		return nil, err
	}

	p, err := s.reader.GetParticipants(ctx, id)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	if err := s.guard.IsRecipient(p, acting); err != nil {
		logger.Log.Infow("mark read denied", "message_id", id, "acting", acting)
		return nil, err
	}

	receipt, err := s.writer.MarkRead(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to mark message read", "message_id", id, "err", err)
		return nil, apperr.Internal(op, err)
	}

	s.publishEvent(ctx, models.MessageEvent{
		EventID:      uuid.NewString(),
		Type:         models.EventMessageRead,
		MessageID:    receipt.ID,
		FromUsername: p.FromUsername,
		ToUsername:   p.ToUsername,
		Timestamp:    receipt.ReadAt.Unix(),
	})
	return receipt, nil
}

// ListSentBy returns the outbox of username. Users may only list their own.
func (s *MessageService) ListSentBy(ctx context.Context, username, acting string) ([]models.SentMessage, error) {
	const op = "messages.ListSentBy"
	if err := s.guard.IsSelf(username, acting); err != nil {
		return nil, err
	}

	msgs, err := s.reader.ListSentBy(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to list sent messages", "username", username, "err", err)
		return nil, apperr.Internal(op, err)
	}
	return msgs, nil
}

// ListReceivedBy returns the inbox of username. Users may only list their own.
func (s *MessageService) ListReceivedBy(ctx context.Context, username, acting string) ([]models.ReceivedMessage, error) {
	const op = "messages.ListReceivedBy"
	if err := s.guard.IsSelf(username, acting); err != nil {
		return nil, err
	}

	msgs, err := s.reader.ListReceivedBy(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to list received messages", "username", username, "err", err)
		return nil, apperr.Internal(op, err)
	}
	return msgs, nil
}
