package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// Foreign key constraint names generated by Postgres for the messages table.
const (
	messagesFromFKey = "messages_from_username_fkey"
	messagesToFKey   = "messages_to_username_fkey"
)

// MessageWriteRepository writes messages.
type MessageWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewMessageWriteRepository(db *sqlx.DB, txGetter TxGetter) *MessageWriteRepository {
	return &MessageWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts an unread message. Both usernames must reference existing
// users.
func (r *MessageWriteRepository) Save(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error) {
	const query = `
		INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, from_username, to_username, body, sent_at, read_at
	`

	var msg models.MessageDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &msg, query, fromUsername, toUsername, body)

	logQuery(query, []any{fromUsername, toUsername}, msg.ID, err)

	if err != nil {
		code, constraint := pgErrorCode(err)
		if code == pgerrcode.ForeignKeyViolation {
			switch constraint {
			case messagesToFKey:
				return nil, &apperr.Error{Kind: apperr.KindNotFound, Op: "messages.Save", Msg: "recipient not found", Err: err}
			case messagesFromFKey:
				return nil, &apperr.Error{Kind: apperr.KindNotFound, Op: "messages.Save", Msg: "sender not found", Err: err}
			}
			return nil, &apperr.Error{Kind: apperr.KindNotFound, Op: "messages.Save", Msg: "user not found", Err: err}
		}
		return nil, apperr.Wrap(apperr.KindInternal, "messages.Save", err)
	}
	return &msg, nil
}

// MarkRead stamps read_at if it is still NULL and returns the stored value.
// Repeated calls return the timestamp of the first one.
func (r *MessageWriteRepository) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	const query = `
		UPDATE messages
		SET read_at = COALESCE(read_at, NOW())
		WHERE id = $1
		RETURNING id, read_at
	`

	var receipt models.ReadReceipt
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &receipt, query, id)

	logQuery(query, []any{id}, receipt.ReadAt, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "messages.MarkRead", "message not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "messages.MarkRead", err)
	}
	return &receipt, nil
}

// MessageReadRepository reads messages.
type MessageReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewMessageReadRepository(db *sqlx.DB, txGetter TxGetter) *MessageReadRepository {
	return &MessageReadRepository{db: db, txGetter: txGetter}
}

// GetParticipants returns the sender and recipient of message id.
func (r *MessageReadRepository) GetParticipants(ctx context.Context, id int64) (*models.Participants, error) {
	const query = `
		SELECT id, from_username, to_username
		FROM messages
		WHERE id = $1
	`

	var p models.Participants
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &p, query, id)

	logQuery(query, []any{id}, p, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "messages.GetParticipants", "message not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "messages.GetParticipants", err)
	}
	return &p, nil
}

type messageDetailRow struct {
	ID            int64      `db:"id"`
	Body          string     `db:"body"`
	SentAt        time.Time  `db:"sent_at"`
	ReadAt        *time.Time `db:"read_at"`
	FromUsername  string     `db:"from_username"`
	FromFirstName string     `db:"from_first_name"`
	FromLastName  string     `db:"from_last_name"`
	FromPhone     string     `db:"from_phone"`
	ToUsername    string     `db:"to_username"`
	ToFirstName   string     `db:"to_first_name"`
	ToLastName    string     `db:"to_last_name"`
	ToPhone       string     `db:"to_phone"`
}

// GetByID returns message id with both participants' profiles.
func (r *MessageReadRepository) GetByID(ctx context.Context, id int64) (*models.MessageDetail, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username AS from_username, f.first_name AS from_first_name,
		       f.last_name AS from_last_name, f.phone AS from_phone,
		       t.username AS to_username, t.first_name AS to_first_name,
		       t.last_name AS to_last_name, t.phone AS to_phone
		FROM messages AS m
		JOIN users AS f ON m.from_username = f.username
		JOIN users AS t ON m.to_username = t.username
		WHERE m.id = $1
	`

	var row messageDetailRow
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &row, query, id)

	logQuery(query, []any{id}, row.ID, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "messages.GetByID", "message not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "messages.GetByID", err)
	}

	return &models.MessageDetail{
		ID:     row.ID,
		Body:   row.Body,
		SentAt: row.SentAt,
		ReadAt: row.ReadAt,
		FromUser: models.UserSummary{
			Username:  row.FromUsername,
			FirstName: row.FromFirstName,
			LastName:  row.FromLastName,
			Phone:     row.FromPhone,
		},
		ToUser: models.UserSummary{
			Username:  row.ToUsername,
			FirstName: row.ToFirstName,
			LastName:  row.ToLastName,
			Phone:     row.ToPhone,
		},
	}, nil
}

// counterpartRow is a message joined with the other participant.
type counterpartRow struct {
	ID        int64      `db:"id"`
	Body      string     `db:"body"`
	SentAt    time.Time  `db:"sent_at"`
	ReadAt    *time.Time `db:"read_at"`
	Username  string     `db:"username"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Phone     string     `db:"phone"`
}

func (c counterpartRow) user() models.UserSummary {
	return models.UserSummary{
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
	}
}

// ListSentBy returns messages sent by username with the recipient expanded.
func (r *MessageReadRepository) ListSentBy(ctx context.Context, username string) ([]models.SentMessage, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at, u.username, u.first_name, u.last_name, u.phone
		FROM messages AS m
		JOIN users AS u ON m.to_username = u.username
		WHERE m.from_username = $1
		ORDER BY m.id
	`

	var rows []counterpartRow
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &rows, query, username)

	logQuery(query, []any{username}, len(rows), err)

	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "messages.ListSentBy", err)
	}

	msgs := make([]models.SentMessage, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, models.SentMessage{
			ID:     row.ID,
			Body:   row.Body,
			SentAt: row.SentAt,
			ReadAt: row.ReadAt,
			ToUser: row.user(),
		})
	}
	return msgs, nil
}

// ListReceivedBy returns messages sent to username with the sender expanded.
func (r *MessageReadRepository) ListReceivedBy(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at, u.username, u.first_name, u.last_name, u.phone
		FROM messages AS m
		JOIN users AS u ON m.from_username = u.username
		WHERE m.to_username = $1
		ORDER BY m.id
	`

	var rows []counterpartRow
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &rows, query, username)

	logQuery(query, []any{username}, len(rows), err)

	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "messages.ListReceivedBy", err)
	}

	msgs := make([]models.ReceivedMessage, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, models.ReceivedMessage{
			ID:       row.ID,
			Body:     row.Body,
			SentAt:   row.SentAt,
			ReadAt:   row.ReadAt,
			FromUser: row.user(),
		})
	}
	return msgs, nil
}
