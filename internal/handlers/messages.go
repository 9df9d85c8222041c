package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

//go:generate mockgen -source=messages.go -destination=mock_messages.go -package=handlers

// MessageGetter shows a single message to one of its participants.
type MessageGetter interface {
	Get(ctx context.Context, id int64, acting string) (*models.MessageDetail, error)
}

// MessageSender sends a message on behalf of the acting user.
type MessageSender interface {
	Send(ctx context.Context, toUsername, body, acting string) (*models.MessageDB, error)
}

// MessageMarker acknowledges a message.
type MessageMarker interface {
	MarkRead(ctx context.Context, id int64, acting string) (*models.ReadReceipt, error)
}

// InboxLister lists messages received by a user.
type InboxLister interface {
	ListReceivedBy(ctx context.Context, username, acting string) ([]models.ReceivedMessage, error)
}

// OutboxLister lists messages sent by a user.
type OutboxLister interface {
	ListSentBy(ctx context.Context, username, acting string) ([]models.SentMessage, error)
}

// SendMessageRequest is the JSON body for sending a message
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	// Recipient username
	// required: true
	// default: bob
	ToUsername string `json:"to_username"`

	// Message text
	// required: true
	// default: hi
	Body string `json:"body"`
}

// CreatedMessage is the view of a message right after it is stored.
// swagger:model CreatedMessage
type CreatedMessage struct {
	ID           int64     `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// CreatedMessageResponse wraps a CreatedMessage
// swagger:model CreatedMessageResponse
type CreatedMessageResponse struct {
	Message CreatedMessage `json:"message"`
}

// MessageResponse wraps a message with both participants
// swagger:model MessageResponse
type MessageResponse struct {
	Message *models.MessageDetail `json:"message"`
}

// ReadReceiptResponse wraps a read receipt
// swagger:model ReadReceiptResponse
type ReadReceiptResponse struct {
	Message *models.ReadReceipt `json:"message"`
}

// ReceivedMessagesResponse lists an inbox
// swagger:model ReceivedMessagesResponse
type ReceivedMessagesResponse struct {
	Messages []models.ReceivedMessage `json:"messages"`
}

// SentMessagesResponse lists an outbox
// swagger:model SentMessagesResponse
type SentMessagesResponse struct {
	Messages []models.SentMessage `json:"messages"`
}

func messageID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// NewGetMessageHandler returns an HTTP handler showing a message to its sender or recipient.
// @Summary Get message
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} handlers.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid message id"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Not a participant"
// @Failure 404 {object} handlers.ErrorResponse "Message not found"
// @Router /messages/{id} [get]
// @Security BearerAuth
func NewGetMessageHandler(svc MessageGetter, actingUser func(ctx context.Context) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := messageID(r)
		if !ok {
			badRequest(w, "message id must be a positive integer")
			return
		}

		msg, err := svc.Get(r.Context(), id, actingUser(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
	}
}

// NewSendMessageHandler returns an HTTP handler that sends a message from the acting user.
// @Summary Send message
// @Tags messages
// @Accept json
// @Produce json
// @Param sendMessageRequest body handlers.SendMessageRequest true "Message"
// @Success 201 {object} handlers.CreatedMessageResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Recipient not found"
// @Router /messages [post]
// @Security BearerAuth
func NewSendMessageHandler(svc MessageSender, actingUser func(ctx context.Context) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}

		msg, err := svc.Send(r.Context(), req.ToUsername, req.Body, actingUser(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreatedMessageResponse{Message: CreatedMessage{
			ID:           msg.ID,
			FromUsername: msg.FromUsername,
			ToUsername:   msg.ToUsername,
			Body:         msg.Body,
			SentAt:       msg.SentAt,
		}})
	}
}

// NewMarkReadHandler returns an HTTP handler that lets the recipient acknowledge a message.
// @Summary Mark message read
// @Description Idempotent; repeated calls return the first read time.
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} handlers.ReadReceiptResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid message id"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Not the recipient"
// @Failure 404 {object} handlers.ErrorResponse "Message not found"
// @Router /messages/{id}/read [post]
// @Security BearerAuth
func NewMarkReadHandler(svc MessageMarker, actingUser func(ctx context.Context) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := messageID(r)
		if !ok {
			badRequest(w, "message id must be a positive integer")
			return
		}

		receipt, err := svc.MarkRead(r.Context(), id, actingUser(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ReadReceiptResponse{Message: receipt})
	}
}

// NewListMessagesToHandler returns an HTTP handler for a user's inbox.
// @Summary Messages received by a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.ReceivedMessagesResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Not your inbox"
// @Router /users/{username}/to [get]
// @Security BearerAuth
func NewListMessagesToHandler(svc InboxLister, actingUser func(ctx context.Context) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs, err := svc.ListReceivedBy(r.Context(), chi.URLParam(r, "username"), actingUser(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ReceivedMessagesResponse{Messages: msgs})
	}
}

// NewListMessagesFromHandler returns an HTTP handler for a user's outbox.
// @Summary Messages sent by a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.SentMessagesResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Not your outbox"
// @Router /users/{username}/from [get]
// @Security BearerAuth
func NewListMessagesFromHandler(svc OutboxLister, actingUser func(ctx context.Context) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs, err := svc.ListSentBy(r.Context(), chi.URLParam(r, "username"), actingUser(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, SentMessagesResponse{Messages: msgs})
	}
}
