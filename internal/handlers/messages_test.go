package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	sentAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	readAt = time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)
)

func TestGetMessageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockMessageGetter(ctrl)

	tests := []struct {
		name         string
		id           string
		acting       string
		mockSetup    func()
		expectedCode int
		expectedBody string
	}{
		{
			name:   "success",
			id:     "3",
			acting: "bob",
			mockSetup: func() {
				mockSvc.EXPECT().Get(gomock.Any(), int64(3), "bob").Return(&models.MessageDetail{
					ID:       3,
					Body:     "hi",
					SentAt:   sentAt,
					FromUser: models.UserSummary{Username: "alice", FirstName: "A", LastName: "L", Phone: "1"},
					ToUser:   models.UserSummary{Username: "bob", FirstName: "B", LastName: "M", Phone: "2"},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"message":{"id":3,"body":"hi","sent_at":"2024-05-01T12:00:00Z","read_at":null,
				"from_user":{"username":"alice","first_name":"A","last_name":"L","phone":"1"},
				"to_user":{"username":"bob","first_name":"B","last_name":"M","phone":"2"}}}`,
		},
		{
			name:         "non numeric id",
			id:           "abc",
			acting:       "bob",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"message id must be a positive integer"}`,
		},
		{
			name:   "third party",
			id:     "3",
			acting: "carol",
			mockSetup: func() {
				mockSvc.EXPECT().Get(gomock.Any(), int64(3), "carol").
					Return(nil, apperr.New(apperr.KindForbidden, "guard.IsParticipant", "only the sender or the recipient may view this message"))
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"error":"only the sender or the recipient may view this message"}`,
		},
		{
			name:   "not found",
			id:     "99",
			acting: "bob",
			mockSetup: func() {
				mockSvc.EXPECT().Get(gomock.Any(), int64(99), "bob").
					Return(nil, apperr.New(apperr.KindNotFound, "messages.GetByID", "message not found"))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"message not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/messages/"+tt.id, nil), "id", tt.id)
			rr := httptest.NewRecorder()
			NewGetMessageHandler(mockSvc, actingAs(tt.acting)).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestSendMessageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockMessageSender(ctrl)

	tests := []struct {
		name         string
		body         string
		mockSetup    func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "success",
			body: `{"to_username":"bob","body":"hi"}`,
			mockSetup: func() {
				mockSvc.EXPECT().Send(gomock.Any(), "bob", "hi", "alice").Return(&models.MessageDB{
					ID:           1,
					FromUsername: "alice",
					ToUsername:   "bob",
					Body:         "hi",
					SentAt:       sentAt,
				}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"message":{"id":1,"from_username":"alice","to_username":"bob","body":"hi","sent_at":"2024-05-01T12:00:00Z"}}`,
		},
		{
			name:         "invalid JSON",
			body:         `{"to_username":`,
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid request body"}`,
		},
		{
			name: "unknown recipient",
			body: `{"to_username":"ghost","body":"hi"}`,
			mockSetup: func() {
				mockSvc.EXPECT().Send(gomock.Any(), "ghost", "hi", "alice").
					Return(nil, apperr.Internal("messages.Send", apperr.New(apperr.KindNotFound, "messages.Save", "recipient not found")))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"recipient not found"}`,
		},
		{
			name: "internal error",
			body: `{"to_username":"bob","body":"hi"}`,
			mockSetup: func() {
				mockSvc.EXPECT().Send(gomock.Any(), "bob", "hi", "alice").Return(nil, errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			NewSendMessageHandler(mockSvc, actingAs("alice")).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestMarkReadHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockMessageMarker(ctrl)

	tests := []struct {
		name         string
		id           string
		acting       string
		mockSetup    func()
		expectedCode int
		expectedBody string
	}{
		{
			name:   "recipient",
			id:     "5",
			acting: "bob",
			mockSetup: func() {
				mockSvc.EXPECT().MarkRead(gomock.Any(), int64(5), "bob").Return(&models.ReadReceipt{ID: 5, ReadAt: readAt}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"message":{"id":5,"read_at":"2024-05-01T13:00:00Z"}}`,
		},
		{
			name:   "sender",
			id:     "5",
			acting: "alice",
			mockSetup: func() {
				mockSvc.EXPECT().MarkRead(gomock.Any(), int64(5), "alice").
					Return(nil, apperr.New(apperr.KindForbidden, "guard.IsRecipient", "only the recipient may mark this message as read"))
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"error":"only the recipient may mark this message as read"}`,
		},
		{
			name:         "zero id",
			id:           "0",
			acting:       "bob",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"message id must be a positive integer"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := withURLParams(httptest.NewRequest(http.MethodPost, "/messages/"+tt.id+"/read", nil), "id", tt.id)
			rr := httptest.NewRecorder()
			NewMarkReadHandler(mockSvc, actingAs(tt.acting)).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestListMessagesToHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockInboxLister(ctrl)

	t.Run("own inbox", func(t *testing.T) {
		mockSvc.EXPECT().ListReceivedBy(gomock.Any(), "bob", "bob").Return([]models.ReceivedMessage{{
			ID:       1,
			Body:     "hi",
			SentAt:   sentAt,
			ReadAt:   &readAt,
			FromUser: models.UserSummary{Username: "alice"},
		}}, nil)

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/users/bob/to", nil), "username", "bob")
		rr := httptest.NewRecorder()
		NewListMessagesToHandler(mockSvc, actingAs("bob")).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"messages":[{"id":1,"body":"hi","sent_at":"2024-05-01T12:00:00Z","read_at":"2024-05-01T13:00:00Z",
			"from_user":{"username":"alice","first_name":"","last_name":"","phone":""}}]}`, rr.Body.String())
	})

	t.Run("someone else's inbox", func(t *testing.T) {
		mockSvc.EXPECT().ListReceivedBy(gomock.Any(), "bob", "alice").
			Return(nil, apperr.New(apperr.KindForbidden, "guard.IsSelf", "users may only list their own messages"))

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/users/bob/to", nil), "username", "bob")
		rr := httptest.NewRecorder()
		NewListMessagesToHandler(mockSvc, actingAs("alice")).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestListMessagesFromHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockOutboxLister(ctrl)

	t.Run("own outbox", func(t *testing.T) {
		mockSvc.EXPECT().ListSentBy(gomock.Any(), "alice", "alice").Return([]models.SentMessage{}, nil)

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/users/alice/from", nil), "username", "alice")
		rr := httptest.NewRecorder()
		NewListMessagesFromHandler(mockSvc, actingAs("alice")).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"messages":[]}`, rr.Body.String())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		mockSvc.EXPECT().ListSentBy(gomock.Any(), "alice", "").
			Return(nil, apperr.New(apperr.KindAuth, "guard.IsSelf", "authentication required"))

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/users/alice/from", nil), "username", "alice")
		rr := httptest.NewRecorder()
		NewListMessagesFromHandler(mockSvc, actingAs("")).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, rr.Body.String())
	})
}
