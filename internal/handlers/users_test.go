package handlers

import (
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

func TestListUsersHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserLister(ctrl)

	tests := []struct {
		name         string
		mockSetup    func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "success",
			mockSetup: func() {
				mockSvc.EXPECT().List(gomock.Any()).Return([]models.UserSummary{
					{Username: "alice", FirstName: "Alice", LastName: "L", Phone: "1"},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"users":[{"username":"alice","first_name":"Alice","last_name":"L","phone":"1"}]}`,
		},
		{
			name: "empty",
			mockSetup: func() {
				mockSvc.EXPECT().List(gomock.Any()).Return([]models.UserSummary{}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"users":[]}`,
		},
		{
			name: "internal error",
			mockSetup: func() {
				mockSvc.EXPECT().List(gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			rr := httptest.NewRecorder()
			NewListUsersHandler(mockSvc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestGetUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserGetter(ctrl)
	joined := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name         string
		username     string
		mockSetup    func()
		expectedCode int
		expectedBody string
	}{
		{
			name:     "success",
			username: "alice",
			mockSetup: func() {
				mockSvc.EXPECT().Get(gomock.Any(), "alice").Return(&models.UserProfile{
					Username:    "alice",
					FirstName:   "Alice",
					LastName:    "L",
					Phone:       "1",
					JoinedAt:    joined,
					LastLoginAt: joined,
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"user":{"username":"alice","first_name":"Alice","last_name":"L","phone":"1",
				"joined_at":"2024-01-02T03:04:05Z","last_login_at":"2024-01-02T03:04:05Z"}}`,
		},
		{
			name:     "not found",
			username: "ghost",
			mockSetup: func() {
				mockSvc.EXPECT().Get(gomock.Any(), "ghost").
					Return(nil, apperr.New(apperr.KindNotFound, "users.GetByUsername", "user not found"))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"user not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/users/"+tt.username, nil), "username", tt.username)
			rr := httptest.NewRecorder()
			NewGetUserHandler(mockSvc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}
