package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

//go:generate mockgen -source=users.go -destination=mock_users.go -package=handlers

// UserGetter returns a single user profile.
type UserGetter interface {
	Get(ctx context.Context, username string) (*models.UserProfile, error)
}

// UserLister lists all users.
type UserLister interface {
	List(ctx context.Context) ([]models.UserSummary, error)
}

// UsersResponse lists users
// swagger:model UsersResponse
type UsersResponse struct {
	Users []models.UserSummary `json:"users"`
}

// UserResponse wraps a single profile
// swagger:model UserResponse
type UserResponse struct {
	User *models.UserProfile `json:"user"`
}

// NewListUsersHandler returns an HTTP handler listing every user.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} handlers.UsersResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users [get]
// @Security BearerAuth
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, UsersResponse{Users: users})
	}
}

// NewGetUserHandler returns an HTTP handler for a user's public profile.
// @Summary Get user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.UserResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid username"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /users/{username} [get]
// @Security BearerAuth
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Get(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{User: user})
	}
}
