package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

//go:generate mockgen -source=users.go -destination=mock_users.go -package=services

// UserLister lists users.
type UserLister interface {
	List(ctx context.Context) ([]models.UserSummary, error)
}

// ProfileCache is a read-through cache of public profiles. Add must not
// replace an existing entry.
type ProfileCache interface {
	Get(ctx context.Context, username string) (*models.UserProfile, error)
	Add(ctx context.Context, profile *models.UserProfile) error
}

// UserService answers read-only queries over user profiles.
type UserService struct {
	reader UserReader
	lister UserLister
	cache  ProfileCache
}

// NewUserService creates a new UserService. cache may be nil.
func NewUserService(reader UserReader, lister UserLister, cache ProfileCache) *UserService {
	return &UserService{
		reader: reader,
		lister: lister,
		cache:  cache,
	}
}

// Get returns the public profile of username. Cache failures fall back to
// storage.
func (svc *UserService) Get(ctx context.Context, username string) (*models.UserProfile, error) {
	const op = "users.Get"
	if err := validateUsername(op, username); err != nil {
		return nil, err
	}

	if svc.cache != nil {
		profile, err := svc.cache.Get(ctx, username)
		if err == nil {
			return profile, nil
		}
		logger.Log.Debugw("profile cache lookup failed", "username", username, "err", err)
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Log.Errorw("failed to get user", "username", username, "err", err)
		}
		return nil, apperr.Internal(op, err)
	}

	profile := user.Profile()
	if svc.cache != nil {
		if err := svc.cache.Add(ctx, profile); err != nil {
			logger.Log.Warnw("failed to cache profile", "username", username, "err", err)
		}
	}
	return profile, nil
}

// List returns every user's short profile.
func (svc *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	users, err := svc.lister.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, apperr.Internal("users.List", err)
	}
	return users, nil
}
