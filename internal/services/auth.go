package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong
// password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = apperr.New(apperr.KindAuth, "auth.Login", "invalid username or password")

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

// UserReader defines read-only operations for credentials.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.UserDB) (*models.UserProfile, error)
	UpdateLastLogin(ctx context.Context, username string) (*models.UserProfile, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) (bool, error)
}

// TokenGenerator issues session tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, username string) (string, error)
}

// ProfileWriter overwrites cached profiles.
type ProfileWriter interface {
	Set(ctx context.Context, profile *models.UserProfile) error
}

// AuthService handles registration, credential checks and login.
type AuthService struct {
	reader UserReader
	writer UserWriter
	hasher PasswordHasher
	jwt    TokenGenerator
	cache  ProfileWriter
}

// NewAuthService creates a new AuthService. cache may be nil.
func NewAuthService(reader UserReader, writer UserWriter, hasher PasswordHasher, jwt TokenGenerator, cache ProfileWriter) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		hasher: hasher,
		jwt:    jwt,
		cache:  cache,
	}
}

// CreateUser stores a new user with a hashed password. Names and phone are
// stored without surrounding whitespace. joined_at and last_login_at are both
// set to the creation instant.
func (svc *AuthService) CreateUser(ctx context.Context, u models.NewUser) (*models.UserProfile, error) {
	const op = "auth.CreateUser"
	u = normalizeNewUser(u)
	if err := validateNewUser(op, u); err != nil {
		return nil, err
	}

	hash, err := svc.hasher.Hash(ctx, u.Password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "username", u.Username, "err", err)
		return nil, apperr.Internal(op, err)
	}

	profile, err := svc.writer.Save(ctx, &models.UserDB{
		Username:     u.Username,
		PasswordHash: hash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			logger.Log.Infow("username already exists", "username", u.Username)
		} else {
			logger.Log.Errorw("failed to save user", "username", u.Username, "err", err)
		}
		return nil, apperr.Internal(op, err)
	}

	return profile, nil
}

// Authenticate reports whether password matches the stored hash of username.
// An unknown username costs one bcrypt comparison, like a known one. bcrypt
// only reads the first 72 bytes, so a longer password never matches; it still
// pays a dummy comparison.
func (svc *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	const op = "auth.Authenticate"

	hash := ""
	user, err := svc.reader.GetByUsername(ctx, username)
	switch {
	case err == nil:
		hash = user.PasswordHash
	case errors.Is(err, apperr.ErrNotFound):
	default:
		logger.Log.Errorw("failed to get user", "username", username, "err", err)
		return false, apperr.Internal(op, err)
	}

	tooLong := len(password) > maxPasswordBytes
	if tooLong {
		hash, password = "", password[:maxPasswordBytes]
	}

	ok, err := svc.hasher.Compare(ctx, hash, password)
	if err != nil {
		logger.Log.Errorw("failed to compare password", "username", username, "err", err)
		return false, apperr.Internal(op, err)
	}
	return ok && !tooLong, nil
}

// TouchLogin sets last_login_at of username to now and refreshes the cached
// profile.
func (svc *AuthService) TouchLogin(ctx context.Context, username string) (*models.UserProfile, error) {
	const op = "auth.TouchLogin"

	profile, err := svc.writer.UpdateLastLogin(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to update login timestamp", "username", username, "err", err)
		return nil, apperr.Internal(op, err)
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, profile); err != nil {
			logger.Log.Warnw("failed to refresh cached profile", "username", username, "err", err)
		}
	}
	return profile, nil
}

// Register creates the user and returns a session token for it. No separate
// password check is made.
func (svc *AuthService) Register(ctx context.Context, u models.NewUser) (string, error) {
	profile, err := svc.CreateUser(ctx, u)
	if err != nil {
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, profile.Username)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "username", profile.Username, "err", err)
		return "", apperr.Internal("auth.Register", err)
	}
	return token, nil
}

// Login verifies credentials, records the login and returns a session token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "auth.Login"
	if username == "" || password == "" {
		return "", invalid(op, "username and password are required")
	}

	ok, err := svc.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		logger.Log.Infow("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	if _, err := svc.TouchLogin(ctx, username); err != nil {
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "username", username, "err", err)
		return "", apperr.Internal(op, err)
	}
	return token, nil
}
