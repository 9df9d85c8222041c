package jwt

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sbilibin2017/gw-messenger/internal/apperr"
)

// Claims is the signed payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// JWT issues and verifies HS256 session tokens.
// Fields are set once by New and never mutated afterwards.
type JWT struct {
	secretKey []byte
	exp       time.Duration // zero or negative disables the exp claim
	now       func() time.Time
}

// Opt configures a JWT.
type Opt func(*JWT)

// WithSecretKey sets the shared signing secret.
func WithSecretKey(key string) Opt {
	return func(j *JWT) {
		j.secretKey = []byte(key)
	}
}

// WithExpiration sets the token lifetime. A lifetime <= 0 issues tokens
// without an exp claim.
func WithExpiration(d time.Duration) Opt {
	return func(j *JWT) {
		j.exp = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Opt {
	return func(j *JWT) {
		j.now = now
	}
}

// New creates a JWT instance.
func New(opts ...Opt) *JWT {
	j := &JWT{now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Generate creates a signed token for username.
func (j *JWT) Generate(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", apperr.New(apperr.KindValidation, "jwt.Generate", "username is required")
	}

	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username: username,
	}
	if j.exp > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.exp))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", apperr.Internal("jwt.Generate", err)
	}
	return signed, nil
}

// GetClaims parses and verifies tokenString.
func (j *JWT) GetClaims(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindAuth, Op: "jwt.GetClaims", Msg: "invalid token", Err: err}
	}
	if !token.Valid {
		return nil, apperr.New(apperr.KindAuth, "jwt.GetClaims", "invalid token")
	}
	if claims.Username == "" {
		return nil, apperr.New(apperr.KindAuth, "jwt.GetClaims", "username not found in token")
	}
	return claims, nil
}

// Validate reports whether tokenString is a valid session token.
func (j *JWT) Validate(ctx context.Context, tokenString string) error {
	_, err := j.GetClaims(ctx, tokenString)
	return err
}

// GetUsername returns the acting username bound to tokenString.
func (j *JWT) GetUsername(ctx context.Context, tokenString string) (string, error) {
	claims, err := j.GetClaims(ctx, tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// GetTokenFromRequest extracts the bearer token from the Authorization header.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperr.New(apperr.KindAuth, "jwt.GetTokenFromRequest", "authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperr.New(apperr.KindAuth, "jwt.GetTokenFromRequest", "invalid authorization header format")
	}

	return parts[1], nil
}
