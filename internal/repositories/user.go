package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// UserReadRepository reads users.
type UserReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserReadRepository(db *sqlx.DB, txGetter TxGetter) *UserReadRepository {
	return &UserReadRepository{db: db, txGetter: txGetter}
}

// GetByUsername returns the full user row including the password hash.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT username, password_hash, first_name, last_name, phone, joined_at, last_login_at
		FROM users
		WHERE username = $1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, username)

	logQuery(query, []any{username}, user.Username, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "users.GetByUsername", "user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "users.GetByUsername", err)
	}
	return &user, nil
}

// List returns the short profile of every user in storage order.
func (r *UserReadRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	const query = `
		SELECT username, first_name, last_name, phone
		FROM users
	`

	users := []models.UserSummary{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &users, query)

	logQuery(query, nil, len(users), err)

	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "users.List", err)
	}
	return users, nil
}

// UserWriteRepository writes users.
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a new user. The primary key arbitrates concurrent
// registrations of the same username.
func (r *UserWriteRepository) Save(ctx context.Context, user *models.UserDB) (*models.UserProfile, error) {
	const query = `
		INSERT INTO users (username, password_hash, first_name, last_name, phone, joined_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING username, first_name, last_name, phone, joined_at, last_login_at
	`

	var profile models.UserProfile
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &profile, query,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone)

	// password_hash is not logged
	logQuery(query, []any{user.Username, user.FirstName, user.LastName, user.Phone}, profile.Username, err)

	if err != nil {
		if code, _ := pgErrorCode(err); code == pgerrcode.UniqueViolation {
			return nil, &apperr.Error{Kind: apperr.KindConflict, Op: "users.Save", Msg: "username already exists", Err: err}
		}
		return nil, apperr.Wrap(apperr.KindInternal, "users.Save", err)
	}
	return &profile, nil
}

// UpdateLastLogin sets last_login_at to the current time.
func (r *UserWriteRepository) UpdateLastLogin(ctx context.Context, username string) (*models.UserProfile, error) {
	const query = `
		UPDATE users
		SET last_login_at = GREATEST(last_login_at, NOW())
		WHERE username = $1
		RETURNING username, first_name, last_name, phone, joined_at, last_login_at
	`

	var profile models.UserProfile
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &profile, query, username)

	logQuery(query, []any{username}, profile.LastLoginAt, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "users.UpdateLastLogin", "user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "users.UpdateLastLogin", err)
	}
	return &profile, nil
}
