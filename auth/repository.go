package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"refind/apperr"
	"refind/db"
)

var (
	// ErrUserNotFound signals that the user does not exist.
	ErrUserNotFound = apperr.NotFound("User not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = apperr.Conflict("Email is already registered")
)

// Repository handles data access for marketplace accounts.
type Repository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID string) (User, error)
}

// CreateUserParams contains write parameters for creating users. PasswordHash
// must already be hashed.
type CreateUserParams struct {
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	q db.Querier
}

// NewRepository creates a PostgreSQL-backed auth repository over a pool or transaction.
func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{q: q}
}

const userColumns = `id::text, email, full_name, password_hash, role::text, is_admin, created_at, updated_at`

// CreateUser inserts a new user. Admin rights follow the role.
func (r *PGRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	query := `
		INSERT INTO users (email, full_name, password_hash, role, is_admin)
		VALUES (lower($1), $2, $3, $4::user_role, $4 = 'admin')
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, params.Email, params.FullName, params.PasswordHash, string(params.Role)))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail looks a user up by email, ignoring case.
func (r *PGRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return r.getBy(ctx, `email = lower($1)`, email)
}

// GetUserByID looks a user up by primary key.
func (r *PGRepository) GetUserByID(ctx context.Context, userID string) (User, error) {
	if !db.IsUUID(userID) {
		return User{}, ErrUserNotFound
	}
	return r.getBy(ctx, `id = $1`, userID)
}

func (r *PGRepository) getBy(ctx context.Context, where string, arg string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	user, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("auth: get user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		user User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&role,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	user.Role = Role(role)
	return user, nil
}
