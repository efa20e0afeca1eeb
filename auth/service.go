package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"refind/apperr"
)

var (
	// ErrInvalidCredentials covers an unknown email and a wrong password alike.
	ErrInvalidCredentials = errors.New("auth: email or password does not match")
	// ErrInvalidToken signals a token that is malformed, expired or forged.
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrWeakPassword = apperr.Validation("Password must be at least 8 characters")
)

const (
	defaultTokenTTL   = 24 * time.Hour
	minPasswordLength = 8
)

type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// LoginResult is a session: the bearer token and the account it belongs to.
type LoginResult struct {
	Token string
	User  User
}

func NewService(repo Repository, secret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(secret),
		tokenTTL:  defaultTokenTTL,
		now:       time.Now,
	}
}

func (s *Service) WithTokenTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates a buyer or seller account. Admins are provisioned out of band.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.FullName)
	if email == "" || name == "" {
		return User{}, apperr.Validation("Email and full name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, apperr.Validation("Email is not valid").With("email", email)
	}
	if len(req.Password) < minPasswordLength {
		return User{}, ErrWeakPassword
	}

	role := req.Role
	if role == "" {
		role = RoleBuyer
	}
	if role != RoleBuyer && role != RoleSeller {
		return User{}, apperr.Validation("Role must be buyer or seller").With("role", string(role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	return s.repo.CreateUser(ctx, CreateUserParams{
		Email:        email,
		FullName:     name,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// Login authenticates a user and returns a signed token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	switch {
	case errors.Is(err, ErrUserNotFound):
		return LoginResult{}, ErrInvalidCredentials
	case err != nil:
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return LoginResult{Token: token, User: user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, userID string) (User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// VerifyToken accepts only unexpired HS256 tokens signed with this service's
// secret whose role is one the marketplace knows.
func (s *Service) VerifyToken(tokenString string) (Claims, error) {
	keyFunc := func(*jwt.Token) (any, error) { return s.jwtSecret, nil }
	token, err := jwt.Parse(tokenString, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	userID, ok := mc["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	roleStr, _ := mc["role"].(string)
	role := Role(roleStr)
	if !role.Valid() {
		return Claims{}, fmt.Errorf("%w: role %q", ErrInvalidToken, roleStr)
	}
	isAdmin, _ := mc["is_admin"].(bool)

	return Claims{UserID: userID, Role: role, IsAdmin: isAdmin || role == RoleAdmin}, nil
}

func (s *Service) generateToken(user User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"role":     string(user.Role),
		"is_admin": user.IsAdmin || user.Role == RoleAdmin,
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
