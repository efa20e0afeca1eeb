package auth

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller || r == RoleAdmin
}

// User mirrors the users table. It carries no JSON annotations; the
// password hash must never reach a presentation layer.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID  string
	Role    Role
	IsAdmin bool
}

type RegisterRequest struct {
	Email    string
	Password string
	FullName string
	Role     Role
}

type LoginRequest struct {
	Email    string
	Password string
}
