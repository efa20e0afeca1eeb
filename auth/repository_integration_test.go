package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"refind/db/dbtest"
)

func TestPGRepository_Integration(t *testing.T) {
	pool := dbtest.Open(t)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc := NewService(NewRepository(pool), "integration-secret")

	user, err := svc.Register(ctx, RegisterRequest{Email: "Seller@Example.com", Password: "strongpassword", FullName: "Sam", Role: RoleSeller})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != RoleSeller || user.IsAdmin {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := svc.Register(ctx, RegisterRequest{Email: "seller@example.com", Password: "strongpassword", FullName: "Sam"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	res, err := svc.Login(ctx, LoginRequest{Email: "SELLER@example.com", Password: "strongpassword"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.ID != user.ID {
		t.Fatalf("login returned %s, want %s", res.User.ID, user.ID)
	}

	if _, err := svc.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
