package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("bidding: place bid: %w", Validation("Bid must be higher than %s", "100").With("current_highest", "100.00"))

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("validation error must not match conflict")
	}
	if got := Fields(err)["current_highest"]; got != "100.00" {
		t.Fatalf("expected current_highest field, got %v", got)
	}
	e, ok := As(err)
	if !ok {
		t.Fatalf("expected classified error in chain")
	}
	if e.Message != "Bid must be higher than 100" {
		t.Fatalf("unexpected message %q", e.Message)
	}
}

func TestIsClassified(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", Validation("x"), true},
		{"not found", NotFound("x"), true},
		{"conflict", Conflict("x"), true},
		{"forbidden", Forbidden("x"), true},
		{"internal", errors.New("db: connection reset"), false},
		{"nil fields", fmt.Errorf("wrapped: %w", errors.New("boom")), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsClassified(tc.err); got != tc.want {
				t.Fatalf("IsClassified(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
	if Fields(errors.New("plain")) != nil {
		t.Fatalf("expected nil fields for unclassified error")
	}
}
