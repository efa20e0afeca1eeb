package db

import "github.com/google/uuid"

// IsUUID reports whether s is a hyphenated UUID. Any other string bound to a
// uuid column fails to encode instead of matching no row.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
