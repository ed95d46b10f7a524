package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidUUID is returned for input that is not a UUID.
var ErrInvalidUUID = errors.New("invalid uuid")

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsUUID reports whether s is a UUID in canonical form: lowercase hex in
// 8-4-4-4-12 groups.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// NormalizeUUID accepts a UUID in any common spelling, including upper case
// and without dashes, and returns its canonical form. Input that is already
// canonical is returned as is.
func NormalizeUUID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if IsUUID(s) {
		return s, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", ErrInvalidUUID
	}
	return id.String(), nil
}

// Compact returns a canonical UUID without dashes.
func Compact(id string) string {
	return strings.ReplaceAll(id, "-", "")
}
