package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrProfileNotFound is returned when no profile exists for a UUID.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is the public profile of a UUID.
type Profile struct {
	ID   string
	Name string
}

// ParseProfile reads the profile name from the JSON object body under
// nameField.
func ParseProfile(id, body, nameField string) (Profile, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return Profile{}, fmt.Errorf("decoding profile: %w", err)
	}

	name, ok := fields[nameField].(string)
	if !ok || name == "" {
		return Profile{}, fmt.Errorf("profile has no %q field", nameField)
	}
	return Profile{ID: id, Name: name}, nil
}
