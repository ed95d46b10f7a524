package config

import "fmt"

const adminsRole = "admins"

// RoleGroup is a list of role ids. In the file it may be written either as a
// single id or as an array of ids.
type RoleGroup []string

// UnmarshalTOML implements toml.Unmarshaler.
func (g *RoleGroup) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		*g = RoleGroup{v}
	case []any:
		ids := make(RoleGroup, 0, len(v))
		for _, item := range v {
			id, ok := item.(string)
			if !ok {
				return fmt.Errorf("role id must be a string, got %T", item)
			}
			ids = append(ids, id)
		}
		*g = ids
	default:
		return fmt.Errorf("role group must be a string or an array of strings, got %T", data)
	}
	return nil
}

// Contains reports whether id is part of the group.
func (g RoleGroup) Contains(id string) bool {
	for _, roleID := range g {
		if roleID == id {
			return true
		}
	}
	return false
}
