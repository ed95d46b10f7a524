package config

import (
	"errors"
	"maps"
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// Validate checks that the required sections exist and that every id is a
// well-formed snowflake. All problems are reported, joined.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(field, message string) {
		errs = append(errs, &ValidationError{Field: field, Message: message})
	}
	checkID := func(field, id string) {
		if id == "" {
			invalid(field, "is required")
			return
		}
		if _, err := snowflake.Parse(id); err != nil {
			invalid(field, "is not a valid snowflake")
		}
	}

	checkID("discord.client_id", c.Discord.ClientID)
	checkID("discord.guild_id", c.Discord.GuildID)

	if status := c.Discord.Status; status != nil {
		if status.Name == "" {
			invalid("discord.status.name", "is required")
		}
		if _, ok := status.activityType(); !ok {
			invalid("discord.status.type", "unknown activity type "+status.Type)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(c.Channels)) {
		checkID("channels."+name, c.Channels[name])
	}

	if _, ok := c.Roles[adminsRole]; !ok {
		invalid("roles.admins", "is required")
	}
	for _, name := range slices.Sorted(maps.Keys(c.Roles)) {
		for _, id := range c.Roles[name] {
			checkID("roles."+name, id)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(c.Reactions)) {
		emote := c.Reactions[name]
		field := "reactions." + name
		switch {
		case emote.ID != "" && emote.Emoji != "":
			invalid(field, "must set only one of id and emoji")
		case emote.ID != "":
			checkID(field+".id", emote.ID)
		case emote.Emoji == "":
			invalid(field, "must set id or emoji")
		}
	}

	if c.Data.DBFile == "" {
		invalid("data.db_file", "is required")
	}

	return errors.Join(errs...)
}
