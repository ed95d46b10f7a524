// Package config loads the bot's structured configuration file and its
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the configuration file read when CONFIG_PATH is unset.
const DefaultPath = "config.toml"

// Config is the parsed configuration file. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Discord   DiscordConfig             `toml:"discord"`
	Channels  map[string]string         `toml:"channels"`
	Roles     map[string]RoleGroup      `toml:"roles"`
	Reactions map[string]Emote          `toml:"reactions"`
	Features  map[string]toml.Primitive `toml:"features"`
	Data      DataConfig                `toml:"data"`

	meta toml.MetaData
}

// DiscordConfig identifies the application and the guild it serves.
type DiscordConfig struct {
	ClientID string  `toml:"client_id"`
	GuildID  string  `toml:"guild_id"`
	Status   *Status `toml:"status"`
}

// DataConfig locates the persistent store.
type DataConfig struct {
	DBFile string `toml:"db_file"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	cfg.meta = md

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Admins returns the role ids allowed to invoke the bot's commands.
func (c *Config) Admins() RoleGroup {
	group, _ := c.Role(adminsRole)
	return group
}

// Role returns the ids of a named role group.
func (c *Config) Role(name string) (RoleGroup, bool) {
	group, ok := c.Roles[name]
	return group, ok
}

// Reaction returns the emote configured under name.
func (c *Config) Reaction(name string) (Emote, bool) {
	emote, ok := c.Reactions[name]
	return emote, ok
}

// Feature returns the settings table of a feature. Features without a table
// get settings that decode to nothing.
func (c *Config) Feature(name string) FeatureSettings {
	prim, ok := c.Features[name]
	return FeatureSettings{
		name:    name,
		prim:    prim,
		meta:    c.meta,
		defined: ok,
	}
}

// FeatureSettings is the undecoded `[features.<name>]` table of one feature.
type FeatureSettings struct {
	name    string
	prim    toml.Primitive
	meta    toml.MetaData
	defined bool
}

// Defined reports whether the configuration has a table for the feature.
func (s FeatureSettings) Defined() bool {
	return s.defined
}

// Decode decodes the settings into v. Fields of v absent from the table keep
// their current values, so callers can pre-populate defaults.
func (s FeatureSettings) Decode(v any) error {
	if !s.defined {
		return nil
	}
	if err := s.meta.PrimitiveDecode(s.prim, v); err != nil {
		return fmt.Errorf("decoding settings for feature %s: %w", s.name, err)
	}
	return nil
}
