package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
)

const validConfig = `
[discord]
client_id = "100000000000000001"
guild_id = "100000000000000002"

[discord.status]
name = "the oven"
type = "watching"

[channels]
general = "200000000000000001"
log = "200000000000000002"

[roles]
admins = ["300000000000000001", "300000000000000002"]
member = "300000000000000003"

[reactions]
accept = { id = "400000000000000001" }
cake = { emoji = "🍰" }

[features.lookup]
url = "https://example.com/%s"
retries = 3

[data]
db_file = "data/cake.db"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Discord.ClientID != "100000000000000001" {
		t.Errorf("Discord.ClientID = %q", cfg.Discord.ClientID)
	}
	if cfg.Discord.GuildID != "100000000000000002" {
		t.Errorf("Discord.GuildID = %q", cfg.Discord.GuildID)
	}
	if cfg.Discord.Status == nil || cfg.Discord.Status.Name != "the oven" ||
		cfg.Discord.Status.Type != "watching" {
		t.Errorf("Discord.Status = %+v", cfg.Discord.Status)
	}

	if len(cfg.Channels) != 2 || cfg.Channels["general"] != "200000000000000001" ||
		cfg.Channels["log"] != "200000000000000002" {
		t.Errorf("Channels = %v", cfg.Channels)
	}

	admins := cfg.Admins()
	if len(admins) != 2 || admins[0] != "300000000000000001" || admins[1] != "300000000000000002" {
		t.Errorf("Admins() = %v", admins)
	}
	member, ok := cfg.Role("member")
	if !ok || len(member) != 1 || member[0] != "300000000000000003" {
		t.Errorf("Role(member) = %v, %v", member, ok)
	}

	if accept, _ := cfg.Reaction("accept"); accept != (Emote{ID: "400000000000000001"}) {
		t.Errorf("Reaction(accept) = %+v", accept)
	}
	if cake, _ := cfg.Reaction("cake"); cake != (Emote{Emoji: "🍰"}) {
		t.Errorf("Reaction(cake) = %+v", cake)
	}

	if cfg.Data.DBFile != "data/cake.db" {
		t.Errorf("Data.DBFile = %q", cfg.Data.DBFile)
	}
}

func TestLoad_FeatureSettings(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var settings struct {
		URL     string `toml:"url"`
		Retries int    `toml:"retries"`
		Missing string `toml:"missing"`
	}
	settings.Missing = "default"

	lookup := cfg.Feature("lookup")
	if !lookup.Defined() {
		t.Fatal("expected lookup settings to be defined")
	}
	if err := lookup.Decode(&settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.URL != "https://example.com/%s" {
		t.Errorf("URL = %q", settings.URL)
	}
	if settings.Retries != 3 {
		t.Errorf("Retries = %d", settings.Retries)
	}
	if settings.Missing != "default" {
		t.Errorf("expected default to be kept, got %q", settings.Missing)
	}
}

func TestLoad_UndefinedFeatureDecodesNothing(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settings := struct{ Name string }{Name: "kept"}
	undefined := cfg.Feature("absent")
	if undefined.Defined() {
		t.Error("expected absent feature to be undefined")
	}
	if err := undefined.Decode(&settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Name != "kept" {
		t.Errorf("expected settings untouched, got %q", settings.Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	var missing *MissingFileError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFileError, got %v", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[discord\nclient_id = "))

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestLoad_WrongRoleType(t *testing.T) {
	_, err := Load(writeConfig(t, `
[roles]
admins = 5
`))

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	_, err := Load(writeConfig(t, `
[discord]
client_id = "not-a-snowflake"

[discord.status]
name = "x"
type = "dancing"

[channels]
general = ""

[roles]
mods = ["1"]

[reactions]
both = { id = "1", emoji = "x" }
neither = {}
`))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	fields := map[string]bool{}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		t.Fatalf("expected joined errors, got %v", err)
	}
	for _, e := range joined.Unwrap() {
		var v *ValidationError
		if errors.As(e, &v) {
			fields[v.Field] = true
		}
	}

	for _, field := range []string{
		"discord.client_id",
		"discord.guild_id",
		"discord.status.type",
		"channels.general",
		"roles.admins",
		"reactions.both",
		"reactions.neither",
		"data.db_file",
	} {
		if !fields[field] {
			t.Errorf("expected validation error for %s, got %v", field, err)
		}
	}
}

func TestEmote_Matches(t *testing.T) {
	custom := Emote{ID: "123"}
	unicode := Emote{Emoji: "🍰"}

	tests := []struct {
		name  string
		emote Emote
		emoji *discordgo.Emoji
		want  bool
	}{
		{"custom by id", custom, &discordgo.Emoji{ID: "123", Name: "cake"}, true},
		{"custom other id", custom, &discordgo.Emoji{ID: "456", Name: "cake"}, false},
		{"custom never matches name", custom, &discordgo.Emoji{Name: "123"}, false},
		{"unicode by name", unicode, &discordgo.Emoji{Name: "🍰"}, true},
		{"unicode other name", unicode, &discordgo.Emoji{Name: "🎂"}, false},
		{"unicode never matches id", Emote{Emoji: "123"}, &discordgo.Emoji{ID: "123"}, false},
		{"nil emoji", custom, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.emote.Matches(tt.emoji); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Activity(t *testing.T) {
	activity := Status{Name: "the oven", Type: "Watching"}.Activity()
	if activity.Type != discordgo.ActivityTypeWatching {
		t.Errorf("expected watching, got %v", activity.Type)
	}
	if activity.Name != "the oven" {
		t.Errorf("expected name, got %q", activity.Name)
	}

	custom := Status{Name: "baking", Type: "custom"}.Activity()
	if custom.State != "baking" {
		t.Errorf("expected custom status state, got %q", custom.State)
	}
}

func TestRoleGroup_Contains(t *testing.T) {
	group := RoleGroup{"1", "2"}
	if !group.Contains("2") {
		t.Error("expected group to contain 2")
	}
	if group.Contains("3") {
		t.Error("expected group not to contain 3")
	}
}
