package reactionroles

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/bot"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/store"
)

const testConfigTOML = `
[discord]
client_id = "100000000000000001"
guild_id = "100"

[channels]
roles = "201"

[roles]
admins = ["301"]

[reactions.cake]
emoji = "🍰"

[data]
db_file = "bot.db"
`

func loadTestConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(testConfigTOML+extra), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func testMeta(t *testing.T, cfg *config.Config) bot.Meta {
	t.Helper()
	return bot.Meta{
		Session:  &discordgo.Session{},
		Store:    store.New(filepath.Join(t.TempDir(), "bot.db")),
		Guild:    &discordgo.Guild{ID: "100"},
		Channels: map[string]*discordgo.Channel{"roles": {ID: "201"}},
		Config:   cfg,
	}
}

func TestReactionRolesModule_Registered(t *testing.T) {
	regs := bot.GlobalRegistry().Registrations(bot.TierFeature)

	if !slices.ContainsFunc(regs, func(r bot.Registration) bool { return r.Name == Name }) {
		t.Fatalf("expected %q to be registered as a feature module", Name)
	}
}

func TestReactionRolesModule_DecodesSettings(t *testing.T) {
	cfg := loadTestConfig(t, "\n[features.reactionroles]\nchannel = \"roles\"\n")

	mod, err := New(cfg.Feature(Name))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mod.(*ReactionRolesModule).settings.Channel; got != "roles" {
		t.Errorf("expected channel %q, got %q", "roles", got)
	}
}

func TestReactionRolesModule_HookRejectsUnknownChannel(t *testing.T) {
	cfg := loadTestConfig(t, "\n[features.reactionroles]\nchannel = \"missing\"\n")
	mod, _ := New(cfg.Feature(Name))

	if err := mod.Hook(context.Background(), testMeta(t, cfg)); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func hookedModule(t *testing.T) (bot.Module, bot.Meta) {
	t.Helper()
	cfg := loadTestConfig(t, "")
	mod, err := New(cfg.Feature(Name))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meta := testMeta(t, cfg)
	if err := mod.Hook(context.Background(), meta); err != nil {
		t.Fatalf("unexpected hook error: %v", err)
	}
	t.Cleanup(func() { mod.Shutdown() })
	return mod, meta
}

func bind(t *testing.T, mod bot.Module, meta bot.Meta, emote, roleID string) *bot.MockResponder {
	t.Helper()
	event := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "reactionrole",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name: "bind",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "emote", Type: discordgo.ApplicationCommandOptionString, Value: emote},
					{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: roleID},
				},
			}},
		},
	}}

	responder := &bot.MockResponder{}
	result, err := mod.HandleInteraction(context.Background(), &bot.Invocation{
		Meta:      meta,
		Options:   bot.OptionsFrom(event),
		Event:     event,
		Responder: responder,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != bot.Handled {
		t.Fatalf("expected handled, got %v", result)
	}
	return responder
}

func TestReactionRolesModule_BindThroughConfiguredReaction(t *testing.T) {
	mod, meta := hookedModule(t)

	bind(t, mod, meta, "cake", "401")

	docs := meta.Store.Collection("reaction_roles", store.CollectionOptions{}).Find(nil)
	if len(docs) != 1 || docs[0]["emoji"] != "🍰" || docs[0]["role_id"] != "401" {
		t.Errorf("expected the binding to be stored, got %v", docs)
	}
}

func TestReactionRolesModule_RefusesAdminRoles(t *testing.T) {
	mod, meta := hookedModule(t)

	r := bind(t, mod, meta, "cake", "301")

	if r.LastResponse == nil || len(r.LastResponse.Data.Embeds) != 1 ||
		r.LastResponse.Data.Embeds[0].Title != "Error" {
		t.Errorf("expected an error reply, got %+v", r.LastResponse)
	}
	if docs := meta.Store.Collection("reaction_roles", store.CollectionOptions{}).Find(nil); len(docs) != 0 {
		t.Errorf("expected no binding for an admin role, got %v", docs)
	}
}
