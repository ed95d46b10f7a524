package domain

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/config"
)

func TestParseEmote(t *testing.T) {
	cfg := &config.Config{Reactions: map[string]config.Emote{
		"cake": {Emoji: "🍰"},
		"blob": {ID: "555"},
	}}

	tests := []struct {
		name    string
		input   string
		want    config.Emote
		wantErr bool
	}{
		{"configured unicode", "cake", config.Emote{Emoji: "🍰"}, false},
		{"configured custom", "blob", config.Emote{ID: "555"}, false},
		{"chat form", "<:party:123456789012345678>", config.Emote{ID: "123456789012345678"}, false},
		{"animated chat form", "<a:party:123456789012345678>", config.Emote{ID: "123456789012345678"}, false},
		{"raw id", "123456789012345678", config.Emote{ID: "123456789012345678"}, false},
		{"unicode", " 🎉 ", config.Emote{Emoji: "🎉"}, false},
		{"empty", "  ", config.Emote{}, true},
		{"malformed chat form", "<:party:>", config.Emote{}, true},
		{"sentence", "not an emote", config.Emote{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEmote(tt.input, cfg.Reaction)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEmote) {
					t.Fatalf("expected ErrInvalidEmote, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseEmote_WithoutReactions(t *testing.T) {
	got, err := ParseEmote("cake", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (config.Emote{Emoji: "cake"}) {
		t.Errorf("expected the input as a unicode emote, got %+v", got)
	}
}

func TestEmoteKey_DistinguishesKinds(t *testing.T) {
	custom := EmoteKey(config.Emote{ID: "123"})
	unicode := EmoteKey(config.Emote{Emoji: "123"})

	if custom == unicode {
		t.Errorf("expected distinct keys, both were %q", custom)
	}
}

func TestBinding_Matches(t *testing.T) {
	b := Binding{Emote: config.Emote{ID: "555"}, RoleID: "301"}

	if !b.Matches(&discordgo.Emoji{ID: "555", Name: "blob"}) {
		t.Error("expected custom emoji with the same id to match")
	}
	if b.Matches(&discordgo.Emoji{Name: "555"}) {
		t.Error("expected unicode emoji never to match a custom binding")
	}
}

func TestMention(t *testing.T) {
	if got := Mention(config.Emote{Emoji: "🍰"}); got != "🍰" {
		t.Errorf("expected literal, got %q", got)
	}
	if got := Mention(config.Emote{ID: "555"}); got != "<:emote:555>" {
		t.Errorf("expected chat form, got %q", got)
	}
}
