package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/cakebot/internal/config"
)

var (
	// ErrAlreadyBound is returned when an emote already grants a role.
	ErrAlreadyBound = errors.New("emote is already bound")
	// ErrNotBound is returned when an emote grants no role.
	ErrNotBound = errors.New("emote is not bound")
	// ErrInvalidEmote is returned for input that names no emote.
	ErrInvalidEmote = errors.New("invalid emote")
)

// customEmotePattern matches the chat form of a custom emoji, <:name:id> or
// <a:name:id> when animated.
var customEmotePattern = regexp.MustCompile(`^<a?:\w+:(\d+)>$`)

// Binding grants RoleID to members reacting with Emote.
type Binding struct {
	ID     int64
	Emote  config.Emote
	RoleID string
}

// Key identifies the emote of the binding. Custom and unicode emotes never
// share a key.
func (b Binding) Key() string {
	return EmoteKey(b.Emote)
}

// Matches reports whether a reaction emoji triggers the binding.
func (b Binding) Matches(emoji *discordgo.Emoji) bool {
	return b.Emote.Matches(emoji)
}

// EmoteKey returns the unique key of an emote.
func EmoteKey(e config.Emote) string {
	if e.IsCustom() {
		return "id:" + e.ID
	}
	return "emoji:" + e.Emoji
}

// Mention returns the emote in the form it is written in chat.
func Mention(e config.Emote) string {
	if e.IsCustom() {
		return fmt.Sprintf("<:emote:%s>", e.ID)
	}
	return e.Emoji
}

// ReactionLookup resolves the name of a configured reaction.
type ReactionLookup func(name string) (config.Emote, bool)

// ParseEmote reads an emote typed by a user. The input is a name known to
// reactions, a custom emoji in chat form, a custom emoji id or a unicode
// emoji. reactions may be nil.
func ParseEmote(input string, reactions ReactionLookup) (config.Emote, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return config.Emote{}, ErrInvalidEmote
	}

	if reactions != nil {
		if e, ok := reactions(input); ok {
			return e, nil
		}
	}

	if m := customEmotePattern.FindStringSubmatch(input); m != nil {
		input = m[1]
	}
	if id, err := snowflake.Parse(input); err == nil {
		return config.Emote{ID: id.String()}, nil
	}

	if strings.ContainsAny(input, " <>:") {
		return config.Emote{}, fmt.Errorf("%w: %q", ErrInvalidEmote, input)
	}
	return config.Emote{Emoji: input}, nil
}
