package config

import "github.com/bwmarrin/discordgo"

// Emote refers to either a custom guild emoji by id or a unicode emoji by its
// literal text. Exactly one of the fields is set.
type Emote struct {
	ID    string `toml:"id"`
	Emoji string `toml:"emoji"`
}

// IsCustom reports whether the emote refers to a custom emoji.
func (e Emote) IsCustom() bool {
	return e.ID != ""
}

// Matches reports whether a reaction emoji is this emote. Custom emotes are
// compared by id and unicode emotes by name; an id never matches a name.
func (e Emote) Matches(emoji *discordgo.Emoji) bool {
	if emoji == nil {
		return false
	}
	if e.IsCustom() {
		return emoji.ID == e.ID
	}
	return e.Emoji != "" && emoji.ID == "" && emoji.Name == e.Emoji
}
