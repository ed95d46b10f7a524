package bot

import (
	"errors"
	"maps"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/store"
)

// Meta is the shared context handed to every module hook and interaction.
// It is built once the configured guild is available and not modified
// afterwards; the session and store are mutated only through their own APIs.
type Meta struct {
	Session  *discordgo.Session
	Store    *store.Store
	Guild    *discordgo.Guild
	Channels map[string]*discordgo.Channel
	Config   *config.Config
}

// Channel returns the channel configured under name.
func (m Meta) Channel(name string) (*discordgo.Channel, bool) {
	ch, ok := m.Channels[name]
	return ch, ok
}

// ResolveGuild finds the configured guild in state and maps every configured
// channel name to its channel in that guild.
func ResolveGuild(
	state *discordgo.State,
	guildID string,
	channelIDs map[string]string,
) (*discordgo.Guild, map[string]*discordgo.Channel, error) {
	guild, err := state.Guild(guildID)
	if err != nil {
		if errors.Is(err, discordgo.ErrStateNotFound) {
			return nil, nil, &ResolutionError{Kind: "guild", ID: guildID}
		}
		return nil, nil, err
	}
	if guild.Unavailable {
		return nil, nil, &ResolutionError{Kind: "guild", ID: guildID}
	}

	byID := make(map[string]*discordgo.Channel, len(guild.Channels))
	for _, ch := range guild.Channels {
		byID[ch.ID] = ch
	}

	channels := make(map[string]*discordgo.Channel, len(channelIDs))
	for _, name := range slices.Sorted(maps.Keys(channelIDs)) {
		id := channelIDs[name]
		ch, ok := byID[id]
		if !ok {
			return nil, nil, &ResolutionError{Kind: "channel", Name: name, ID: id}
		}
		channels[name] = ch
	}

	return guild, channels, nil
}
