package config

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Status describes the presence shown for the bot user.
type Status struct {
	Name string `toml:"name"`
	// Type is one of playing, streaming, listening, watching, custom or
	// competing. Empty means playing.
	Type string `toml:"type"`
	URL  string `toml:"url"`
}

var activityTypes = map[string]discordgo.ActivityType{
	"":          discordgo.ActivityTypeGame,
	"playing":   discordgo.ActivityTypeGame,
	"streaming": discordgo.ActivityTypeStreaming,
	"listening": discordgo.ActivityTypeListening,
	"watching":  discordgo.ActivityTypeWatching,
	"custom":    discordgo.ActivityTypeCustom,
	"competing": discordgo.ActivityTypeCompeting,
}

func (s Status) activityType() (discordgo.ActivityType, bool) {
	t, ok := activityTypes[strings.ToLower(s.Type)]
	return t, ok
}

// Activity converts the status into a gateway activity.
func (s Status) Activity() *discordgo.Activity {
	t, _ := s.activityType()
	activity := &discordgo.Activity{
		Name: s.Name,
		Type: t,
		URL:  s.URL,
	}
	if t == discordgo.ActivityTypeCustom {
		activity.State = s.Name
	}
	return activity
}
