// Package lookup resolves profile UUIDs to names through an HTTP profile
// service.
package lookup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/bot"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/modules/lookup/infrastructure"
	"github.com/sglre6355/cakebot/internal/modules/lookup/presentation"
)

// Name is the registered module name.
const Name = "lookup"

// Defaults used when `[features.lookup]` leaves a setting out.
const (
	DefaultURL       = "https://sessionserver.mojang.com/session/minecraft/profile/" + infrastructure.PlaceholderCompact
	DefaultNameField = "name"
	DefaultTimeout   = 2 * time.Second
)

func init() {
	bot.Register(Name, New)
}

// Compile-time interface check.
var _ bot.Module = (*LookupModule)(nil)

// Settings is the `[features.lookup]` table.
type Settings struct {
	URL       string        `toml:"url"`
	NameField string        `toml:"name_field"`
	Timeout   time.Duration `toml:"timeout"`
}

// LookupModule provides the /lookup command.
type LookupModule struct {
	bot.BaseModule

	handler *presentation.LookupHandler
}

// New creates the module from its settings.
func New(settings config.FeatureSettings) (bot.Module, error) {
	s := Settings{
		URL:       DefaultURL,
		NameField: DefaultNameField,
		Timeout:   DefaultTimeout,
	}
	if err := settings.Decode(&s); err != nil {
		return nil, err
	}
	if !strings.Contains(s.URL, infrastructure.PlaceholderUUID) &&
		!strings.Contains(s.URL, infrastructure.PlaceholderCompact) {
		return nil, errors.New("lookup url has no uuid placeholder")
	}

	client := infrastructure.NewProfileClient(nil, s.URL, s.NameField)
	return &LookupModule{
		handler: presentation.NewLookupHandler(client, s.Timeout),
	}, nil
}

// Name returns the module name.
func (m *LookupModule) Name() string {
	return Name
}

// Commands returns the slash commands for this module.
func (m *LookupModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// HandleInteraction answers /lookup.
func (m *LookupModule) HandleInteraction(ctx context.Context, inv *bot.Invocation) (bot.Result, error) {
	return m.handler.Handle(ctx, inv)
}
