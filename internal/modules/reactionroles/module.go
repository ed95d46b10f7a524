// Package reactionroles grants roles to members reacting with bound emotes.
package reactionroles

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/bot"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/modules/reactionroles/domain"
	"github.com/sglre6355/cakebot/internal/modules/reactionroles/infrastructure"
	"github.com/sglre6355/cakebot/internal/modules/reactionroles/presentation"
)

// Name is the registered module name.
const Name = "reactionroles"

func init() {
	bot.Register(Name, New)
}

// Compile-time interface check.
var _ bot.Module = (*ReactionRolesModule)(nil)

// Settings is the `[features.reactionroles]` table.
type Settings struct {
	// Channel is the configured channel name whose reactions count. Empty
	// means every channel of the guild.
	Channel string `toml:"channel"`
}

// ReactionRolesModule provides /reactionrole and the reaction handlers.
type ReactionRolesModule struct {
	settings        Settings
	commandHandler  *presentation.CommandHandler
	reactionHandler *presentation.ReactionHandler
	removeHandlers  []func()
}

// New creates the module from its settings.
func New(settings config.FeatureSettings) (bot.Module, error) {
	m := &ReactionRolesModule{}
	if err := settings.Decode(&m.settings); err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the module name.
func (m *ReactionRolesModule) Name() string {
	return Name
}

// Commands returns the slash commands for this module.
func (m *ReactionRolesModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// Hook opens the bindings collection and installs the reaction handlers.
func (m *ReactionRolesModule) Hook(_ context.Context, meta bot.Meta) error {
	if meta.Store == nil || meta.Guild == nil {
		return errors.New("reaction roles need the store and the guild")
	}

	var channelID string
	if m.settings.Channel != "" {
		ch, ok := meta.Channel(m.settings.Channel)
		if !ok {
			return fmt.Errorf("channel %q is not configured", m.settings.Channel)
		}
		channelID = ch.ID
	}

	repo := infrastructure.NewStoreRepository(meta.Store)

	var (
		reactions domain.ReactionLookup
		protected config.RoleGroup
	)
	if meta.Config != nil {
		reactions = meta.Config.Reaction
		protected = meta.Config.Admins()
	}
	m.commandHandler = presentation.NewCommandHandler(repo, reactions, protected)
	m.reactionHandler = presentation.NewReactionHandler(repo, meta.Guild.ID, channelID)

	if meta.Session != nil {
		m.removeHandlers = append(m.removeHandlers,
			meta.Session.AddHandler(m.reactionHandler.HandleAdd),
			meta.Session.AddHandler(m.reactionHandler.HandleRemove),
		)
	}
	return nil
}

// HandleInteraction answers /reactionrole.
func (m *ReactionRolesModule) HandleInteraction(ctx context.Context, inv *bot.Invocation) (bot.Result, error) {
	if m.commandHandler == nil {
		return bot.Pass, nil
	}
	return m.commandHandler.Handle(ctx, inv)
}

// Shutdown removes the reaction handlers.
func (m *ReactionRolesModule) Shutdown() error {
	for _, remove := range m.removeHandlers {
		remove()
	}
	m.removeHandlers = nil
	return nil
}
