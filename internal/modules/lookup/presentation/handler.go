package presentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/bot"
	"github.com/sglre6355/cakebot/internal/modules/lookup/domain"
)

// CommandName is the slash command answered by LookupHandler.
const CommandName = "lookup"

// ProfileLookup finds the profile of a canonical UUID.
type ProfileLookup interface {
	Lookup(ctx context.Context, id string) (domain.Profile, error)
}

// Commands returns the slash commands handled by LookupHandler.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandName,
			Description: "Look up the profile name of a UUID",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "uuid",
					Description: "Profile UUID",
					Required:    true,
				},
			},
		},
	}
}

// LookupHandler handles the /lookup command.
type LookupHandler struct {
	profiles ProfileLookup
	timeout  time.Duration
}

// NewLookupHandler creates a new LookupHandler. A positive timeout bounds
// each lookup.
func NewLookupHandler(profiles ProfileLookup, timeout time.Duration) *LookupHandler {
	return &LookupHandler{
		profiles: profiles,
		timeout:  timeout,
	}
}

// Handle answers /lookup and passes on every other interaction.
func (h *LookupHandler) Handle(ctx context.Context, inv *bot.Invocation) (bot.Result, error) {
	if inv.Event.Type != discordgo.InteractionApplicationCommand ||
		inv.Event.ApplicationCommandData().Name != CommandName {
		return bot.Pass, nil
	}

	input, _ := inv.Options.String("uuid")
	id, err := domain.NormalizeUUID(input)
	if err != nil {
		return reply(inv.Responder, fmt.Sprintf("%q is not a UUID.", input), true)
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	profile, err := h.profiles.Lookup(ctx, id)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		return reply(inv.Responder, fmt.Sprintf("No profile found for `%s`.", id), true)
	case err != nil:
		slog.Warn("failed to look up profile", "uuid", id, "error", err)
		return reply(inv.Responder, "The profile service did not answer. Try again later.", true)
	}

	return reply(inv.Responder, fmt.Sprintf("`%s` is **%s**.", profile.ID, profile.Name), false)
}

func reply(r bot.Responder, content string, ephemeral bool) (bot.Result, error) {
	if err := bot.Reply(r, content, ephemeral); err != nil {
		return bot.Pass, err
	}
	return bot.Handled, nil
}
