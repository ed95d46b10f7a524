package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/bot"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/modules/reactionroles/domain"
)

// CommandName is the slash command answered by CommandHandler.
const CommandName = "reactionrole"

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// Commands returns the slash commands handled by CommandHandler.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandName,
			Description: "Manage roles granted by reactions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "bind",
					Description: "Grant a role to members reacting with an emote",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "emote",
							Description: "Emoji, custom emote or configured reaction name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to grant",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unbind",
					Description: "Stop granting a role for an emote",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "emote",
							Description: "Emoji, custom emote or configured reaction name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the reaction roles",
				},
			},
		},
	}
}

// CommandHandler handles the /reactionrole command.
type CommandHandler struct {
	repo      domain.BindingRepository
	reactions domain.ReactionLookup
	protected config.RoleGroup
}

// NewCommandHandler creates a new CommandHandler. Emotes may be given by a
// name reactions knows. Roles in protected cannot be bound.
func NewCommandHandler(
	repo domain.BindingRepository,
	reactions domain.ReactionLookup,
	protected config.RoleGroup,
) *CommandHandler {
	return &CommandHandler{
		repo:      repo,
		reactions: reactions,
		protected: protected,
	}
}

// Handle answers /reactionrole and passes on every other interaction.
func (h *CommandHandler) Handle(_ context.Context, inv *bot.Invocation) (bot.Result, error) {
	if inv.Event.Type != discordgo.InteractionApplicationCommand ||
		inv.Event.ApplicationCommandData().Name != CommandName {
		return bot.Pass, nil
	}

	var err error
	switch {
	case inv.Options.Has("bind"):
		err = h.handleBind(inv)
	case inv.Options.Has("unbind"):
		err = h.handleUnbind(inv)
	case inv.Options.Has("list"):
		err = h.handleList(inv)
	default:
		return bot.Declined, nil
	}
	if err != nil {
		return bot.Pass, err
	}
	return bot.Handled, nil
}

func (h *CommandHandler) handleBind(inv *bot.Invocation) error {
	input, _ := inv.Options.String("emote")
	roleID, _ := inv.Options.String("role")

	emote, err := domain.ParseEmote(input, h.reactions)
	if err != nil {
		return respondError(inv.Responder, fmt.Sprintf("%q is not an emote.", input))
	}
	if h.protected.Contains(roleID) {
		return respondError(inv.Responder, fmt.Sprintf("<@&%s> cannot be granted by reactions.", roleID))
	}

	b, err := h.repo.Bind(domain.Binding{Emote: emote, RoleID: roleID})
	if errors.Is(err, domain.ErrAlreadyBound) {
		return respondError(inv.Responder, fmt.Sprintf("%s already grants a role.", domain.Mention(emote)))
	}
	if err != nil {
		return err
	}

	return respondSuccess(inv.Responder, fmt.Sprintf("%s now grants <@&%s>.", domain.Mention(b.Emote), b.RoleID))
}

func (h *CommandHandler) handleUnbind(inv *bot.Invocation) error {
	input, _ := inv.Options.String("emote")

	emote, err := domain.ParseEmote(input, h.reactions)
	if err != nil {
		return respondError(inv.Responder, fmt.Sprintf("%q is not an emote.", input))
	}

	b, err := h.repo.Unbind(domain.EmoteKey(emote))
	if errors.Is(err, domain.ErrNotBound) {
		return respondError(inv.Responder, fmt.Sprintf("%s grants no role.", domain.Mention(emote)))
	}
	if err != nil {
		return err
	}

	return respondSuccess(inv.Responder, fmt.Sprintf("%s no longer grants <@&%s>.", domain.Mention(b.Emote), b.RoleID))
}

func (h *CommandHandler) handleList(inv *bot.Invocation) error {
	bindings := h.repo.List()
	if len(bindings) == 0 {
		return respondSuccess(inv.Responder, "No reaction roles are set up.")
	}

	lines := make([]string, len(bindings))
	for i, b := range bindings {
		lines[i] = fmt.Sprintf("%s → <@&%s>", domain.Mention(b.Emote), b.RoleID)
	}
	return respondSuccess(inv.Responder, strings.Join(lines, "\n"))
}

func respondSuccess(r bot.Responder, message string) error {
	return respond(r, "", message, colorSuccess)
}

func respondError(r bot.Responder, message string) error {
	return respond(r, "Error", message, colorError)
}

func respond(r bot.Responder, title, message string, color int) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       title,
					Description: message,
					Color:       color,
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}
