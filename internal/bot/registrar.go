package bot

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// CommandAPI is the part of the Discord REST API used to install commands.
// *discordgo.Session implements it.
type CommandAPI interface {
	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)

	ApplicationCommandPermissionsBatchEdit(
		appID string,
		guildID string,
		permissions []*discordgo.GuildApplicationCommandPermissions,
		options ...discordgo.RequestOption,
	) error
}

// RegisterCommands replaces the guild's whole command set with commands in
// one call, then restricts every registered command to the admin roles in a
// second call.
func RegisterCommands(
	ctx context.Context,
	api CommandAPI,
	appID string,
	guildID string,
	commands []*discordgo.ApplicationCommand,
	admins []string,
) ([]*discordgo.ApplicationCommand, error) {
	if commands == nil {
		commands = []*discordgo.ApplicationCommand{}
	}

	slog.Info("installing commands", "guild_id", guildID, "count", len(commands))
	registered, err := api.ApplicationCommandBulkOverwrite(
		appID,
		guildID,
		commands,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, &RegistrationError{Stage: "commands", Err: err}
	}

	if len(registered) == 0 {
		return registered, nil
	}

	slog.Info("updating command permissions", "guild_id", guildID, "admin_roles", len(admins))
	permissions := AdminPermissions(appID, guildID, registered, admins)
	if err := api.ApplicationCommandPermissionsBatchEdit(
		appID,
		guildID,
		permissions,
		discordgo.WithContext(ctx),
	); err != nil {
		return nil, &RegistrationError{Stage: "permissions", Err: err}
	}

	return registered, nil
}

// AdminPermissions grants every admin role permission to use each of the
// registered commands, and nothing else.
func AdminPermissions(
	appID string,
	guildID string,
	registered []*discordgo.ApplicationCommand,
	admins []string,
) []*discordgo.GuildApplicationCommandPermissions {
	result := make([]*discordgo.GuildApplicationCommandPermissions, 0, len(registered))
	for _, cmd := range registered {
		perms := make([]*discordgo.ApplicationCommandPermissions, 0, len(admins))
		for _, roleID := range admins {
			perms = append(perms, &discordgo.ApplicationCommandPermissions{
				ID:         roleID,
				Type:       discordgo.ApplicationCommandPermissionTypeRole,
				Permission: true,
			})
		}
		result = append(result, &discordgo.GuildApplicationCommandPermissions{
			ID:            cmd.ID,
			ApplicationID: appID,
			GuildID:       guildID,
			Permissions:   perms,
		})
	}
	return result
}
