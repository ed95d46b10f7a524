package presentation

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/modules/reactionroles/domain"
)

// RoleEditor grants and revokes member roles.
// *discordgo.Session implements it.
type RoleEditor interface {
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// ReactionHandler grants the bound role when a member reacts with a bound
// emote and revokes it when the reaction is removed.
type ReactionHandler struct {
	repo      domain.BindingRepository
	guildID   string
	channelID string
}

// NewReactionHandler creates a ReactionHandler for reactions in guildID. A
// non-empty channelID restricts it to that channel.
func NewReactionHandler(repo domain.BindingRepository, guildID, channelID string) *ReactionHandler {
	return &ReactionHandler{
		repo:      repo,
		guildID:   guildID,
		channelID: channelID,
	}
}

// HandleAdd is the discordgo event handler for MessageReactionAdd events.
func (h *ReactionHandler) HandleAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	h.Apply(s, selfID(s), r.MessageReaction, true)
}

// HandleRemove is the discordgo event handler for MessageReactionRemove
// events.
func (h *ReactionHandler) HandleRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	h.Apply(s, selfID(s), r.MessageReaction, false)
}

// Apply grants or revokes the role bound to the reaction's emote. It reports
// whether a role change was requested.
func (h *ReactionHandler) Apply(editor RoleEditor, selfID string, r *discordgo.MessageReaction, add bool) bool {
	if r == nil || r.UserID == "" || r.UserID == selfID || r.GuildID != h.guildID {
		return false
	}
	if h.channelID != "" && r.ChannelID != h.channelID {
		return false
	}

	b, ok := h.repo.Match(&r.Emoji)
	if !ok {
		return false
	}

	var err error
	if add {
		err = editor.GuildMemberRoleAdd(r.GuildID, r.UserID, b.RoleID)
	} else {
		err = editor.GuildMemberRoleRemove(r.GuildID, r.UserID, b.RoleID)
	}
	if err != nil {
		slog.Error("failed to update member role",
			"guild_id", r.GuildID,
			"user_id", r.UserID,
			"role_id", b.RoleID,
			"add", add,
			"error", err,
		)
		return false
	}

	slog.Debug("updated member role",
		"user_id", r.UserID,
		"role_id", b.RoleID,
		"add", add,
	)
	return true
}

func selfID(s *discordgo.Session) string {
	if s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}
