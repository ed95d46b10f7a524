package presentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/bot"
	"github.com/sglre6355/cakebot/internal/modules/ping/domain"
)

// CommandName is the slash command answered by PingHandler.
const CommandName = "ping"

// PingHandler handles the /ping command.
type PingHandler struct {
	latency func() time.Duration
}

// NewPingHandler creates a new PingHandler reporting the latency returned by
// latency.
func NewPingHandler(latency func() time.Duration) *PingHandler {
	return &PingHandler{latency: latency}
}

// Handle answers /ping and passes on every other interaction.
func (h *PingHandler) Handle(_ context.Context, inv *bot.Invocation) (bot.Result, error) {
	if inv.Event.Type != discordgo.InteractionApplicationCommand ||
		inv.Event.ApplicationCommandData().Name != CommandName {
		return bot.Pass, nil
	}

	var latency time.Duration
	if h.latency != nil {
		latency = h.latency()
	}
	result := domain.NewPingResult(latency)

	if err := bot.Reply(inv.Responder, result.Message(), false); err != nil {
		return bot.Pass, err
	}
	return bot.Handled, nil
}

// MessageSender sends plain messages to a channel.
// *discordgo.Session implements it.
type MessageSender interface {
	ChannelMessageSend(
		channelID string,
		content string,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// PongHandler handles messages containing the 🏓 emoji.
type PongHandler struct{}

// NewPongHandler creates a new PongHandler.
func NewPongHandler() *PongHandler {
	return &PongHandler{}
}

// HandleMessage is the discordgo event handler for MessageCreate events.
func (h *PongHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	var selfID string
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	h.Respond(s, selfID, m)
}

// Respond answers m through sender unless it was written by selfID or does
// not contain the trigger.
func (h *PongHandler) Respond(sender MessageSender, selfID string, m *discordgo.MessageCreate) {
	// Ignore messages from the bot itself
	if m.Author == nil || m.Author.ID == selfID {
		return
	}

	result := domain.NewPongResult(m.Content)
	if !result.ShouldRespond {
		return
	}
	if _, err := sender.ChannelMessageSend(m.ChannelID, result.Response); err != nil {
		slog.Error("failed to send message", "channel_id", m.ChannelID, "error", err)
	}
}
