// Package ping answers /ping with the gateway latency and replies to 🏓.
package ping

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/bot"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/modules/ping/presentation"
)

// Name is the registered module name.
const Name = "ping"

func init() {
	bot.RegisterCore(Name, New)
}

// Compile-time interface check.
var _ bot.Module = (*PingModule)(nil)

// PingModule provides the /ping command and the 🏓 responder.
type PingModule struct {
	pingHandler  *presentation.PingHandler
	pongHandler  *presentation.PongHandler
	removeHandle func()
}

// New creates the module. It has no settings.
func New(config.FeatureSettings) (bot.Module, error) {
	return &PingModule{
		pongHandler: presentation.NewPongHandler(),
	}, nil
}

// Name returns the module name.
func (m *PingModule) Name() string {
	return Name
}

// Commands returns the slash commands for this module.
func (m *PingModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        presentation.CommandName,
			Description: "Replies with Pong!",
		},
	}
}

// Hook installs the 🏓 responder on the session.
func (m *PingModule) Hook(_ context.Context, meta bot.Meta) error {
	var latency func() time.Duration
	if meta.Session != nil {
		latency = meta.Session.HeartbeatLatency
		m.removeHandle = meta.Session.AddHandler(m.pongHandler.HandleMessage)
	}
	m.pingHandler = presentation.NewPingHandler(latency)
	return nil
}

// HandleInteraction answers /ping.
func (m *PingModule) HandleInteraction(ctx context.Context, inv *bot.Invocation) (bot.Result, error) {
	if m.pingHandler == nil {
		return bot.Pass, nil
	}
	return m.pingHandler.Handle(ctx, inv)
}

// Shutdown removes the 🏓 responder.
func (m *PingModule) Shutdown() error {
	if m.removeHandle != nil {
		m.removeHandle()
	}
	return nil
}
