package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/config"
)

// Result is a handler's answer to an interaction.
type Result int

const (
	// Pass means the handler has no opinion on the interaction.
	Pass Result = iota
	// Declined means the handler looked at the interaction and it is not
	// meant for it.
	Declined
	// Handled means the handler consumed the interaction. Dispatch stops.
	Handled
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "pass"
	case Declined:
		return "declined"
	case Handled:
		return "handled"
	default:
		return "unknown"
	}
}

// Invocation is what a module receives for one interaction.
type Invocation struct {
	Meta
	Options   Options
	Event     *discordgo.InteractionCreate
	Responder Responder
}

// HandlerFunc processes an interaction.
type HandlerFunc func(ctx context.Context, inv *Invocation) (Result, error)

// Module defines the interface that all bot modules must implement. Embed
// BaseModule to get no-op implementations of the optional capabilities.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Commands returns the slash commands that this module provides.
	Commands() []*discordgo.ApplicationCommand

	// HandleInteraction is offered every interaction until one module
	// returns Handled.
	HandleInteraction(ctx context.Context, inv *Invocation) (Result, error)

	// Hook runs once at startup, after the guild has been resolved and
	// before commands are registered.
	Hook(ctx context.Context, meta Meta) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ModuleFactory builds a module from its `[features.<name>]` settings.
type ModuleFactory func(settings config.FeatureSettings) (Module, error)

// BaseModule implements every optional Module capability as a no-op.
type BaseModule struct{}

// Commands returns no commands.
func (BaseModule) Commands() []*discordgo.ApplicationCommand { return nil }

// HandleInteraction passes on every interaction.
func (BaseModule) HandleInteraction(context.Context, *Invocation) (Result, error) {
	return Pass, nil
}

// Hook does nothing.
func (BaseModule) Hook(context.Context, Meta) error { return nil }

// Shutdown does nothing.
func (BaseModule) Shutdown() error { return nil }
