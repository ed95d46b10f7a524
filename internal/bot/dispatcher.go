package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Outcome describes how an interaction was dispatched.
type Outcome struct {
	// Result is Handled if a handler consumed the interaction, Declined if
	// at least one handler declined it and none handled it, Pass otherwise.
	Result Result
	// Handler is the module that handled the interaction, if any.
	Handler string
	// Errors counts handlers that failed or panicked.
	Errors int
}

// Dispatcher offers interactions to handlers in order until one of them
// returns Handled.
type Dispatcher struct {
	meta     Meta
	handlers []NamedHandler
	timeout  time.Duration
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher. A positive timeout bounds the context
// passed to each handler invocation.
func NewDispatcher(meta Meta, handlers []NamedHandler, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		meta:     meta,
		handlers: handlers,
		timeout:  timeout,
		logger:   slog.Default().With("component", "dispatcher"),
	}
}

// Dispatch runs the handlers for one interaction. Handler errors and panics
// are logged and count as not handled; nothing is returned to the gateway.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	event *discordgo.InteractionCreate,
	responder Responder,
) Outcome {
	inv := &Invocation{
		Meta:      d.meta,
		Options:   OptionsFrom(event),
		Event:     event,
		Responder: responder,
	}

	outcome := Outcome{Result: Pass}
	for _, h := range d.handlers {
		result, err := d.invoke(ctx, h, inv)
		if err != nil {
			outcome.Errors++
			d.logger.Error("failed to handle interaction",
				"module", h.Module,
				"interaction", interactionName(event),
				"error", err,
			)
			continue
		}

		switch result {
		case Handled:
			outcome.Result = Handled
			outcome.Handler = h.Module
			return outcome
		case Declined:
			outcome.Result = Declined
		}
	}

	d.logger.Debug("found no handler for interaction",
		"interaction", interactionName(event),
		"result", outcome.Result.String(),
	)
	return outcome
}

func (d *Dispatcher) invoke(ctx context.Context, h NamedHandler, inv *Invocation) (result Result, err error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Debug("recovered handler panic", "module", h.Module, "stack", string(debug.Stack()))
			result, err = Pass, fmt.Errorf("panic: %v", r)
		}
	}()

	return h.Handle(ctx, inv)
}

func interactionName(i *discordgo.InteractionCreate) string {
	if i == nil || i.Interaction == nil {
		return ""
	}
	switch data := i.Data.(type) {
	case discordgo.ApplicationCommandInteractionData:
		return data.Name
	case discordgo.MessageComponentInteractionData:
		return data.CustomID
	case discordgo.ModalSubmitInteractionData:
		return data.CustomID
	}
	return fmt.Sprintf("type %d", i.Type)
}
