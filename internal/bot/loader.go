package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/config"
)

// NamedHandler is an interaction handler and the module it belongs to.
type NamedHandler struct {
	Module string
	Handle HandlerFunc
}

// Loaded aggregates what the loaded modules contribute, in load order.
type Loaded struct {
	Modules  []Module
	Commands []*discordgo.ApplicationCommand
	Handlers []NamedHandler
}

// Load builds each registered module, runs its startup hook and collects
// its commands and handler. A module that fails to build contributes
// nothing; a failing hook is logged and the module is kept. Neither stops
// the remaining modules from loading.
func (l *Loaded) Load(ctx context.Context, meta Meta, regs []Registration) {
	for _, reg := range regs {
		mod, err := buildModule(reg, meta.Config)
		if err != nil {
			logModuleError(&ModuleLoadError{Module: reg.Name, Stage: "build", Err: err}, reg.Tier)
			continue
		}

		if err := runHook(ctx, mod, meta); err != nil {
			logModuleError(&ModuleLoadError{Module: reg.Name, Stage: "hook", Err: err}, reg.Tier)
		}

		commands := mod.Commands()
		l.Modules = append(l.Modules, mod)
		l.Commands = append(l.Commands, commands...)
		l.Handlers = append(l.Handlers, NamedHandler{
			Module: reg.Name,
			Handle: mod.HandleInteraction,
		})

		slog.Debug("loaded module",
			"module", reg.Name,
			"tier", reg.Tier.String(),
			"commands", len(commands),
		)
	}
}

// LoadModules loads every tier of registry in LoadOrder.
func LoadModules(ctx context.Context, meta Meta, registry *Registry) *Loaded {
	loaded := &Loaded{}
	for _, tier := range LoadOrder {
		regs := registry.Registrations(tier)
		if len(regs) == 0 {
			continue
		}
		slog.Info("loading modules", "tier", tier.String(), "count", len(regs))
		loaded.Load(ctx, meta, regs)
	}
	return loaded
}

// ModuleNames returns the names of the loaded modules.
func (l *Loaded) ModuleNames() []string {
	names := make([]string, len(l.Modules))
	for i, mod := range l.Modules {
		names[i] = mod.Name()
	}
	return names
}

func buildModule(reg Registration, cfg *config.Config) (mod Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	var settings config.FeatureSettings
	if cfg != nil {
		settings = cfg.Feature(reg.Name)
	}

	mod, err = reg.Factory(settings)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, fmt.Errorf("factory returned no module")
	}
	return mod, nil
}

func runHook(ctx context.Context, mod Module, meta Meta) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return mod.Hook(ctx, meta)
}

func logModuleError(err *ModuleLoadError, tier Tier) {
	slog.Error("failed to load module",
		"module", err.Module,
		"tier", tier.String(),
		"stage", err.Stage,
		"error", err.Err,
	)
}
