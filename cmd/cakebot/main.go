package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sglre6355/cakebot/internal/bot"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/lifecycle"
	"github.com/sglre6355/cakebot/internal/store"

	_ "github.com/sglre6355/cakebot/internal/modules/lookup"
	_ "github.com/sglre6355/cakebot/internal/modules/ping"
	_ "github.com/sglre6355/cakebot/internal/modules/reactionroles"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/cakebot
var version = "dev"

func main() {
	// Configure JSON logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load environment
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load environment", "error", err)
		os.Exit(lifecycle.ExitStartupFailure)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.LogLevel,
	})))

	slog.Info("starting cakebot", "version", version)

	// Load configuration
	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		slog.Error("failed to load config", "path", env.ConfigPath, "error", err)
		os.Exit(lifecycle.ExitStartupFailure)
	}

	var b *bot.Bot
	lc := lifecycle.New(
		func(ctx context.Context) error { return b.Stop(ctx) },
		lifecycle.WithTimeout(env.ShutdownTimeout),
	)
	defer lc.Recover()

	// Create and configure bot
	b = bot.NewBot(
		env,
		cfg,
		store.New(cfg.Data.DBFile),
		bot.GlobalRegistry(),
		bot.WithPanicHandler(lc.Recover),
	)

	// Signals from here on shut down the bot, during startup included
	lc.Listen()
	startCtx, stopStart := context.WithCancel(context.Background())
	go func() {
		defer lc.Recover()
		lc.WaitForSignal(startCtx)
	}()

	// Start bot
	err = b.Start(startCtx)
	stopStart()
	if err != nil {
		slog.Error("failed to start bot", "error", err)
		lc.Terminate(lifecycle.ExitStartupFailure)
	}

	// Wait for shutdown signal
	lc.WaitForSignal(context.Background())
}
