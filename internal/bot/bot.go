package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/store"
)

// DefaultReadyTimeout bounds how long Start waits for the configured guild to
// become available.
const DefaultReadyTimeout = 30 * time.Second

// IntentsGuildMembers and IntentsMessageContent are privileged and must be
// enabled for the application in the developer portal.
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsDirectMessageReactions |
	discordgo.IntentsMessageContent

// Option configures a Bot.
type Option func(*Bot)

// WithCommandAPI installs commands through api instead of the session.
func WithCommandAPI(api CommandAPI) Option {
	return func(b *Bot) {
		b.commandAPI = api
	}
}

// WithReadyTimeout overrides DefaultReadyTimeout.
func WithReadyTimeout(d time.Duration) Option {
	return func(b *Bot) {
		b.readyTimeout = d
	}
}

// WithPanicHandler sets a function deferred at the root of every goroutine
// the bot starts. It is expected to call recover.
func WithPanicHandler(fn func()) Option {
	return func(b *Bot) {
		b.onPanic = fn
	}
}

// Bot manages the Discord bot lifecycle and module coordination.
type Bot struct {
	env      *config.Env
	config   *config.Config
	store    *store.Store
	registry *Registry
	session  *discordgo.Session

	commandAPI   CommandAPI
	readyTimeout time.Duration
	onPanic      func()

	setupOnce  sync.Once
	ready      chan error
	dispatcher atomic.Pointer[Dispatcher]

	mu       sync.Mutex
	stopped  bool
	modules  []Module
	presence *presenceLoop
}

// NewBot creates a new Bot instance with the given configuration.
func NewBot(
	env *config.Env,
	cfg *config.Config,
	st *store.Store,
	registry *Registry,
	opts ...Option,
) *Bot {
	b := &Bot{
		env:          env,
		config:       cfg,
		store:        st,
		registry:     registry,
		readyTimeout: DefaultReadyTimeout,
		onPanic:      func() {},
		ready:        make(chan error, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start connects to Discord and waits until the configured guild is
// available, the modules are loaded and the commands are registered.
func (b *Bot) Start(ctx context.Context) error {
	// Create Discord session
	session, err := discordgo.New("Bot " + b.env.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = intents
	b.session = session

	session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if g.ID != b.config.Discord.GuildID {
			return
		}
		b.setupOnce.Do(func() {
			defer b.onPanic()
			b.ready <- b.setup(ctx, s)
		})
	})
	session.AddHandler(b.handleInteraction)

	// Open connection
	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	timer := time.NewTimer(b.readyTimeout)
	defer timer.Stop()

	select {
	case err := <-b.ready:
		if err != nil {
			return err
		}
	case <-timer.C:
		return &ResolutionError{Kind: "guild", ID: b.config.Discord.GuildID}
	case <-ctx.Done():
		return ctx.Err()
	}

	slog.Info("started bot",
		"user_id", session.State.User.ID,
		"username", session.State.User.Username,
	)
	return nil
}

// setup runs once the configured guild has arrived in the session state.
func (b *Bot) setup(ctx context.Context, s *discordgo.Session) error {
	slog.Info("setting up store", "path", b.store.Path())
	if err := b.store.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	slog.Info("loaded store", "collections", b.store.Collections())

	slog.Info("resolving guild and channels", "guild_id", b.config.Discord.GuildID)
	guild, channels, err := ResolveGuild(s.State, b.config.Discord.GuildID, b.config.Channels)
	if err != nil {
		return err
	}

	meta := Meta{
		Session:  s,
		Store:    b.store,
		Guild:    guild,
		Channels: channels,
		Config:   b.config,
	}

	loaded := LoadModules(ctx, meta, b.registry)
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		shutdownModules(loaded.Modules)
		return ErrStopped
	}
	b.modules = loaded.Modules
	b.mu.Unlock()
	slog.Info("initialized modules", "modules", loaded.ModuleNames())

	api := b.commandAPI
	if api == nil {
		api = s
	}
	if _, err := RegisterCommands(
		ctx,
		api,
		b.config.Discord.ClientID,
		b.config.Discord.GuildID,
		loaded.Commands,
		b.config.Admins(),
	); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return ErrStopped
	}
	if status := b.config.Discord.Status; status != nil {
		slog.Info("setting presence", "name", status.Name)
		b.presence = startPresenceLoop(s, *status, PresenceRefreshInterval, b.onPanic)
	}

	b.dispatcher.Store(NewDispatcher(meta, loaded.Handlers, b.env.HandlerTimeout))
	return nil
}

// Stop stops the presence refresh, shuts down modules, closes the Discord
// session and flushes the store.
func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.stopped = true
	presence, modules := b.presence, b.modules
	b.presence, b.modules = nil, nil
	b.mu.Unlock()

	if presence != nil {
		presence.stop()
	}

	shutdownModules(modules)

	var errs []error

	// Close Discord session
	if b.session != nil {
		if err := b.session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing Discord session: %w", err))
		}
	}

	slog.Info("closing store")
	if err := b.store.Close(ctx); err != nil {
		errs = append(errs, err)
	} else {
		slog.Info("saved and closed store")
	}

	return errors.Join(errs...)
}

func shutdownModules(modules []Module) {
	for _, mod := range modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}
}

// handleInteraction offers an interaction to the loaded modules.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer b.onPanic()

	d := b.dispatcher.Load()
	if d == nil {
		slog.Warn("received interaction before modules were loaded", "interaction", interactionName(i))
		return
	}

	d.Dispatch(context.Background(), i, NewDiscordResponder(s, i.Interaction))
}
