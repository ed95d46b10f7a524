package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/config"
)

// PresenceRefreshInterval is how often the configured status is re-applied.
const PresenceRefreshInterval = time.Hour

// StatusUpdater sets the bot user's presence. *discordgo.Session implements it.
type StatusUpdater interface {
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

type presenceLoop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startPresenceLoop(
	s StatusUpdater,
	status config.Status,
	interval time.Duration,
	onPanic func(),
) *presenceLoop {
	ctx, cancel := context.WithCancel(context.Background())
	p := &presenceLoop{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer onPanic()
		defer close(p.done)

		update := func() {
			err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
				Activities: []*discordgo.Activity{status.Activity()},
				Status:     string(discordgo.StatusOnline),
			})
			if err != nil {
				slog.Warn("failed to update presence", "error", err)
			}
		}

		update()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				update()
			}
		}
	}()

	return p
}

func (p *presenceLoop) stop() {
	p.cancel()
	<-p.done
}
