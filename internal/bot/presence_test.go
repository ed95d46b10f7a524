package bot

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/config"
)

type fakeStatusUpdater struct {
	mu      sync.Mutex
	updates []discordgo.UpdateStatusData
	err     error
}

func (f *fakeStatusUpdater) UpdateStatusComplex(usd discordgo.UpdateStatusData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, usd)
	return f.err
}

func (f *fakeStatusUpdater) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func TestPresenceLoop_SetsStatusAndRefreshes(t *testing.T) {
	updater := &fakeStatusUpdater{}
	loop := startPresenceLoop(updater, config.Status{Name: "the oven", Type: "watching"},
		10*time.Millisecond, func() {})

	deadline := time.Now().Add(2 * time.Second)
	for updater.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("expected the status to be refreshed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	loop.stop()

	updater.mu.Lock()
	first := updater.updates[0]
	updater.mu.Unlock()

	if first.Status != "online" {
		t.Errorf("expected online status, got %q", first.Status)
	}
	if len(first.Activities) != 1 || first.Activities[0].Name != "the oven" ||
		first.Activities[0].Type != discordgo.ActivityTypeWatching {
		t.Errorf("unexpected activities %+v", first.Activities)
	}

	stopped := updater.count()
	time.Sleep(30 * time.Millisecond)
	if updater.count() != stopped {
		t.Error("expected no updates after stop")
	}
}

func TestPresenceLoop_ErrorsDoNotStopLoop(t *testing.T) {
	updater := &fakeStatusUpdater{err: errors.New("no websocket")}
	loop := startPresenceLoop(updater, config.Status{Name: "x"}, 5*time.Millisecond, func() {})
	defer loop.stop()

	deadline := time.Now().Add(2 * time.Second)
	for updater.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("expected updates to continue after errors")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
