package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/doughlab/cookieclicker/internal/dependencies/clock"
	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// Broadcaster recomputes the leaderboard from the player store and fans it
// out to every open connection. Join and leave events broadcast immediately;
// update traffic goes through the throttle so bursty counter writes cost at
// most one recompute per interval.
type Broadcaster struct {
	store    storage.PlayerStore
	registry *Registry
	hub      *Hub
	throttle *Throttle
	logger   *slog.Logger
}

// NewBroadcaster creates a broadcaster with its own throttle
func NewBroadcaster(store storage.PlayerStore, registry *Registry, hub *Hub, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Broadcaster {
	b := &Broadcaster{
		store:    store,
		registry: registry,
		hub:      hub,
		logger:   logger.With(slog.String("component", "broadcaster")),
	}
	b.throttle = NewThrottle(clk, interval, func() {
		b.BroadcastNow(context.Background())
	})
	return b
}

// BroadcastNow queries the top players and sends the leaderboard to every
// open connection, bypassing the throttle. A store failure is broadcast as
// an error message rather than silently dropped.
func (b *Broadcaster) BroadcastNow(ctx context.Context) {
	entries, err := b.store.GetLeaderboard(ctx, model.LeaderboardSize)
	if err != nil {
		b.logger.Error("leaderboard query failed", slog.Any("error", err))
		b.broadcastJSON(ErrorMessage{
			Type:  MessageTypeError,
			Error: errLeaderboardFailed,
		})
		return
	}

	b.broadcastJSON(LeaderboardMessage{
		Type:          MessageTypeLeaderboard,
		Data:          entries,
		ActivePlayers: b.registry.ActivePlayers(),
	})
}

// BroadcastThrottled schedules a broadcast unless one is already pending
func (b *Broadcaster) BroadcastThrottled() {
	b.throttle.Trigger()
}

// Close cancels any pending throttled broadcast
func (b *Broadcaster) Close() {
	b.throttle.Stop()
}

func (b *Broadcaster) broadcastJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("broadcast marshal failed", slog.Any("error", err))
		return
	}
	b.hub.Broadcast(data)
}
