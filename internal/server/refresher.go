package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/chorecal/internal/websocket"
)

// HorizonRefresher is the part of the chore service the refresher drives.
type HorizonRefresher interface {
	RefreshHorizon(ctx context.Context) (int, error)
}

// Refresher periodically extends open-ended recurring chores so the
// expansion horizon keeps moving forward while the server runs.
type Refresher struct {
	mu       sync.Mutex
	svc      HorizonRefresher
	hub      websocket.Broadcaster
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewRefresher(svc HorizonRefresher, hub websocket.Broadcaster, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		svc:      svc,
		hub:      hub,
		interval: interval,
		logger:   logger.With("component", "refresher"),
	}
}

// Start refreshes once immediately, then every interval until Stop or ctx
// is done. A non-positive interval only runs the initial refresh.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.mu.Unlock()

	go func() {
		defer close(r.done)
		r.tick(ctx)
		if r.interval <= 0 {
			return
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (r *Refresher) tick(ctx context.Context) {
	added, err := r.svc.RefreshHorizon(ctx)
	if err != nil {
		r.logger.Error("refresh horizon", "error", err)
		return
	}
	if added > 0 && r.hub != nil {
		msg := websocket.NewMessage("chore", "refreshed", "")
		msg.Count = added
		r.hub.Broadcast(msg)
	}
}
