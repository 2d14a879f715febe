package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CartPurger exposes the subset of application functionality required by the reaper.
type CartPurger interface {
	PurgeExpiredCarts(ctx context.Context, limit int) (int, error)
}

// CartReaper periodically removes carts whose inactivity window elapsed.
type CartReaper struct {
	purger   CartPurger
	interval time.Duration
	batch    int
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewCartReaper constructs the expired cart sweeper.
func NewCartReaper(purger CartPurger, interval time.Duration, batch int, logger *slog.Logger) *CartReaper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if batch <= 0 {
		batch = 100
	}
	return &CartReaper{
		purger:   purger,
		interval: interval,
		batch:    batch,
		logger:   logger,
	}
}

// Start launches background sweeping.
func (r *CartReaper) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(runCtx)
}

// Stop waits for the sweep loop to finish.
func (r *CartReaper) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *CartReaper) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep keeps purging full batches so a backlog drains in one tick.
func (r *CartReaper) sweep(ctx context.Context) {
	for {
		removed, err := r.purger.PurgeExpiredCarts(ctx, r.batch)
		if err != nil {
			r.logger.Error("expired cart sweep failed", slog.String("error", err.Error()))
			return
		}
		if removed > 0 {
			r.logger.Info("expired carts removed", slog.Int("count", removed))
		}
		if removed < r.batch {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
