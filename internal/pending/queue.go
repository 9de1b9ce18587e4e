// Package pending batches pending-dues refreshes.
//
// A payment change in an old period shifts the pending count of every later
// record of the same player. The ledger updates the touched record inline and
// schedules the player here; the queue coalesces repeated schedules and
// refreshes each dirty player in the background, retrying failures with a
// backoff. Readers that need a consistent count call FlushKey first.
package pending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/duesbook/internal/metrics"
)

// Key identifies one player's pending-dues chain.
type Key struct {
	TenantID string
	PlayerID string
}

// RefreshFunc recomputes every pending count of one player. It must be
// idempotent.
type RefreshFunc func(ctx context.Context, key Key) error

// Config tunes the worker.
type Config struct {
	// FlushInterval is how often Run drains the queue.
	FlushInterval time.Duration

	// BatchSize caps how many players one flush refreshes.
	BatchSize int

	// Concurrency caps parallel refreshes within a batch.
	Concurrency int

	// RetryBackoff is the delay before a failed refresh is retried. It doubles
	// with every attempt.
	RetryBackoff time.Duration

	// MaxAttempts drops a player after this many failures.
	MaxAttempts int
}

// DefaultConfig returns the worker defaults.
func DefaultConfig() Config {
	return Config{
		FlushInterval: 500 * time.Millisecond,
		BatchSize:     100,
		Concurrency:   4,
		RetryBackoff:  time.Second,
		MaxAttempts:   5,
	}
}

const drainTimeout = 5 * time.Second

type entry struct {
	attempts int
	due      time.Time
}

// Queue is a set of players whose pending counts are stale.
type Queue struct {
	refresh RefreshFunc
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	dirty map[Key]entry
	wake  chan struct{}
}

// NewQueue creates a queue that calls refresh for every dirty player.
// Zero config fields fall back to DefaultConfig.
func NewQueue(refresh RefreshFunc, cfg Config, logger *slog.Logger) *Queue {
	def := DefaultConfig()
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = def.RetryBackoff
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		refresh: refresh,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		dirty:   make(map[Key]entry),
		wake:    make(chan struct{}, 1),
	}
}

// Schedule marks players dirty. A player already queued keeps a single entry
// and becomes due immediately.
func (q *Queue) Schedule(keys ...Key) {
	if len(keys) == 0 {
		return
	}
	q.mu.Lock()
	for _, k := range keys {
		q.dirty[k] = entry{}
	}
	depth := len(q.dirty)
	q.mu.Unlock()

	metrics.PendingQueueDepth.Set(float64(depth))
	if depth >= q.cfg.BatchSize {
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
}

// Len reports how many players are queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.dirty)
}

// Queued reports whether key is waiting for a refresh.
func (q *Queue) Queued(key Key) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.dirty[key]
	return ok
}

// FlushKey refreshes key now if it is queued. On failure the key stays queued.
func (q *Queue) FlushKey(ctx context.Context, key Key) error {
	q.mu.Lock()
	e, ok := q.dirty[key]
	if ok {
		delete(q.dirty, key)
	}
	q.mu.Unlock()
	if !ok {
		return nil
	}
	return q.run(ctx, key, e)
}

// Flush refreshes up to one batch of due players and reports how many were
// taken. Failures are requeued and joined into the returned error.
func (q *Queue) Flush(ctx context.Context) (int, error) {
	batch := q.takeDue()
	if len(batch) == 0 {
		return 0, nil
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(q.cfg.Concurrency)
	for k, e := range batch {
		k, e := k, e
		g.Go(func() error {
			if err := q.run(ctx, k, e); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
	return len(batch), errors.Join(errs...)
}

// Drain flushes until nothing due is left.
func (q *Queue) Drain(ctx context.Context) error {
	var errs []error
	for {
		n, err := q.Flush(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		if n == 0 || ctx.Err() != nil {
			return errors.Join(errs...)
		}
	}
}

// Run flushes on every tick until ctx is done, then drains what is left with
// a short grace period.
func (q *Queue) Run(ctx context.Context) error {
	ticker := time.NewTicker(q.cfg.FlushInterval)
	defer ticker.Stop()

	q.logger.Info("Pending dues worker started",
		"flush_interval", q.cfg.FlushInterval,
		"batch_size", q.cfg.BatchSize,
		"concurrency", q.cfg.Concurrency,
	)

	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
			err := q.Drain(drainCtx)
			cancel()
			if err != nil {
				q.logger.Warn("Pending dues drain incomplete", "error", err, "remaining", q.Len())
			}
			q.logger.Info("Pending dues worker stopped")
			return nil
		case <-ticker.C:
		case <-q.wake:
		}
		if _, err := q.Flush(ctx); err != nil {
			q.logger.Debug("Pending dues flush had failures", "error", err)
		}
	}
}

func (q *Queue) takeDue() map[Key]entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	batch := make(map[Key]entry)
	for k, e := range q.dirty {
		if len(batch) >= q.cfg.BatchSize {
			break
		}
		if e.due.After(now) {
			continue
		}
		batch[k] = e
		delete(q.dirty, k)
	}
	metrics.PendingQueueDepth.Set(float64(len(q.dirty)))
	return batch
}

func (q *Queue) run(ctx context.Context, key Key, e entry) error {
	err := q.refresh(ctx, key)
	if err == nil {
		metrics.PendingRefreshTotal.WithLabelValues("ok").Inc()
		return nil
	}

	e.attempts++
	if e.attempts >= q.cfg.MaxAttempts {
		metrics.PendingRefreshTotal.WithLabelValues("error").Inc()
		q.logger.Error("Pending dues refresh abandoned",
			"tenant_id", key.TenantID,
			"player_id", key.PlayerID,
			"attempts", e.attempts,
			"error", err,
		)
		return fmt.Errorf("refresh pending dues for player %s: %w", key.PlayerID, err)
	}

	metrics.PendingRefreshTotal.WithLabelValues("retry").Inc()
	e.due = q.now().Add(q.cfg.RetryBackoff << (e.attempts - 1))

	q.mu.Lock()
	// A fresh Schedule since the key was taken wins over the retry.
	if _, ok := q.dirty[key]; !ok {
		q.dirty[key] = e
	}
	depth := len(q.dirty)
	q.mu.Unlock()
	metrics.PendingQueueDepth.Set(float64(depth))

	q.logger.Warn("Pending dues refresh failed, will retry",
		"tenant_id", key.TenantID,
		"player_id", key.PlayerID,
		"attempt", e.attempts,
		"error", err,
	)
	return fmt.Errorf("refresh pending dues for player %s: %w", key.PlayerID, err)
}
