// Package ledger is the monthly payment ledger and aggregation engine.
//
// Every exported operation takes the caller's tenant ID, runs as one
// transaction against the injected storage.Store, and returns either a result
// or an error from the package taxonomy (ErrNotFound, *ValidationError,
// *ConflictError, ErrConcurrentUpdate). Mutations of monthly or casual records
// recompute the owning period's cached totals in the same transaction.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/duesbook/internal/metrics"
	"github.com/mmynk/duesbook/internal/pending"
	"github.com/mmynk/duesbook/internal/storage"
)

const defaultMaxRetries = 3

// Ledger implements the tenant-scoped dues operations.
type Ledger struct {
	store      storage.Store
	now        func() time.Time
	logger     *slog.Logger
	maxRetries int

	// queue, when set, receives pending-dues cascades after commit. Without
	// it cascades run inside the triggering transaction.
	queue      *pending.Queue
	pendingCfg *pending.Config
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithMaxRetries sets how often a transaction is replayed after a version
// conflict before ErrConcurrentUpdate is returned.
func WithMaxRetries(n int) Option {
	return func(l *Ledger) { l.maxRetries = n }
}

// WithBackgroundPending moves pending-dues cascades onto a queue drained by Run.
func WithBackgroundPending(cfg pending.Config) Option {
	return func(l *Ledger) { l.pendingCfg = &cfg }
}

// New creates a Ledger over store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:      store,
		now:        time.Now,
		logger:     slog.Default(),
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.pendingCfg != nil {
		l.queue = pending.NewQueue(l.refreshKey, *l.pendingCfg, l.logger)
	}
	return l
}

// Run drains the pending-dues queue until ctx is done. It returns immediately
// when cascades run inline.
func (l *Ledger) Run(ctx context.Context) error {
	if l.queue == nil {
		return nil
	}
	return l.queue.Run(ctx)
}

// Flush drains every queued pending-dues cascade now.
func (l *Ledger) Flush(ctx context.Context) error {
	if l.queue == nil {
		return nil
	}
	return l.queue.Drain(ctx)
}

// unit is the transaction handed to every ledger step.
type unit struct {
	q        storage.Queries
	tenantID string

	// touched collects players whose pending chain must be refreshed.
	touched map[pending.Key]struct{}
}

func (u *unit) touch(playerID string) {
	u.touched[pending.Key{TenantID: u.tenantID, PlayerID: playerID}] = struct{}{}
}

// withTx runs fn in a transaction, replaying it when a period version check
// fails. Errors are translated into the package taxonomy.
func (l *Ledger) withTx(ctx context.Context, tenantID string, fn func(ctx context.Context, u *unit) error) error {
	if tenantID == "" {
		return ErrNotFound
	}

	for attempt := 0; ; attempt++ {
		var touched map[pending.Key]struct{}
		err := l.store.InTx(ctx, func(q storage.Queries) error {
			u := &unit{q: q, tenantID: tenantID, touched: make(map[pending.Key]struct{})}
			if err := fn(ctx, u); err != nil {
				return err
			}
			touched = u.touched
			if l.queue == nil {
				for key := range touched {
					if err := l.refreshPendingCounts(ctx, q, key.TenantID, key.PlayerID); err != nil {
						return err
					}
				}
			}
			return nil
		})

		if err == nil {
			if l.queue != nil && len(touched) > 0 {
				keys := make([]pending.Key, 0, len(touched))
				for key := range touched {
					keys = append(keys, key)
				}
				l.queue.Schedule(keys...)
			}
			return nil
		}

		if !errors.Is(err, storage.ErrVersionConflict) {
			return translate(err)
		}
		if attempt >= l.maxRetries {
			l.logger.Warn("Giving up after version conflicts",
				"tenant_id", tenantID,
				"attempts", attempt+1,
			)
			return ErrConcurrentUpdate
		}
		metrics.TxRetries.Inc()
		l.logger.Debug("Retrying transaction after version conflict",
			"tenant_id", tenantID,
			"attempt", attempt+1,
		)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// read runs fn directly against the store, outside any transaction.
func (l *Ledger) read(ctx context.Context, tenantID string, fn func(ctx context.Context, u *unit) error) error {
	if tenantID == "" {
		return ErrNotFound
	}
	return translate(fn(ctx, &unit{q: l.store, tenantID: tenantID, touched: make(map[pending.Key]struct{})}))
}

// readTx runs fn inside a transaction so every read sees the same state.
// Nothing is written and no pending refresh is scheduled.
func (l *Ledger) readTx(ctx context.Context, tenantID string, fn func(ctx context.Context, u *unit) error) error {
	if tenantID == "" {
		return ErrNotFound
	}
	return translate(l.store.InTx(ctx, func(q storage.Queries) error {
		return fn(ctx, &unit{q: q, tenantID: tenantID, touched: make(map[pending.Key]struct{})})
	}))
}

func (l *Ledger) refreshKey(ctx context.Context, key pending.Key) error {
	err := l.RefreshPendingCounts(ctx, key.TenantID, key.PlayerID)
	if errors.Is(err, ErrNotFound) {
		// The player was deleted after the cascade was scheduled.
		return nil
	}
	return err
}
