// Package memory provides an in-memory implementation of the storage.Store
// interface. Rows live in per-entity arenas keyed by ID with secondary indices
// for the natural keys. It is used by tests and for running the server without
// a database file.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// data is the full state of the store. Values stored in the maps are private
// copies and are never mutated in place, so a shallow clone of the maps is a
// consistent snapshot.
type data struct {
	users        map[string]*models.User
	usersByEmail map[string]string

	players        map[string]*models.Player
	playersByPhone map[phoneKey]string

	periods        map[string]*models.Period
	periodsByMonth map[monthKey]string

	monthly         map[string]*models.MonthlyRecord
	monthlyByPlayer map[recordKey]string

	casual   map[string]*models.CasualRecord
	expenses map[string]*models.Expense
}

type phoneKey struct{ tenantID, phone string }

type monthKey struct {
	tenantID    string
	year, month int
}

type recordKey struct{ tenantID, playerID, periodID string }

func newData() *data {
	return &data{
		users:           make(map[string]*models.User),
		usersByEmail:    make(map[string]string),
		players:         make(map[string]*models.Player),
		playersByPhone:  make(map[phoneKey]string),
		periods:         make(map[string]*models.Period),
		periodsByMonth:  make(map[monthKey]string),
		monthly:         make(map[string]*models.MonthlyRecord),
		monthlyByPlayer: make(map[recordKey]string),
		casual:          make(map[string]*models.CasualRecord),
		expenses:        make(map[string]*models.Expense),
	}
}

func (d *data) clone() *data {
	return &data{
		users:           maps.Clone(d.users),
		usersByEmail:    maps.Clone(d.usersByEmail),
		players:         maps.Clone(d.players),
		playersByPhone:  maps.Clone(d.playersByPhone),
		periods:         maps.Clone(d.periods),
		periodsByMonth:  maps.Clone(d.periodsByMonth),
		monthly:         maps.Clone(d.monthly),
		monthlyByPlayer: maps.Clone(d.monthlyByPlayer),
		casual:          maps.Clone(d.casual),
		expenses:        maps.Clone(d.expenses),
	}
}

// Store implements storage.Store in memory.
type Store struct {
	*queries
	mu sync.RWMutex
}

// New creates an empty Store.
func New() *Store {
	s := &Store{}
	s.queries = &queries{d: newData(), mu: &s.mu}
	return s
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// InTx serializes fn against every other writer and restores the previous
// state when fn fails or ctx is done.
func (s *Store) InTx(ctx context.Context, fn func(q storage.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.queries.d.clone()
	err := fn(&queries{d: s.queries.d})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		*s.queries.d = *snapshot
		return err
	}
	return nil
}

// queries implements storage.Queries. Outside a transaction mu guards every
// call; inside one the transaction already holds the write lock and mu is nil.
type queries struct {
	d  *data
	mu *sync.RWMutex
}

var _ storage.Queries = (*queries)(nil)

func (q *queries) read() func() {
	if q.mu == nil {
		return func() {}
	}
	q.mu.RLock()
	return q.mu.RUnlock
}

func (q *queries) write() func() {
	if q.mu == nil {
		return func() {}
	}
	q.mu.Lock()
	return q.mu.Unlock
}
