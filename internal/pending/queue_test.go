package pending

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/duesbook/internal/metrics"
)

type recorder struct {
	mu    sync.Mutex
	calls map[Key]int
	fail  map[Key]int // remaining failures per key
}

func newRecorder() *recorder {
	return &recorder{calls: make(map[Key]int), fail: make(map[Key]int)}
}

func (r *recorder) refresh(ctx context.Context, key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[key]++
	if r.fail[key] > 0 {
		r.fail[key]--
		return errors.New("store unavailable")
	}
	return nil
}

func (r *recorder) count(key Key) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[key]
}

func TestScheduleCoalesces(t *testing.T) {
	rec := newRecorder()
	q := NewQueue(rec.refresh, Config{}, nil)
	key := Key{TenantID: "t1", PlayerID: "p1"}

	q.Schedule(key, key)
	q.Schedule(key)
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1", q.Len())
	}

	n, err := q.Flush(context.Background())
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if n != 1 || rec.count(key) != 1 {
		t.Errorf("flushed %d, refreshed %d times; want 1 and 1", n, rec.count(key))
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d after flush, want 0", q.Len())
	}
}

func TestFlushRespectsBatchSize(t *testing.T) {
	rec := newRecorder()
	q := NewQueue(rec.refresh, Config{BatchSize: 2, Concurrency: 2}, nil)
	q.Schedule(Key{"t1", "a"}, Key{"t1", "b"}, Key{"t1", "c"})

	n, err := q.Flush(context.Background())
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if n != 2 || q.Len() != 1 {
		t.Errorf("flushed %d with %d left, want 2 and 1", n, q.Len())
	}

	if err := q.Drain(context.Background()); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d after drain, want 0", q.Len())
	}
}

func TestFailedRefreshIsRetriedAfterBackoff(t *testing.T) {
	rec := newRecorder()
	key := Key{TenantID: "t1", PlayerID: "flaky"}
	rec.fail[key] = 1

	q := NewQueue(rec.refresh, Config{RetryBackoff: time.Minute, MaxAttempts: 3}, nil)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return clock }

	retriesBefore := testutil.ToFloat64(metrics.PendingRefreshTotal.WithLabelValues("retry"))

	q.Schedule(key)
	if _, err := q.Flush(context.Background()); err == nil {
		t.Fatal("expected first flush to fail")
	}
	if !q.Queued(key) {
		t.Fatal("expected failed key to stay queued")
	}
	if got := testutil.ToFloat64(metrics.PendingRefreshTotal.WithLabelValues("retry")); got != retriesBefore+1 {
		t.Errorf("retry counter = %v, want %v", got, retriesBefore+1)
	}

	// Not due yet.
	if n, _ := q.Flush(context.Background()); n != 0 {
		t.Errorf("flushed %d before backoff elapsed, want 0", n)
	}

	clock = clock.Add(2 * time.Minute)
	if _, err := q.Flush(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if rec.count(key) != 2 || q.Queued(key) {
		t.Errorf("refreshed %d times, queued=%v; want 2 and false", rec.count(key), q.Queued(key))
	}
}

func TestRefreshAbandonedAfterMaxAttempts(t *testing.T) {
	rec := newRecorder()
	key := Key{TenantID: "t1", PlayerID: "broken"}
	rec.fail[key] = 10

	q := NewQueue(rec.refresh, Config{MaxAttempts: 1}, nil)
	q.Schedule(key)
	if _, err := q.Flush(context.Background()); err == nil {
		t.Fatal("expected flush to fail")
	}
	if q.Queued(key) {
		t.Error("expected key to be dropped after max attempts")
	}
}

func TestFlushKey(t *testing.T) {
	rec := newRecorder()
	q := NewQueue(rec.refresh, Config{}, nil)
	a := Key{"t1", "a"}
	b := Key{"t1", "b"}
	q.Schedule(a, b)

	if err := q.FlushKey(context.Background(), a); err != nil {
		t.Fatalf("FlushKey failed: %v", err)
	}
	if rec.count(a) != 1 || rec.count(b) != 0 {
		t.Errorf("refresh counts a=%d b=%d, want 1 and 0", rec.count(a), rec.count(b))
	}

	// Not queued: no refresh.
	if err := q.FlushKey(context.Background(), a); err != nil {
		t.Fatalf("FlushKey failed: %v", err)
	}
	if rec.count(a) != 1 {
		t.Errorf("refresh count a=%d, want 1", rec.count(a))
	}
}

func TestRunDrainsOnShutdown(t *testing.T) {
	rec := newRecorder()
	q := NewQueue(rec.refresh, Config{FlushInterval: time.Hour}, nil)
	key := Key{"t1", "late"}
	q.Schedule(key)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
	if rec.count(key) != 1 {
		t.Errorf("refresh count = %d, want 1", rec.count(key))
	}
}
