package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
	"github.com/mmynk/duesbook/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return New()
	})
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	player := storagetest.MustPlayer(t, s, "t1", "Alice", "111", "10")
	player.Name = "Mutated"

	got, err := s.GetPlayer(ctx, "t1", player.ID)
	if err != nil {
		t.Fatalf("GetPlayer failed: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("stored player changed through caller's pointer: %q", got.Name)
	}

	got.Name = "Also mutated"
	again, _ := s.GetPlayer(ctx, "t1", player.ID)
	if again.Name != "Alice" {
		t.Errorf("stored player changed through returned pointer: %q", again.Name)
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()
	period := storagetest.MustPeriod(t, s, "t1", 2024, 1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				err := s.InTx(ctx, func(q storage.Queries) error {
					p, err := q.GetPeriod(ctx, "t1", period.ID)
					if err != nil {
						return err
					}
					p.PlayersCount++
					return q.UpdatePeriod(ctx, p)
				})
				if err == nil {
					return
				}
				if !errors.Is(err, storage.ErrVersionConflict) {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ListPeriods(ctx, "t1", models.PeriodFilter{}); err != nil {
				t.Errorf("ListPeriods failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.GetPeriod(ctx, "t1", period.ID)
	if err != nil {
		t.Fatalf("GetPeriod failed: %v", err)
	}
	if got.PlayersCount != 20 {
		t.Errorf("PlayersCount = %d, want 20", got.PlayersCount)
	}
}
