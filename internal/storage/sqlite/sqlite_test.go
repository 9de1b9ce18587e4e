package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duesbook/internal/storage"
	"github.com/mmynk/duesbook/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestSQLiteStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newTestStore(t)
	})
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "dues.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	period := storagetest.MustPeriod(t, store, "t1", 2024, 4)
	period.TotalExpected = decimal.RequireFromString("0.10")
	if err := store.UpdatePeriod(ctx, period); err != nil {
		t.Fatalf("UpdatePeriod failed: %v", err)
	}
	store.Close()

	// Migrations are idempotent.
	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	got, err := store.GetPeriod(ctx, "t1", period.ID)
	if err != nil {
		t.Fatalf("GetPeriod failed: %v", err)
	}
	if !got.TotalExpected.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("TotalExpected = %s, want 0.1", got.TotalExpected)
	}
}

func TestDecimalPrecision(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	player := storagetest.MustPlayer(t, store, "t1", "Precise", "1", "0.1")
	player.DefaultFee = player.DefaultFee.Add(decimal.RequireFromString("0.2"))
	if err := store.UpdatePlayer(ctx, player); err != nil {
		t.Fatalf("UpdatePlayer failed: %v", err)
	}

	got, err := store.GetPlayer(ctx, "t1", player.ID)
	if err != nil {
		t.Fatalf("GetPlayer failed: %v", err)
	}
	if got.DefaultFee.String() != "0.3" {
		t.Errorf("DefaultFee = %s, want exactly 0.3", got.DefaultFee)
	}
}

func TestRestrictedDeleteIsForeignKeyError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	player := storagetest.MustPlayer(t, store, "t1", "Kept", "1", "10")
	period := storagetest.MustPeriod(t, store, "t1", 2024, 2)
	storagetest.MustRecord(t, store, period, player)

	err := store.DeletePlayer(ctx, "t1", player.ID)
	var cerr *storage.ConstraintError
	if !errors.As(err, &cerr) {
		t.Fatalf("DeletePlayer error = %v, want *storage.ConstraintError", err)
	}
	if cerr.Kind != storage.ConstraintForeignKey {
		t.Errorf("Kind = %v, want ConstraintForeignKey", cerr.Kind)
	}
	if cerr.Constraint != "monthly_records.player_id" {
		t.Errorf("Constraint = %q, want monthly_records.player_id", cerr.Constraint)
	}

	if _, err := store.GetPlayer(ctx, "t1", player.ID); err != nil {
		t.Errorf("GetPlayer after rejected delete failed: %v", err)
	}
}

func TestDSN(t *testing.T) {
	got := dsn("/tmp/dues.db", Options{})
	for _, want := range []string{"/tmp/dues.db?", "foreign_keys%281%29", "busy_timeout%285000%29", "_txlock=immediate"} {
		if !strings.Contains(got, want) {
			t.Errorf("dsn %q missing %q", got, want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
