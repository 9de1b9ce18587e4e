package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewMonthlyRecord(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	period := &Period{ID: "p1", TenantID: "t1"}

	t.Run("snapshots the player", func(t *testing.T) {
		player := &Player{ID: "a", TenantID: "t1", Name: "A", Phone: "1", Active: true, DefaultFee: decimal.NewFromInt(100)}
		r, err := NewMonthlyRecord(period, player, now)
		if err != nil {
			t.Fatalf("NewMonthlyRecord failed: %v", err)
		}
		if r.PlayerName != "A" || !r.DefaultFee.Equal(decimal.NewFromInt(100)) {
			t.Errorf("unexpected snapshot: %+v", r)
		}
		if r.Payment.Status != StatusPending {
			t.Errorf("Status = %s, want pending", r.Payment.Status)
		}
	})

	tests := []struct {
		name   string
		player *Player
	}{
		{"player from another account", &Player{ID: "b", TenantID: "t2", Name: "B", Active: true}},
		{"inactive player", &Player{ID: "c", TenantID: "t1", Name: "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMonthlyRecord(period, tt.player, now)
			var ferr *FieldError
			if !errors.As(err, &ferr) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if ferr.Field != "player_ids" {
				t.Errorf("Field = %q, want player_ids", ferr.Field)
			}
		})
	}
}
