package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

var statuses = []string{"pending", "paid", "overdue"}

// checkAggregate recomputes the period totals from its children and compares
// them with the cached values.
func checkAggregate(t *testing.T, l *Ledger, tenantID, periodID string) {
	t.Helper()
	ctx := context.Background()
	period, err := l.GetPeriod(ctx, tenantID, periodID)
	if err != nil {
		t.Fatalf("GetPeriod failed: %v", err)
	}
	monthly, err := l.ListMonthlyRecords(ctx, tenantID, periodID, models.RecordFilter{})
	if err != nil {
		t.Fatalf("ListMonthlyRecords failed: %v", err)
	}
	casual, err := l.ListCasualRecords(ctx, tenantID, periodID)
	if err != nil {
		t.Fatalf("ListCasualRecords failed: %v", err)
	}

	expected, received := decimal.Zero, decimal.Zero
	for _, r := range monthly {
		expected = expected.Add(r.EffectiveFee())
		if r.Status.Paid() {
			received = received.Add(r.EffectiveFee())
		}
	}
	for _, r := range casual {
		expected = expected.Add(r.Amount)
		if r.Status.Paid() {
			received = received.Add(r.Amount)
		}
	}

	if !period.TotalExpected.Equal(expected) || !period.TotalReceived.Equal(received) {
		t.Fatalf("cached totals %s/%s, children sum to %s/%s",
			period.TotalExpected, period.TotalReceived, expected, received)
	}
	if period.PlayersCount != len(monthly) {
		t.Fatalf("players_count = %d, want %d", period.PlayersCount, len(monthly))
	}
}

func randomFee(r *rand.Rand) decimal.Decimal {
	return decimal.New(r.Int64N(20000), -2)
}

func TestAggregateInvariantUnderRandomOperations(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42, 1234} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			eachStore(t, func(t *testing.T, s storage.Store) {
				runRandomOperations(t, s, seed, 60)
			})
		})
	}
}

func runRandomOperations(t *testing.T, s storage.Store, seed uint64, steps int) {
	ctx := context.Background()
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	l := newLedger(s)

	var players []*models.Player
	for i := 0; i < 6; i++ {
		players = append(players, mustCreatePlayer(t, l, "u", fmt.Sprintf("P%d", i), fmt.Sprintf("%03d", i), randomFee(r).String()))
	}
	var periods []*models.Period
	for month := 1; month <= 3; month++ {
		periods = append(periods, mustCreatePeriod(t, l, "u", 2024, month))
	}

	for step := 0; step < steps; step++ {
		period := periods[r.IntN(len(periods))]
		records, err := l.ListMonthlyRecords(ctx, "u", period.ID, models.RecordFilter{})
		if err != nil {
			t.Fatalf("ListMonthlyRecords failed: %v", err)
		}
		casual, err := l.ListCasualRecords(ctx, "u", period.ID)
		if err != nil {
			t.Fatalf("ListCasualRecords failed: %v", err)
		}

		var op string
		switch n := r.IntN(7); {
		case n == 0 || len(records) == 0:
			op = "add"
			p := players[r.IntN(len(players))]
			_, err = l.AddPlayersToPeriod(ctx, "u", period.ID, []string{p.ID})
			var dup *ConflictError
			if errors.As(err, &dup) {
				err = nil
			}
		case n == 1:
			op = "status"
			rec := records[r.IntN(len(records))]
			_, err = l.SetPaymentStatus(ctx, "u", PaymentUpdate{RecordID: rec.ID, Status: statuses[r.IntN(len(statuses))]})
		case n == 2:
			op = "custom_fee"
			_, err = l.SetCustomFee(ctx, "u", records[r.IntN(len(records))].ID, randomFee(r))
		case n == 3:
			op = "clear_fee"
			_, err = l.ClearCustomFee(ctx, "u", records[r.IntN(len(records))].ID)
		case n == 4:
			op = "bulk_revise"
			_, err = l.BulkReviseDefaultFee(ctx, "u", period.ID, randomFee(r).Add(decimal.New(1, -2)))
		case n == 5 || len(casual) == 0:
			op = "casual"
			_, err = l.AddCasualPlayer(ctx, "u", period.ID, models.CasualFields{
				PlayerName: fmt.Sprintf("Guest %d", step),
				Amount:     randomFee(r).Add(decimal.New(1, -2)),
			})
		default:
			op = "casual_status"
			rec := casual[r.IntN(len(casual))]
			_, err = l.SetCasualPaymentStatus(ctx, "u", period.ID, rec.ID, statuses[r.IntN(len(statuses))], nil)
		}
		if err != nil {
			t.Fatalf("step %d %s failed: %v", step, op, err)
		}

		checkAggregate(t, l, "u", period.ID)
	}

	for _, p := range periods {
		checkAggregate(t, l, "u", p.ID)
	}
}
