package ledger

import (
	"context"

	"github.com/mmynk/duesbook/internal/calculator"
	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/pending"
	"github.com/mmynk/duesbook/internal/storage"
)

// RecomputePendingCount counts the player's unpaid months up to and including
// the as-of period and stores the count on the player's record in that period,
// when there is one.
func (l *Ledger) RecomputePendingCount(ctx context.Context, tenantID, playerID, asOfPeriodID string) (int, error) {
	var count int
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPlayer(ctx, tenantID, playerID); err != nil {
			return err
		}
		period, err := u.q.GetPeriod(ctx, tenantID, asOfPeriodID)
		if err != nil {
			return err
		}
		count, err = recomputePendingCount(ctx, u.q, tenantID, playerID, period)
		return err
	})
	return count, err
}

// RefreshPendingCounts recomputes every pending count of the player. It is the
// batched cascade run after a payment change and is safe to repeat.
func (l *Ledger) RefreshPendingCounts(ctx context.Context, tenantID, playerID string) error {
	return l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPlayer(ctx, tenantID, playerID); err != nil {
			return err
		}
		return l.refreshPendingCounts(ctx, u.q, tenantID, playerID)
	})
}

// PendingDues returns the player's unpaid month count as of a period. Any
// queued cascade for the player is applied first so stored counts agree with
// the returned value.
func (l *Ledger) PendingDues(ctx context.Context, tenantID, playerID, asOfPeriodID string) (int, error) {
	if l.queue != nil && tenantID != "" {
		if err := l.queue.FlushKey(ctx, pending.Key{TenantID: tenantID, PlayerID: playerID}); err != nil {
			return 0, translate(err)
		}
	}

	var count int
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPlayer(ctx, tenantID, playerID); err != nil {
			return err
		}
		period, err := u.q.GetPeriod(ctx, tenantID, asOfPeriodID)
		if err != nil {
			return err
		}
		history, err := u.q.ListPlayerHistory(ctx, tenantID, playerID)
		if err != nil {
			return err
		}
		count = calculator.PendingCount(monthStatuses(history), period.Year, period.Month)
		return nil
	})
	return count, err
}

func recomputePendingCount(ctx context.Context, q storage.Queries, tenantID, playerID string, asOf *models.Period) (int, error) {
	history, err := q.ListPlayerHistory(ctx, tenantID, playerID)
	if err != nil {
		return 0, err
	}
	count := calculator.PendingCount(monthStatuses(history), asOf.Year, asOf.Month)
	for _, h := range history {
		if h.PeriodID == asOf.ID && h.Pending != count {
			if err := q.SetPendingMonthsCount(ctx, tenantID, h.RecordID, count); err != nil {
				return 0, err
			}
		}
	}
	return count, nil
}

func (l *Ledger) refreshPendingCounts(ctx context.Context, q storage.Queries, tenantID, playerID string) error {
	history, err := q.ListPlayerHistory(ctx, tenantID, playerID)
	if err != nil {
		return err
	}
	counts := calculator.RunningPendingCounts(monthStatuses(history))
	updated := 0
	for i, h := range history {
		if h.Pending == counts[i] {
			continue
		}
		if err := q.SetPendingMonthsCount(ctx, tenantID, h.RecordID, counts[i]); err != nil {
			return err
		}
		updated++
	}
	if updated > 0 {
		l.logger.Debug("Pending counts refreshed",
			"tenant_id", tenantID,
			"player_id", playerID,
			"updated", updated,
		)
	}
	return nil
}

func monthStatuses(history []*storage.PlayerRecord) []calculator.MonthStatus {
	out := make([]calculator.MonthStatus, len(history))
	for i, h := range history {
		out[i] = calculator.MonthStatus{Year: h.Year, Month: h.Month, Paid: h.Status.Paid()}
	}
	return out
}
