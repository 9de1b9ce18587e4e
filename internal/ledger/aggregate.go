package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/duesbook/internal/calculator"
	"github.com/mmynk/duesbook/internal/metrics"
	"github.com/mmynk/duesbook/internal/models"
)

// RecomputeTotals rebuilds the period's cached totals and player count from
// its current monthly and casual records. Running it again without changes in
// between yields the same period.
func (l *Ledger) RecomputeTotals(ctx context.Context, tenantID, periodID string) (*models.Period, error) {
	var period *models.Period
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		var err error
		period, err = l.recomputeTotals(ctx, u, periodID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// recomputeTotals is the authoritative aggregate: a full pass over the
// children, never a delta. The period row is written under its version check.
func (l *Ledger) recomputeTotals(ctx context.Context, u *unit, periodID string) (period *models.Period, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRecompute(time.Since(start), err)
		if err != nil {
			l.logger.Debug("Recompute failed",
				"tenant_id", u.tenantID,
				"period_id", periodID,
				"error", err,
			)
		}
	}()

	period, err = u.q.GetPeriod(ctx, u.tenantID, periodID)
	if err != nil {
		return nil, err
	}

	monthly, err := u.q.ListMonthlyRecords(ctx, u.tenantID, periodID, models.RecordFilter{})
	if err != nil {
		return nil, err
	}
	casual, err := u.q.ListCasualRecords(ctx, u.tenantID, periodID)
	if err != nil {
		return nil, err
	}

	charges := make([]calculator.Charge, 0, len(monthly)+len(casual))
	for _, r := range monthly {
		charges = append(charges, calculator.Charge{Amount: r.EffectiveFee(), Paid: r.Status.Paid()})
	}
	for _, r := range casual {
		charges = append(charges, calculator.Charge{Amount: r.Amount, Paid: r.Status.Paid()})
	}
	totals, err := calculator.CalculateTotals(charges)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate totals for period %s: %w", periodID, err)
	}

	period.TotalExpected = totals.Expected
	period.TotalReceived = totals.Received
	period.PlayersCount = len(monthly)
	period.UpdatedAt = l.now().Unix()
	if err := u.q.UpdatePeriod(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}
