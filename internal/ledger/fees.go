package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duesbook/internal/models"
)

// BulkReviseResult reports the outcome of BulkReviseDefaultFee.
type BulkReviseResult struct {
	Period       *models.Period
	UpdatedCount int
}

// SetCustomFee overrides the record's fee for its period. The snapshot default
// fee is kept so ClearCustomFee can restore it.
func (l *Ledger) SetCustomFee(ctx context.Context, tenantID, recordID string, fee decimal.Decimal) (*RecordResult, error) {
	return l.mutateRecord(ctx, tenantID, recordID, func(r *models.MonthlyRecord, now time.Time) error {
		return r.SetCustomFee(fee, now)
	})
}

// ClearCustomFee makes the record's default fee effective again.
func (l *Ledger) ClearCustomFee(ctx context.Context, tenantID, recordID string) (*RecordResult, error) {
	return l.mutateRecord(ctx, tenantID, recordID, func(r *models.MonthlyRecord, now time.Time) error {
		r.ClearCustomFee(now)
		return nil
	})
}

// BulkReviseDefaultFee sets the default fee of every monthly record in the
// period that has no custom fee, then recomputes the totals. Overridden
// records keep their custom fee.
func (l *Ledger) BulkReviseDefaultFee(ctx context.Context, tenantID, periodID string, fee decimal.Decimal) (*BulkReviseResult, error) {
	if !fee.IsPositive() {
		return nil, invalid("fee", "fee must be greater than 0")
	}

	var result *BulkReviseResult
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPeriod(ctx, tenantID, periodID); err != nil {
			return err
		}
		records, err := u.q.ListMonthlyRecords(ctx, tenantID, periodID, models.RecordFilter{})
		if err != nil {
			return err
		}

		now := l.now().Unix()
		updated := 0
		for _, r := range records {
			if r.CustomFee.Valid {
				continue
			}
			r.DefaultFee = fee
			r.UpdatedAt = now
			if err := u.q.UpdateMonthlyRecord(ctx, r); err != nil {
				return err
			}
			updated++
		}

		period, err := l.recomputeTotals(ctx, u, periodID)
		if err != nil {
			return err
		}
		result = &BulkReviseResult{Period: period, UpdatedCount: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Default fee revised",
		"tenant_id", tenantID,
		"period_id", periodID,
		"updated", result.UpdatedCount,
	)
	return result, nil
}

func (l *Ledger) mutateRecord(ctx context.Context, tenantID, recordID string, mutate func(*models.MonthlyRecord, time.Time) error) (*RecordResult, error) {
	var result *RecordResult
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		record, err := u.q.GetMonthlyRecord(ctx, tenantID, recordID)
		if err != nil {
			return err
		}
		if err := mutate(record, l.now()); err != nil {
			return err
		}
		if err := u.q.UpdateMonthlyRecord(ctx, record); err != nil {
			return err
		}
		period, err := l.recomputeTotals(ctx, u, record.PeriodID)
		if err != nil {
			return err
		}
		result = &RecordResult{Record: record, Period: period}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
