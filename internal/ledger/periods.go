package ledger

import (
	"context"

	"github.com/mmynk/duesbook/internal/models"
)

// CreatePeriod opens an empty period for (year, month). Name defaults to "MM/YYYY".
func (l *Ledger) CreatePeriod(ctx context.Context, tenantID string, year, month int, name string) (*models.Period, error) {
	period, err := models.NewPeriod(tenantID, year, month, name, l.now())
	if err != nil {
		return nil, translate(err)
	}

	err = l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		existing, err := u.q.ListPeriods(ctx, tenantID, models.PeriodFilter{Year: year, Month: month})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &ConflictError{Field: "month", Message: "a period for this month already exists"}
		}
		return u.q.CreatePeriod(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Period created",
		"tenant_id", tenantID,
		"period_id", period.ID,
		"year", year,
		"month", month,
	)
	return period, nil
}

// GetPeriod returns one of the tenant's periods with its cached totals.
func (l *Ledger) GetPeriod(ctx context.Context, tenantID, periodID string) (*models.Period, error) {
	var period *models.Period
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		var err error
		period, err = u.q.GetPeriod(ctx, tenantID, periodID)
		return err
	})
	return period, err
}

// ListPeriods returns the tenant's periods, newest first.
func (l *Ledger) ListPeriods(ctx context.Context, tenantID string, filter models.PeriodFilter) ([]*models.Period, error) {
	var periods []*models.Period
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		var err error
		periods, err = u.q.ListPeriods(ctx, tenantID, filter)
		return err
	})
	return periods, err
}

// SetPeriodStatus opens or closes a period.
func (l *Ledger) SetPeriodStatus(ctx context.Context, tenantID, periodID, status string) (*models.Period, error) {
	next, err := models.ParsePeriodStatus(status)
	if err != nil {
		return nil, translate(err)
	}

	var period *models.Period
	err = l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		var err error
		period, err = u.q.GetPeriod(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		if period.Status == next {
			return nil
		}
		period.Status = next
		period.UpdatedAt = l.now().Unix()
		return u.q.UpdatePeriod(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// DeletePeriod removes the period with all of its monthly, casual and expense
// records. Pending counts of the period's players are refreshed.
func (l *Ledger) DeletePeriod(ctx context.Context, tenantID, periodID string) error {
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPeriod(ctx, tenantID, periodID); err != nil {
			return err
		}
		records, err := u.q.ListMonthlyRecords(ctx, tenantID, periodID, models.RecordFilter{})
		if err != nil {
			return err
		}
		for _, r := range records {
			u.touch(r.PlayerID)
		}
		return u.q.DeletePeriod(ctx, tenantID, periodID)
	})
	if err != nil {
		return err
	}

	l.logger.Info("Period deleted", "tenant_id", tenantID, "period_id", periodID)
	return nil
}

// ListAvailablePlayers returns the active players not yet in the period.
func (l *Ledger) ListAvailablePlayers(ctx context.Context, tenantID, periodID string) ([]*models.Player, error) {
	var available []*models.Player
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPeriod(ctx, tenantID, periodID); err != nil {
			return err
		}
		active := true
		players, err := u.q.ListPlayers(ctx, tenantID, models.PlayerFilter{Active: &active})
		if err != nil {
			return err
		}
		records, err := u.q.ListMonthlyRecords(ctx, tenantID, periodID, models.RecordFilter{})
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(records))
		for _, r := range records {
			present[r.PlayerID] = true
		}
		for _, p := range players {
			if !present[p.ID] {
				available = append(available, p)
			}
		}
		return nil
	})
	return available, err
}
