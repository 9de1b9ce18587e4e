package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duesbook/internal/models"
)

// AddPlayersResult reports the outcome of AddPlayersToPeriod.
type AddPlayersResult struct {
	Records          []*models.MonthlyRecord
	AddedCount       int
	ExpectedIncrease decimal.Decimal
	Period           *models.Period
}

// RecordResult is a monthly record together with its recomputed period.
type RecordResult struct {
	Record *models.MonthlyRecord
	Period *models.Period
}

// CasualResult is a casual record together with its recomputed period.
type CasualResult struct {
	Record *models.CasualRecord
	Period *models.Period
}

// AddPlayersToPeriod snapshots the given roster players into the period with a
// pending status. Either every player is added or none is.
func (l *Ledger) AddPlayersToPeriod(ctx context.Context, tenantID, periodID string, playerIDs []string) (*AddPlayersResult, error) {
	ids := dedupe(playerIDs)
	if len(ids) == 0 {
		return nil, invalid("player_ids", "at least one player is required")
	}

	var result *AddPlayersResult
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		period, err := u.q.GetPeriod(ctx, tenantID, periodID)
		if err != nil {
			return err
		}

		players, err := u.q.GetPlayersByIDs(ctx, tenantID, ids)
		if err != nil {
			return err
		}
		var missing, inactive []string
		for _, id := range ids {
			p, ok := players[id]
			switch {
			case !ok:
				missing = append(missing, id)
			case !p.Active:
				inactive = append(inactive, p.Name)
			}
		}
		if len(missing) > 0 {
			return invalid("player_ids", "players not found: %s", strings.Join(missing, ", "))
		}
		if len(inactive) > 0 {
			return invalid("player_ids", "players are not active: %s", strings.Join(inactive, ", "))
		}

		existing, err := u.q.ListMonthlyRecords(ctx, tenantID, periodID, models.RecordFilter{})
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(existing))
		for _, r := range existing {
			present[r.PlayerID] = true
		}
		var dup []string
		for _, id := range ids {
			if present[id] {
				dup = append(dup, players[id].Name)
			}
		}
		if len(dup) > 0 {
			return &ConflictError{
				Field:   "player_ids",
				Message: "players are already in this period",
				Names:   dup,
			}
		}

		now := l.now()
		result = &AddPlayersResult{ExpectedIncrease: decimal.Zero}
		for _, id := range ids {
			record, err := models.NewMonthlyRecord(period, players[id], now)
			if err != nil {
				return err
			}
			if err := u.q.CreateMonthlyRecord(ctx, record); err != nil {
				return err
			}
			result.Records = append(result.Records, record)
			result.ExpectedIncrease = result.ExpectedIncrease.Add(record.EffectiveFee())
			u.touch(id)
		}
		result.AddedCount = len(result.Records)

		for _, record := range result.Records {
			count, err := recomputePendingCount(ctx, u.q, tenantID, record.PlayerID, period)
			if err != nil {
				return err
			}
			record.PendingMonthsCount = count
		}

		result.Period, err = l.recomputeTotals(ctx, u, periodID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Players added to period",
		"tenant_id", tenantID,
		"period_id", periodID,
		"added", result.AddedCount,
	)
	return result, nil
}

// AddCasualPlayer charges an ad-hoc participant in the period.
func (l *Ledger) AddCasualPlayer(ctx context.Context, tenantID, periodID string, f models.CasualFields) (*CasualResult, error) {
	var result *CasualResult
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		period, err := u.q.GetPeriod(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		record, err := models.NewCasualRecord(period, f, l.now())
		if err != nil {
			return err
		}
		if err := u.q.CreateCasualRecord(ctx, record); err != nil {
			return err
		}
		updated, err := l.recomputeTotals(ctx, u, periodID)
		if err != nil {
			return err
		}
		result = &CasualResult{Record: record, Period: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PaymentUpdate selects a monthly record and its new payment state. The
// record is addressed by RecordID, or by PeriodID and PlayerID.
type PaymentUpdate struct {
	PeriodID    string
	PlayerID    string
	RecordID    string
	Status      string
	PaymentDate *time.Time
}

// SetPaymentStatus moves a monthly record through the payment state machine,
// recomputes the period totals and refreshes the player's pending counts.
func (l *Ledger) SetPaymentStatus(ctx context.Context, tenantID string, cmd PaymentUpdate) (*RecordResult, error) {
	status, err := models.ParsePaymentStatus(cmd.Status)
	if err != nil {
		return nil, translate(err)
	}
	if cmd.RecordID == "" && (cmd.PeriodID == "" || cmd.PlayerID == "") {
		return nil, invalid("record_id", "record_id or period_id and player_id are required")
	}

	var result *RecordResult
	err = l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		record, err := findMonthlyRecord(ctx, u, cmd.RecordID, cmd.PeriodID, cmd.PlayerID)
		if err != nil {
			return err
		}

		now := l.now()
		record.Transition(status, cmd.PaymentDate, now)
		record.UpdatedAt = now.Unix()
		if err := u.q.UpdateMonthlyRecord(ctx, record); err != nil {
			return err
		}

		period, err := u.q.GetPeriod(ctx, tenantID, record.PeriodID)
		if err != nil {
			return err
		}
		if record.PendingMonthsCount, err = recomputePendingCount(ctx, u.q, tenantID, record.PlayerID, period); err != nil {
			return err
		}
		u.touch(record.PlayerID)

		updated, err := l.recomputeTotals(ctx, u, record.PeriodID)
		if err != nil {
			return err
		}
		result = &RecordResult{Record: record, Period: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Payment status updated",
		"tenant_id", tenantID,
		"record_id", result.Record.ID,
		"status", status,
	)
	return result, nil
}

// SetCasualPaymentStatus moves a casual record through the payment state
// machine. When periodID is set the record must belong to it.
func (l *Ledger) SetCasualPaymentStatus(ctx context.Context, tenantID, periodID, recordID, status string, paymentDate *time.Time) (*CasualResult, error) {
	next, err := models.ParsePaymentStatus(status)
	if err != nil {
		return nil, translate(err)
	}

	var result *CasualResult
	err = l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		record, err := u.q.GetCasualRecord(ctx, tenantID, recordID)
		if err != nil {
			return err
		}
		if periodID != "" && record.PeriodID != periodID {
			return ErrNotFound
		}

		now := l.now()
		record.Transition(next, paymentDate, now)
		record.UpdatedAt = now.Unix()
		if err := u.q.UpdateCasualRecord(ctx, record); err != nil {
			return err
		}

		updated, err := l.recomputeTotals(ctx, u, record.PeriodID)
		if err != nil {
			return err
		}
		result = &CasualResult{Record: record, Period: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMonthlyRecords returns the period's monthly records ordered by player name.
func (l *Ledger) ListMonthlyRecords(ctx context.Context, tenantID, periodID string, filter models.RecordFilter) ([]*models.MonthlyRecord, error) {
	if filter.Status != "" {
		if _, err := models.ParsePaymentStatus(string(filter.Status)); err != nil {
			return nil, translate(err)
		}
	}
	var records []*models.MonthlyRecord
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPeriod(ctx, tenantID, periodID); err != nil {
			return err
		}
		var err error
		records, err = u.q.ListMonthlyRecords(ctx, tenantID, periodID, filter)
		return err
	})
	return records, err
}

// ListCasualRecords returns the period's casual records ordered by play date.
func (l *Ledger) ListCasualRecords(ctx context.Context, tenantID, periodID string) ([]*models.CasualRecord, error) {
	var records []*models.CasualRecord
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPeriod(ctx, tenantID, periodID); err != nil {
			return err
		}
		var err error
		records, err = u.q.ListCasualRecords(ctx, tenantID, periodID)
		return err
	})
	return records, err
}

// findMonthlyRecord resolves a record by ID, or by (period, player). A record
// ID that does not match the given period is reported as missing.
func findMonthlyRecord(ctx context.Context, u *unit, recordID, periodID, playerID string) (*models.MonthlyRecord, error) {
	if recordID != "" {
		record, err := u.q.GetMonthlyRecord(ctx, u.tenantID, recordID)
		if err != nil {
			return nil, err
		}
		if periodID != "" && record.PeriodID != periodID {
			return nil, ErrNotFound
		}
		if playerID != "" && record.PlayerID != playerID {
			return nil, ErrNotFound
		}
		return record, nil
	}
	if _, err := u.q.GetPeriod(ctx, u.tenantID, periodID); err != nil {
		return nil, err
	}
	record, err := u.q.GetMonthlyRecordByPlayer(ctx, u.tenantID, periodID, playerID)
	if err != nil {
		return nil, fmt.Errorf("player %s in period %s: %w", playerID, periodID, err)
	}
	return record, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
