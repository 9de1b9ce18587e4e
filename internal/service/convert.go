package service

import (
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/duesbook/internal/calculator"
	"github.com/mmynk/duesbook/internal/ledger"
	"github.com/mmynk/duesbook/internal/models"
)

func toPlayer(p *models.Player) *Player {
	return &Player{
		ID:         p.ID,
		Name:       p.Name,
		Phone:      p.Phone,
		Email:      p.Email,
		Position:   p.Position,
		DefaultFee: p.DefaultFee.StringFixed(2),
		JoinDate:   p.JoinDate.Format(models.DateLayout),
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPeriod(p *models.Period) *Period {
	if p == nil {
		return nil
	}
	return &Period{
		ID:            p.ID,
		Year:          p.Year,
		Month:         p.Month,
		Name:          p.Name,
		Status:        string(p.Status),
		TotalExpected: p.TotalExpected.StringFixed(2),
		TotalReceived: p.TotalReceived.StringFixed(2),
		PlayersCount:  p.PlayersCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toMonthlyRecord(r *models.MonthlyRecord) *MonthlyRecord {
	out := &MonthlyRecord{
		ID:                 r.ID,
		PeriodID:           r.PeriodID,
		PlayerID:           r.PlayerID,
		PlayerName:         r.PlayerName,
		Phone:              r.Phone,
		Email:              r.Email,
		Position:           r.Position,
		DefaultFee:         r.DefaultFee.StringFixed(2),
		EffectiveFee:       r.EffectiveFee().StringFixed(2),
		Status:             string(r.Status),
		PaymentDate:        formatDatePtr(r.PaymentDate),
		PendingMonthsCount: r.PendingMonthsCount,
	}
	if r.CustomFee.Valid {
		fee := r.CustomFee.Decimal.StringFixed(2)
		out.CustomFee = &fee
	}
	return out
}

func toCasualRecord(r *models.CasualRecord) *CasualRecord {
	return &CasualRecord{
		ID:          r.ID,
		PeriodID:    r.PeriodID,
		PlayerName:  r.PlayerName,
		PlayDate:    r.PlayDate.Format(models.DateLayout),
		InvitedBy:   r.InvitedBy,
		Amount:      r.Amount.StringFixed(2),
		Status:      string(r.Status),
		PaymentDate: formatDatePtr(r.PaymentDate),
	}
}

func toExpense(e *models.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		PeriodID:    e.PeriodID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Category:    string(e.Category),
		Date:        e.Date.Format(models.DateLayout),
	}
}

func toCashFlow(cf calculator.CashFlow) CashFlow {
	return CashFlow{
		MonthlyReceived: cf.MonthlyReceived.StringFixed(2),
		CasualReceived:  cf.CasualReceived.StringFixed(2),
		Received:        cf.Received.StringFixed(2),
		Expenses:        cf.Expenses.StringFixed(2),
		Net:             cf.Net.StringFixed(2),
	}
}

func toPeriodStats(s *ledger.PeriodStats) *PeriodStatsResponse {
	return &PeriodStatsResponse{
		PeriodID:       s.PeriodID,
		TotalPlayers:   s.TotalPlayers,
		Paid:           s.Paid,
		Pending:        s.Pending,
		Overdue:        s.Overdue,
		CasualCount:    s.CasualCount,
		TotalExpected:  s.TotalExpected.StringFixed(2),
		TotalReceived:  s.TotalReceived.StringFixed(2),
		CollectionRate: s.CollectionRate.StringFixed(2),
	}
}

func toUser(u *models.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(models.DateLayout)
	return &s
}

// parseDecimal reads a money field. An empty string is zero.
func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, invalidArgument(field, field+" must be a decimal number")
	}
	return d, nil
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, invalidArgument(field, field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func parseDatePtr(field, s string) (*time.Time, error) {
	t, err := parseDate(field, s)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

func invalidArgument(field, message string) *connect.Error {
	err := connect.NewError(connect.CodeInvalidArgument, errors.New(message))
	err.Meta().Set(ErrorFieldHeader, field)
	return err
}
