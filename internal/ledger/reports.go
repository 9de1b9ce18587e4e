package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duesbook/internal/calculator"
	"github.com/mmynk/duesbook/internal/models"
)

// PeriodStats summarizes the payment state of one period.
type PeriodStats struct {
	PeriodID     string
	TotalPlayers int
	Paid         int
	Pending      int
	Overdue      int
	CasualCount  int

	TotalExpected  decimal.Decimal
	TotalReceived  decimal.Decimal
	CollectionRate decimal.Decimal // percent, two decimal places
}

// PeriodCashFlow is the cash flow of a single period.
type PeriodCashFlow struct {
	PeriodID string
	Year     int
	Month    int
	Name     string
	calculator.CashFlow
}

// CashFlowSummary lists per-period cash flow, newest period first, plus the
// sum over all listed periods.
type CashFlowSummary struct {
	Periods []PeriodCashFlow
	Total   calculator.CashFlow
}

// PeriodStats counts the period's monthly records per status and reports the
// cached totals with the collection rate. Counts and totals come from one
// transaction.
func (l *Ledger) PeriodStats(ctx context.Context, tenantID, periodID string) (*PeriodStats, error) {
	var stats *PeriodStats
	err := l.readTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		period, err := u.q.GetPeriod(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		records, err := u.q.ListMonthlyRecords(ctx, tenantID, periodID, models.RecordFilter{})
		if err != nil {
			return err
		}
		casual, err := u.q.ListCasualRecords(ctx, tenantID, periodID)
		if err != nil {
			return err
		}

		stats = &PeriodStats{
			PeriodID:       period.ID,
			TotalPlayers:   len(records),
			CasualCount:    len(casual),
			TotalExpected:  period.TotalExpected,
			TotalReceived:  period.TotalReceived,
			CollectionRate: calculator.CollectionRate(period.TotalExpected, period.TotalReceived),
		}
		for _, r := range records {
			switch r.Status {
			case models.StatusPaid:
				stats.Paid++
			case models.StatusOverdue:
				stats.Overdue++
			default:
				stats.Pending++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// CashFlowSummary reports dues received minus expenses for every period
// matching filter. It reads records and expenses in one transaction and never
// writes period totals.
func (l *Ledger) CashFlowSummary(ctx context.Context, tenantID string, filter models.PeriodFilter) (*CashFlowSummary, error) {
	var summary *CashFlowSummary
	err := l.readTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		periods, err := u.q.ListPeriods(ctx, tenantID, filter)
		if err != nil {
			return err
		}

		summary = &CashFlowSummary{}
		var monthlyTotal, casualTotal decimal.Decimal
		var allExpenses []decimal.Decimal
		for _, p := range periods {
			flow, expenses, err := periodCashFlow(ctx, u, p)
			if err != nil {
				return err
			}
			summary.Periods = append(summary.Periods, PeriodCashFlow{
				PeriodID: p.ID,
				Year:     p.Year,
				Month:    p.Month,
				Name:     p.Name,
				CashFlow: flow,
			})
			monthlyTotal = monthlyTotal.Add(flow.MonthlyReceived)
			casualTotal = casualTotal.Add(flow.CasualReceived)
			allExpenses = append(allExpenses, expenses...)
		}
		summary.Total = calculator.CalculateCashFlow(monthlyTotal, casualTotal, allExpenses)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func periodCashFlow(ctx context.Context, u *unit, p *models.Period) (calculator.CashFlow, []decimal.Decimal, error) {
	records, err := u.q.ListMonthlyRecords(ctx, u.tenantID, p.ID, models.RecordFilter{Status: models.StatusPaid})
	if err != nil {
		return calculator.CashFlow{}, nil, err
	}
	casual, err := u.q.ListCasualRecords(ctx, u.tenantID, p.ID)
	if err != nil {
		return calculator.CashFlow{}, nil, err
	}
	expenses, err := u.q.ListExpenses(ctx, u.tenantID, p.ID)
	if err != nil {
		return calculator.CashFlow{}, nil, err
	}

	monthly := decimal.Zero
	for _, r := range records {
		monthly = monthly.Add(r.EffectiveFee())
	}
	casualReceived := decimal.Zero
	for _, r := range casual {
		if r.Status.Paid() {
			casualReceived = casualReceived.Add(r.Amount)
		}
	}
	amounts := make([]decimal.Decimal, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	return calculator.CalculateCashFlow(monthly, casualReceived, amounts), amounts, nil
}
