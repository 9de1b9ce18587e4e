package ledger

import (
	"context"

	"github.com/mmynk/duesbook/internal/models"
)

// AddExpense records money spent during the period. Expenses do not change
// the period totals.
func (l *Ledger) AddExpense(ctx context.Context, tenantID, periodID string, f models.ExpenseFields) (*models.Expense, error) {
	var expense *models.Expense
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		period, err := u.q.GetPeriod(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		expense, err = models.NewExpense(period, f, l.now())
		if err != nil {
			return err
		}
		return u.q.CreateExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense replaces the expense's description, amount, category and date.
func (l *Ledger) UpdateExpense(ctx context.Context, tenantID, expenseID string, f models.ExpenseFields) (*models.Expense, error) {
	var expense *models.Expense
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		var err error
		expense, err = u.q.GetExpense(ctx, tenantID, expenseID)
		if err != nil {
			return err
		}
		if err := expense.Update(f, l.now()); err != nil {
			return err
		}
		return u.q.UpdateExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense.
func (l *Ledger) DeleteExpense(ctx context.Context, tenantID, expenseID string) error {
	return l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		return u.q.DeleteExpense(ctx, tenantID, expenseID)
	})
}

// ListExpenses returns the period's expenses ordered by date.
func (l *Ledger) ListExpenses(ctx context.Context, tenantID, periodID string) ([]*models.Expense, error) {
	var expenses []*models.Expense
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPeriod(ctx, tenantID, periodID); err != nil {
			return err
		}
		var err error
		expenses, err = u.q.ListExpenses(ctx, tenantID, periodID)
		return err
	})
	return expenses, err
}
