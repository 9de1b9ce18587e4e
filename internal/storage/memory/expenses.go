package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

func copyExpense(e *models.Expense) *models.Expense {
	c := *e
	return &c
}

// CreateExpense stores a new expense under an existing period.
func (q *queries) CreateExpense(ctx context.Context, e *models.Expense) error {
	defer q.write()()

	if _, ok := q.period(e.TenantID, e.PeriodID); !ok {
		return &storage.ConstraintError{Kind: storage.ConstraintForeignKey, Constraint: "expenses.period_id"}
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	q.d.expenses[e.ID] = copyExpense(e)
	return nil
}

func (q *queries) expense(tenantID, expenseID string) (*models.Expense, bool) {
	e, ok := q.d.expenses[expenseID]
	if !ok || e.TenantID != tenantID {
		return nil, false
	}
	return e, true
}

// GetExpense returns a copy of the tenant's expense.
func (q *queries) GetExpense(ctx context.Context, tenantID, expenseID string) (*models.Expense, error) {
	defer q.read()()

	e, ok := q.expense(tenantID, expenseID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyExpense(e), nil
}

// ListExpenses returns a period's expenses ordered by date.
func (q *queries) ListExpenses(ctx context.Context, tenantID, periodID string) ([]*models.Expense, error) {
	defer q.read()()

	var expenses []*models.Expense
	for _, e := range q.d.expenses {
		if e.TenantID == tenantID && e.PeriodID == periodID {
			expenses = append(expenses, copyExpense(e))
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return byDate(expenses[i].Date, expenses[j].Date,
			expenses[i].CreatedAt, expenses[j].CreatedAt, expenses[i].ID, expenses[j].ID)
	})
	return expenses, nil
}

// UpdateExpense replaces the stored expense.
func (q *queries) UpdateExpense(ctx context.Context, e *models.Expense) error {
	defer q.write()()

	stored, ok := q.expense(e.TenantID, e.ID)
	if !ok {
		return storage.ErrNotFound
	}
	next := copyExpense(e)
	next.PeriodID, next.CreatedAt = stored.PeriodID, stored.CreatedAt
	q.d.expenses[e.ID] = next
	return nil
}

// DeleteExpense removes an expense.
func (q *queries) DeleteExpense(ctx context.Context, tenantID, expenseID string) error {
	defer q.write()()

	if _, ok := q.expense(tenantID, expenseID); !ok {
		return storage.ErrNotFound
	}
	delete(q.d.expenses, expenseID)
	return nil
}
