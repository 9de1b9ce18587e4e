package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

const expenseColumns = `id, tenant_id, period_id, description, amount, category, date, created_at, updated_at`

// CreateExpense persists a new expense, generating its ID if not set.
func (q *queries) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TenantID, e.PeriodID, e.Description, e.Amount, string(e.Category),
		formatDate(e.Date), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", mapError(err, "expenses.period_id"))
	}
	return nil
}

// GetExpense retrieves an expense by ID within the tenant.
func (q *queries) GetExpense(ctx context.Context, tenantID, expenseID string) (*models.Expense, error) {
	e, err := scanExpense(q.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE tenant_id = ? AND id = ?`,
		tenantID, expenseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns a period's expenses ordered by date.
func (q *queries) ListExpenses(ctx context.Context, tenantID, periodID string) ([]*models.Expense, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE tenant_id = ? AND period_id = ?
		 ORDER BY date, created_at, id`,
		tenantID, periodID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense writes the expense's mutable columns.
func (q *queries) UpdateExpense(ctx context.Context, e *models.Expense) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, category = ?, date = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		e.Description, e.Amount, string(e.Category), formatDate(e.Date), e.UpdatedAt,
		e.TenantID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return requireAffected(res)
}

// DeleteExpense removes an expense.
func (q *queries) DeleteExpense(ctx context.Context, tenantID, expenseID string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE tenant_id = ? AND id = ?`,
		tenantID, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(res)
}

func scanExpense(row scanner) (*models.Expense, error) {
	e := &models.Expense{}
	var category, date string
	err := row.Scan(
		&e.ID, &e.TenantID, &e.PeriodID, &e.Description, &e.Amount, &category, &date,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	e.Category = models.ExpenseCategory(category)
	return e, nil
}
