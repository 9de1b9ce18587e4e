package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies money spent during a period.
type ExpenseCategory string

const (
	CategoryEquipment      ExpenseCategory = "equipment"
	CategoryFieldRental    ExpenseCategory = "field_rental"
	CategoryReferee        ExpenseCategory = "referee"
	CategoryTransportation ExpenseCategory = "transportation"
	CategoryFood           ExpenseCategory = "food"
	CategoryMedical        ExpenseCategory = "medical"
	CategoryMaintenance    ExpenseCategory = "maintenance"
	CategoryOther          ExpenseCategory = "other"
)

// ExpenseCategories lists every accepted category.
var ExpenseCategories = []ExpenseCategory{
	CategoryEquipment, CategoryFieldRental, CategoryReferee, CategoryTransportation,
	CategoryFood, CategoryMedical, CategoryMaintenance, CategoryOther,
}

// ParseExpenseCategory validates s against ExpenseCategories.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	for _, c := range ExpenseCategories {
		if string(c) == s {
			return c, nil
		}
	}
	names := make([]string, len(ExpenseCategories))
	for i, c := range ExpenseCategories {
		names[i] = string(c)
	}
	return "", fieldErr("category", "category must be one of: %s", strings.Join(names, ", "))
}

// Expense is an outflow recorded against a period. Expenses are not dues and
// never contribute to Period totals.
type Expense struct {
	ID       string
	TenantID string
	PeriodID string

	Description string
	Amount      decimal.Decimal
	Category    ExpenseCategory
	Date        time.Time

	CreatedAt int64
	UpdatedAt int64
}

// ExpenseFields carries the user-supplied attributes of an expense.
type ExpenseFields struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
}

// NewExpense validates f and attaches the expense to period.
// A zero Date defaults to the day of now.
func NewExpense(period *Period, f ExpenseFields, now time.Time) (*Expense, error) {
	e := &Expense{
		TenantID:  period.TenantID,
		PeriodID:  period.ID,
		CreatedAt: now.Unix(),
	}
	if err := e.apply(f, now); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the user-supplied attributes. The expense is unchanged when
// an error is returned.
func (e *Expense) Update(f ExpenseFields, now time.Time) error {
	next := *e
	if err := next.apply(f, now); err != nil {
		return err
	}
	*e = next
	return nil
}

func (e *Expense) apply(f ExpenseFields, now time.Time) error {
	desc, err := requireText("description", f.Description, 200)
	if err != nil {
		return err
	}
	if !f.Amount.IsPositive() {
		return fieldErr("amount", "amount must be greater than 0")
	}
	category, err := ParseExpenseCategory(f.Category)
	if err != nil {
		return err
	}
	date := f.Date
	if date.IsZero() {
		date = now
	}
	e.Description = desc
	e.Amount = f.Amount
	e.Category = category
	e.Date = Day(date)
	e.UpdatedAt = now.Unix()
	return nil
}
