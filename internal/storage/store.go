// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/duesbook/internal/models"
)

// Store defines the persistence contract for the ledger.
// This abstraction allows swapping storage backends (SQLite, in-memory, ...)
// without changing the ledger.
//
// Every lookup takes the caller's tenant ID and must filter on it: a row that
// exists under another tenant is reported as ErrNotFound, exactly like a
// missing row.
type Store interface {
	Queries

	// InTx runs fn inside a single transaction. Every write fn performs
	// through q is committed together when fn returns nil and rolled back
	// otherwise, including when ctx is cancelled.
	InTx(ctx context.Context, fn func(q Queries) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Queries is the set of operations available both on the store and inside a
// transaction.
type Queries interface {
	UserQueries
	PlayerQueries
	PeriodQueries
	RecordQueries
	ExpenseQueries
}

// UserQueries persists accounts.
type UserQueries interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error when no user matches.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// PlayerQueries persists the roster.
type PlayerQueries interface {
	// CreatePlayer assigns player.ID when empty. A duplicate phone within the
	// tenant is reported as a *ConstraintError.
	CreatePlayer(ctx context.Context, player *models.Player) error

	GetPlayer(ctx context.Context, tenantID, playerID string) (*models.Player, error)

	// GetPlayerByPhone returns ErrNotFound when the phone is free.
	GetPlayerByPhone(ctx context.Context, tenantID, phone string) (*models.Player, error)

	// GetPlayersByIDs returns the tenant's players among ids keyed by ID.
	// Unknown and foreign IDs are omitted.
	GetPlayersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]*models.Player, error)

	// ListPlayers returns players ordered by name.
	ListPlayers(ctx context.Context, tenantID string, filter models.PlayerFilter) ([]*models.Player, error)

	UpdatePlayer(ctx context.Context, player *models.Player) error

	// DeletePlayer fails with a *ConstraintError while records reference the player.
	DeletePlayer(ctx context.Context, tenantID, playerID string) error
}

// PeriodQueries persists billing periods.
type PeriodQueries interface {
	// CreatePeriod assigns period.ID when empty. A duplicate (tenant, year,
	// month) is reported as a *ConstraintError.
	CreatePeriod(ctx context.Context, period *models.Period) error

	GetPeriod(ctx context.Context, tenantID, periodID string) (*models.Period, error)

	// ListPeriods returns periods newest first.
	ListPeriods(ctx context.Context, tenantID string, filter models.PeriodFilter) ([]*models.Period, error)

	// UpdatePeriod writes every mutable column when period.Version still
	// matches the stored version, then increments period.Version. A stale
	// version yields ErrVersionConflict and writes nothing.
	UpdatePeriod(ctx context.Context, period *models.Period) error

	// DeletePeriod removes the period together with its monthly, casual and
	// expense records.
	DeletePeriod(ctx context.Context, tenantID, periodID string) error
}

// RecordQueries persists monthly and casual records.
type RecordQueries interface {
	// CreateMonthlyRecord assigns record.ID when empty. A second record for
	// the same (tenant, player, period) is reported as a *ConstraintError.
	CreateMonthlyRecord(ctx context.Context, record *models.MonthlyRecord) error

	GetMonthlyRecord(ctx context.Context, tenantID, recordID string) (*models.MonthlyRecord, error)

	GetMonthlyRecordByPlayer(ctx context.Context, tenantID, periodID, playerID string) (*models.MonthlyRecord, error)

	// ListMonthlyRecords returns the period's records ordered by player name.
	ListMonthlyRecords(ctx context.Context, tenantID, periodID string, filter models.RecordFilter) ([]*models.MonthlyRecord, error)

	// ListPlayerHistory returns every monthly record of the player across the
	// tenant's periods, ordered by (year, month).
	ListPlayerHistory(ctx context.Context, tenantID, playerID string) ([]*PlayerRecord, error)

	// CountPlayerRecords counts the player's monthly records across periods.
	CountPlayerRecords(ctx context.Context, tenantID, playerID string) (int, error)

	UpdateMonthlyRecord(ctx context.Context, record *models.MonthlyRecord) error

	// SetPendingMonthsCount updates only the accumulator column.
	SetPendingMonthsCount(ctx context.Context, tenantID, recordID string, count int) error

	CreateCasualRecord(ctx context.Context, record *models.CasualRecord) error

	GetCasualRecord(ctx context.Context, tenantID, recordID string) (*models.CasualRecord, error)

	// ListCasualRecords returns the period's casual records ordered by play date.
	ListCasualRecords(ctx context.Context, tenantID, periodID string) ([]*models.CasualRecord, error)

	UpdateCasualRecord(ctx context.Context, record *models.CasualRecord) error
}

// ExpenseQueries persists expenses.
type ExpenseQueries interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, tenantID, expenseID string) (*models.Expense, error)

	// ListExpenses returns the period's expenses ordered by date.
	ListExpenses(ctx context.Context, tenantID, periodID string) ([]*models.Expense, error)

	UpdateExpense(ctx context.Context, expense *models.Expense) error

	DeleteExpense(ctx context.Context, tenantID, expenseID string) error
}

// PlayerRecord is a monthly record joined with its period's calendar month.
type PlayerRecord struct {
	RecordID string
	PeriodID string
	Year     int
	Month    int
	Status   models.PaymentStatus
	Pending  int
}
