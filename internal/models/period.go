package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus marks whether a period still accepts new records.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "open"
	PeriodClosed PeriodStatus = "closed"
)

// ParsePeriodStatus validates s against the known period statuses.
func ParsePeriodStatus(s string) (PeriodStatus, error) {
	switch PeriodStatus(s) {
	case PeriodOpen, PeriodClosed:
		return PeriodStatus(s), nil
	}
	return "", fieldErr("status", "status must be one of: open, closed")
}

const (
	minPeriodYear = 2000
	maxPeriodYear = 2100
)

// Period is one billing month for a tenant.
//
// TotalExpected, TotalReceived and PlayersCount are a cache over the period's
// monthly and casual records. Only the aggregation routine writes them.
type Period struct {
	// ID is the unique identifier for the period (UUID format).
	ID string

	// TenantID is the account that owns this period.
	TenantID string

	// Year and Month identify the period; unique per tenant.
	Year  int
	Month int

	// Name defaults to "MM/YYYY".
	Name string

	// Status is open or closed.
	Status PeriodStatus

	// TotalExpected is the sum of effective fees and casual amounts.
	TotalExpected decimal.Decimal

	// TotalReceived is TotalExpected restricted to paid records.
	TotalReceived decimal.Decimal

	// PlayersCount is the number of monthly records.
	PlayersCount int

	// Version is bumped on every write and checked on update.
	Version int64

	// CreatedAt is the Unix timestamp when the period was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// NewPeriod validates year and month and returns an empty, open period.
func NewPeriod(tenantID string, year, month int, name string, now time.Time) (*Period, error) {
	if month < 1 || month > 12 {
		return nil, fieldErr("month", "month must be between 1 and 12")
	}
	if year < minPeriodYear || year > maxPeriodYear {
		return nil, fieldErr("year", "year must be between %d and %d", minPeriodYear, maxPeriodYear)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("%02d/%d", month, year)
	}
	if len(name) > 50 {
		return nil, fieldErr("name", "name must be at most 50 characters")
	}
	return &Period{
		TenantID:      tenantID,
		Year:          year,
		Month:         month,
		Name:          name,
		Status:        PeriodOpen,
		TotalExpected: decimal.Zero,
		TotalReceived: decimal.Zero,
		CreatedAt:     now.Unix(),
		UpdatedAt:     now.Unix(),
	}, nil
}

// Ordinal maps (year, month) onto a monotonically increasing integer.
func (p *Period) Ordinal() int {
	return PeriodOrdinal(p.Year, p.Month)
}

// PeriodOrdinal maps (year, month) onto a monotonically increasing integer.
func PeriodOrdinal(year, month int) int {
	return year*12 + (month - 1)
}

// PeriodFilter narrows ListPeriods. Zero values match everything.
type PeriodFilter struct {
	Year   int
	Month  int
	Status PeriodStatus
}
