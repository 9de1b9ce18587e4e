package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Charge is one record's contribution to a period: the effective fee of a
// monthly record or the amount of a casual record.
type Charge struct {
	Amount decimal.Decimal
	Paid   bool
}

// Totals are the cached aggregate fields of a period.
type Totals struct {
	Expected decimal.Decimal
	Received decimal.Decimal
}

// CalculateTotals sums every charge into Expected and the paid ones into Received.
// The result depends only on the multiset of charges, so recomputing from the
// same records always yields the same totals.
func CalculateTotals(charges []Charge) (Totals, error) {
	totals := Totals{Expected: decimal.Zero, Received: decimal.Zero}
	for i, c := range charges {
		if c.Amount.IsNegative() {
			return Totals{}, fmt.Errorf("charge %d has negative amount %s", i, c.Amount)
		}
		totals.Expected = totals.Expected.Add(c.Amount)
		if c.Paid {
			totals.Received = totals.Received.Add(c.Amount)
		}
	}
	return totals, nil
}
