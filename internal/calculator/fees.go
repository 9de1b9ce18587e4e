// Package calculator holds the money arithmetic behind period totals, the
// pending-dues count and the cash-flow view. It has no storage or model
// dependencies so every rule can be tested in isolation.
package calculator

import "github.com/shopspring/decimal"

// EffectiveFee returns the fee actually owed: the custom override when set,
// the default fee otherwise.
func EffectiveFee(defaultFee decimal.Decimal, custom decimal.NullDecimal) decimal.Decimal {
	if custom.Valid {
		return custom.Decimal
	}
	return defaultFee
}
