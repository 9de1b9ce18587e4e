package calculator

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CashFlow is the money movement of one period: dues received minus expenses.
// It is a view over period totals and expenses and never feeds back into them.
type CashFlow struct {
	MonthlyReceived decimal.Decimal
	CasualReceived  decimal.Decimal
	Received        decimal.Decimal
	Expenses        decimal.Decimal
	Net             decimal.Decimal
}

// CalculateCashFlow combines received dues with the period's expense amounts.
func CalculateCashFlow(monthlyReceived, casualReceived decimal.Decimal, expenses []decimal.Decimal) CashFlow {
	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(e)
	}
	received := monthlyReceived.Add(casualReceived)
	return CashFlow{
		MonthlyReceived: monthlyReceived,
		CasualReceived:  casualReceived,
		Received:        received,
		Expenses:        spent,
		Net:             received.Sub(spent),
	}
}

// CollectionRate is received as a percentage of expected, rounded to two
// places. An empty period has a rate of zero.
func CollectionRate(expected, received decimal.Decimal) decimal.Decimal {
	if !expected.IsPositive() {
		return decimal.Zero
	}
	return received.Mul(hundred).DivRound(expected, 2)
}
