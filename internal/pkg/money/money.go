package money

import "github.com/shopspring/decimal"

// Monetary amounts and day/hour balances carry 2 decimal places. All
// comparisons and persisted writes go through Round2 so repeated small
// mutations cannot drift.
const AmountScale = 2

// Round2 normalizes a currency/day/hour amount to 2 decimal places,
// rounding half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}
