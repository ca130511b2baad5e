package common

import "github.com/shopspring/decimal"

// Widen the default rounding precision used by decimal.Div (16 digits):
// a matching engine recomputes VWAP via division on every multi-level
// sweep, and §9 calls for a price representation under which equality
// is well-defined — division precision this generous makes a single
// rounding step for the final VWAP the only place precision can be lost
// at all.
func init() {
	decimal.DivisionPrecision = 34
}
