package service

import (
	"github.com/shopspring/decimal"
)

const suffixes = " KMGTPE"

// FormatCycles renders a cycle amount with a metric suffix, rounding down:
// 1234567 becomes "1 MC" and 999 stays "999 C".
func FormatCycles(cycles decimal.Decimal) string {
	sign := ""
	if cycles.IsNegative() {
		sign = "-"
		cycles = cycles.Abs()
	}
	whole := cycles.Floor()
	exponent := (len(whole.String()) - 1) / 3
	if exponent >= len(suffixes) {
		exponent = len(suffixes) - 1
	}
	human := whole.Shift(int32(-3 * exponent)).Floor()
	if exponent == 0 {
		return sign + human.String() + " C"
	}
	return sign + human.String() + " " + string(suffixes[exponent]) + "C"
}
