package domain

import "github.com/shopspring/decimal"

type Rounding int

const (
	RoundHalfEven Rounding = iota
	RoundDown
	RoundUp
)

var (
	decimalOne = decimal.NewFromInt(1)
	decimalTwo = decimal.NewFromInt(2)
)

// RoundToIncrement returns the multiple of increment nearest to value in the
// given direction. A non-positive increment leaves value untouched.
func RoundToIncrement(value, increment decimal.Decimal, rounding Rounding) decimal.Decimal {
	if !increment.IsPositive() {
		return value
	}

	quotient, remainder := value.QuoRem(increment, 0)

	switch rounding {
	case RoundDown:
		if remainder.IsNegative() {
			quotient = quotient.Sub(decimalOne)
		}
	case RoundUp:
		if remainder.IsPositive() {
			quotient = quotient.Add(decimalOne)
		}
	default:
		cmp := remainder.Abs().Mul(decimalTwo).Cmp(increment)
		isOdd := !quotient.Mod(decimalTwo).IsZero()
		if cmp > 0 || (cmp == 0 && isOdd) {
			if remainder.IsNegative() {
				quotient = quotient.Sub(decimalOne)
			} else {
				quotient = quotient.Add(decimalOne)
			}
		}
	}

	return quotient.Mul(increment)
}

// FavorableRounding rounds a price in the submitting side's favour:
// never above the reference for a buyer, never below it for a seller.
func FavorableRounding(side OrderSide) Rounding {
	if side == OrderSideSell {
		return RoundUp
	}
	return RoundDown
}

func IsMultipleOf(value, increment decimal.Decimal) bool {
	if !increment.IsPositive() {
		return false
	}
	_, remainder := value.QuoRem(increment, 0)
	return remainder.IsZero()
}
