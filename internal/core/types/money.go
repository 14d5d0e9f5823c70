// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in yen with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Rate is a fraction of a base amount (0.10 = 10%).
type Rate = decimal.Decimal

// NewMoney creates a Money value from an integer amount.
func NewMoney(v int64) Money {
	return decimal.NewFromInt(v)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewRatePercent converts a whole percentage (10) into a Rate (0.10).
func NewRatePercent(pct int64) Rate {
	return decimal.New(pct, -2)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// FloorMul returns floor(amount * rate).
func FloorMul(amount Money, rate Rate) Money {
	return amount.Mul(rate).Floor()
}
