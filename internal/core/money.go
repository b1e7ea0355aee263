// Package core holds the subscription ledger domain types.
//
// Prices are kept as integer cents; decimal.Decimal is used only where a
// non-integer factor is applied (see Money.MulRatio).
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is prefixed to every rendered amount.
const CurrencySymbol = "€"

// MaxPriceCents is the largest accepted monthly price, € 1,000,000.00.
//
// With every price at most this value, monthly and yearly totals stay inside
// int64 for any ledger below ~7.6 billion subscriptions.
const MaxPriceCents int64 = 100_000_000

// ParseDecimalToCents converts a user-entered price to cents.
//
// Dot and comma separators are both accepted ("21.90", "21,90"). Digits past
// the second decimal are rounded half-up on the third. Zero is a valid price;
// signs, exponents, NaN/Inf spellings, anything non-numeric and amounts above
// MaxPriceCents are rejected.
//
//	ParseDecimalToCents("45.90")  -> 4590, nil
//	ParseDecimalToCents("0")      -> 0, nil
//	ParseDecimalToCents("1.005")  -> 101, nil
//	ParseDecimalToCents("-3")     -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || s == "." {
		return 0, ErrInvalidAmount
	}

	whole, frac, _ := strings.Cut(s, ".")
	if strings.Contains(frac, ".") || !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > MaxPriceCents/100 {
		return 0, ErrInvalidAmount
	}

	var cents int64
	for i := 0; i < 2 && i < len(frac); i++ {
		cents = cents*10 + int64(frac[i]-'0')
	}
	if len(frac) == 1 {
		cents *= 10
	}
	if len(frac) > 2 && frac[2] >= '5' {
		cents++
	}
	total := units*100 + cents
	if total > MaxPriceCents {
		return 0, ErrInvalidAmount
	}
	return total, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MoneyFromDecimal rounds d to cents (half away from zero).
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Mul(n int64) Money {
	return Money{Cents: m.Cents * n}
}

// MulRatio multiplies by a non-integer factor and rounds back to cents.
func (m Money) MulRatio(r decimal.Decimal) Money {
	return MoneyFromDecimal(m.Decimal().Mul(r))
}

// String renders the amount with the currency symbol and two decimals, e.g. "€ 45.90".
func (m Money) String() string {
	return CurrencySymbol + " " + m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}
