package assetv1

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/muhammadchandra19/token-exchange/pkg/safemath"
	"github.com/shopspring/decimal"
)

// Tokens converts a whole-token count into base units at Decimals precision.
func Tokens(n uint64) *uint256.Int {
	unit, _ := safemath.Pow10(Decimals)
	// n < 2^64 and unit = 10^18, so the product always fits in 256 bits
	return new(uint256.Int).Mul(uint256.NewInt(n), unit)
}

// ToBaseUnits scales a whole-token amount by 10^decimals.
func ToBaseUnits(whole *uint256.Int, decimals uint8) (*uint256.Int, error) {
	unit, err := safemath.Pow10(decimals)
	if err != nil {
		return nil, err
	}
	return safemath.Mul(whole, unit)
}

// ParseUnits parses a human amount such as "12.5" into base units.
// More fractional digits than decimals is an error, never a silent truncation.
func ParseUnits(s string, decimals uint8) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("parse amount %q: negative", s)
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("parse amount %q: more than %d decimal places", s, decimals)
	}

	v, err := uint256.FromDecimal(scaled.Truncate(0).String())
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

// FormatUnits renders base units as a human amount, e.g. 1.5e18 -> "1.5".
func FormatUnits(v *uint256.Int, decimals uint8) string {
	d, err := decimal.NewFromString(safemath.OrZero(v).Dec())
	if err != nil {
		return safemath.OrZero(v).Dec()
	}
	return d.Shift(-int32(decimals)).String()
}
