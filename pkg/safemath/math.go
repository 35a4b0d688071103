// Package safemath performs checked 256-bit unsigned arithmetic. Every
// operation reports overflow or underflow as an arithmetic_overflow error
// instead of wrapping.
package safemath

import (
	"github.com/holiman/uint256"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
)

// ErrOverflow is the sentinel matched by every failed operation in this package.
var ErrOverflow = errors.NewErrorDetails("arithmetic overflow", errors.ArithmeticOverflow.String(), "")

// Add returns a+b as a new value.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, errors.NewErrorDetails("addition overflows 256 bits", errors.ArithmeticOverflow.String(), "amount")
	}
	return z, nil
}

// Sub returns a-b as a new value.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, errors.NewErrorDetails("subtraction underflows zero", errors.ArithmeticOverflow.String(), "amount")
	}
	return z, nil
}

// Mul returns a*b as a new value.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, errors.NewErrorDetails("multiplication overflows 256 bits", errors.ArithmeticOverflow.String(), "amount")
	}
	return z, nil
}

// Sum adds every value, failing on the first overflow.
func Sum(values ...*uint256.Int) (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, v := range values {
		var err error
		if total, err = Add(total, v); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Pow10 returns 10^n. n above 77 overflows.
func Pow10(n uint8) (*uint256.Int, error) {
	result := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := uint8(0); i < n; i++ {
		var err error
		if result, err = Mul(result, ten); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// OrZero returns v, or a fresh zero when v is nil.
func OrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
