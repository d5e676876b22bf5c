package evmkit

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrAmountUnderflow is returned by Sub when the subtrahend exceeds the
// minuend, since Amount is defined as non-negative.
var ErrAmountUnderflow = errors.New("evmkit: amount subtraction would underflow")

// ErrDivideByZero is returned by the Div* operations.
var ErrDivideByZero = errors.New("evmkit: division by zero")

// Unit names a display denomination: a human name and the number of decimal
// places below the smallest wire unit (wei).
type Unit struct {
	Name     string
	Decimals uint
}

var (
	Wei   = Unit{Name: "wei", Decimals: 0}
	Gwei  = Unit{Name: "gwei", Decimals: 9}
	Ether = Unit{Name: "ether", Decimals: 18}
)

// Amount is a non-negative quantity denominated in wei (1 unit = 10^-18
// ether). The zero value represents zero wei.
type Amount struct {
	wei *big.Int
}

// NewAmount builds an Amount from a wei quantity, rejecting negative values.
func NewAmount(wei *big.Int) (Amount, error) {
	if wei.Sign() < 0 {
		return Amount{}, ErrNegative
	}
	return Amount{wei: new(big.Int).Set(wei)}, nil
}

// AmountFromUint64 builds an Amount from a u64 wei quantity.
func AmountFromUint64(wei uint64) Amount {
	return Amount{wei: new(big.Int).SetUint64(wei)}
}

// Wei returns the underlying quantity as wei. The returned value is a copy;
// mutating it does not affect the Amount.
func (a Amount) Wei() *big.Int {
	if a.wei == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.wei)
}

func (a Amount) bigInt() *big.Int {
	if a.wei == nil {
		return new(big.Int)
	}
	return a.wei
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{wei: new(big.Int).Add(a.bigInt(), b.bigInt())}
}

// Sub returns a - b, failing if the result would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	r := new(big.Int).Sub(a.bigInt(), b.bigInt())
	if r.Sign() < 0 {
		return Amount{}, ErrAmountUnderflow
	}
	return Amount{wei: r}, nil
}

// MulInt multiplies by an integer scalar. n must not be negative.
func (a Amount) MulInt(n int64) (Amount, error) {
	if n < 0 {
		return Amount{}, ErrNegative
	}
	return Amount{wei: new(big.Int).Mul(a.bigInt(), big.NewInt(n))}, nil
}

// MulRat multiplies by a decimal scalar expressed as a rational, rounding
// the result toward zero. r must not be negative.
func (a Amount) MulRat(r *big.Rat) (Amount, error) {
	if r.Sign() < 0 {
		return Amount{}, ErrNegative
	}
	prod := new(big.Rat).Mul(new(big.Rat).SetInt(a.bigInt()), r)
	return Amount{wei: quotientTowardZero(prod)}, nil
}

// DivInt divides by an integer scalar, rounding toward zero. Division by
// zero fails.
func (a Amount) DivInt(n int64) (Amount, error) {
	if n == 0 {
		return Amount{}, ErrDivideByZero
	}
	if n < 0 {
		return Amount{}, ErrNegative
	}
	// big.Int.Quo already truncates toward zero.
	return Amount{wei: new(big.Int).Quo(a.bigInt(), big.NewInt(n))}, nil
}

// DivRat divides by a decimal scalar expressed as a rational, rounding
// toward zero. Division by zero fails.
func (a Amount) DivRat(r *big.Rat) (Amount, error) {
	if r.Sign() == 0 {
		return Amount{}, ErrDivideByZero
	}
	if r.Sign() < 0 {
		return Amount{}, ErrNegative
	}
	quot := new(big.Rat).Quo(new(big.Rat).SetInt(a.bigInt()), r)
	return Amount{wei: quotientTowardZero(quot)}, nil
}

// quotientTowardZero truncates a rational to the integer part, toward zero.
// big.Rat carries no sign ambiguity here since all callers already reject
// negative operands, but Quo on a big.Int handles truncation correctly for
// both signs regardless.
func quotientTowardZero(r *big.Rat) *big.Int {
	q := new(big.Int).Quo(r.Num(), r.Denom())
	return q
}

// String returns the plain wei integer, with no unit suffix.
func (a Amount) String() string {
	return a.bigInt().String()
}

// Format renders the amount in the given unit as a decimal string. The
// underlying wei value is never altered by formatting.
func (a Amount) Format(u Unit) string {
	if u.Decimals == 0 {
		return fmt.Sprintf("%s %s", a.bigInt().String(), u.Name)
	}
	scale := new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(uint64(u.Decimals)), nil)
	whole, rem := new(big.Int).QuoRem(a.bigInt(), scale, new(big.Int))
	frac := rem.String()
	frac = strings.Repeat("0", int(u.Decimals)-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return fmt.Sprintf("%s %s", whole.String(), u.Name)
	}
	return fmt.Sprintf("%s.%s %s", whole.String(), frac, u.Name)
}
