package evmkit_test

import (
	"math/big"
	"testing"

	"github.com/go-evmkit/evmkit"
)

func TestAmountArithmetic(t *testing.T) {
	a := evmkit.AmountFromUint64(100)
	b := evmkit.AmountFromUint64(40)

	sum := a.Add(b)
	if sum.Wei().Cmp(big.NewInt(140)) != 0 {
		t.Errorf("Add = %s, want 140", sum)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %s", err)
	}
	if diff.Wei().Cmp(big.NewInt(60)) != 0 {
		t.Errorf("Sub = %s, want 60", diff)
	}

	if _, err := b.Sub(a); err != evmkit.ErrAmountUnderflow {
		t.Errorf("Sub underflow: got err %v, want ErrAmountUnderflow", err)
	}

	prod, err := a.MulInt(3)
	if err != nil {
		t.Fatalf("MulInt: %s", err)
	}
	if prod.Wei().Cmp(big.NewInt(300)) != 0 {
		t.Errorf("MulInt = %s, want 300", prod)
	}

	quot, err := a.DivInt(3)
	if err != nil {
		t.Fatalf("DivInt: %s", err)
	}
	if quot.Wei().Cmp(big.NewInt(33)) != 0 {
		t.Errorf("DivInt should round toward zero: got %s, want 33", quot)
	}

	if _, err := a.DivInt(0); err != evmkit.ErrDivideByZero {
		t.Errorf("DivInt(0): got err %v, want ErrDivideByZero", err)
	}
}

func TestAmountFormat(t *testing.T) {
	oneEther := evmkit.AmountFromUint64(1_000_000_000_000_000_000)
	if got := oneEther.Format(evmkit.Ether); got != "1 ether" {
		t.Errorf("Format(Ether) = %q, want %q", got, "1 ether")
	}

	half, err := evmkit.NewAmount(big.NewInt(500_000_000_000_000_000))
	if err != nil {
		t.Fatalf("NewAmount: %s", err)
	}
	if got := half.Format(evmkit.Ether); got != "0.5 ether" {
		t.Errorf("Format(Ether) = %q, want %q", got, "0.5 ether")
	}

	// Formatting never alters the underlying wei value.
	_ = oneEther.Format(evmkit.Gwei)
	if oneEther.Wei().Cmp(big.NewInt(1_000_000_000_000_000_000)) != 0 {
		t.Error("Format must not mutate the Amount")
	}
}

func TestNewAmountRejectsNegative(t *testing.T) {
	if _, err := evmkit.NewAmount(big.NewInt(-1)); err != evmkit.ErrNegative {
		t.Errorf("NewAmount(-1): got err %v, want ErrNegative", err)
	}
}
