package evmkit_test

import (
	"math/big"
	"testing"

	"github.com/go-evmkit/evmkit"
)

func TestMinimalBytesZero(t *testing.T) {
	b, err := evmkit.MinimalBytes(big.NewInt(0))
	if err != nil {
		t.Fatalf("MinimalBytes(0): %s", err)
	}
	if len(b) != 0 {
		t.Errorf("MinimalBytes(0) = %x, want empty slice", b)
	}
}

func TestMinimalBytesRejectsNegative(t *testing.T) {
	if _, err := evmkit.MinimalBytes(big.NewInt(-5)); err != evmkit.ErrNegative {
		t.Errorf("MinimalBytes(-5): got err %v, want ErrNegative", err)
	}
}

func TestMinimalBytesRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 127, 128, 255, 256, 1 << 20} {
		want := big.NewInt(v)
		b, err := evmkit.MinimalBytes(want)
		if err != nil {
			t.Fatalf("MinimalBytes(%d): %s", v, err)
		}
		got := evmkit.BigIntFromMinimalBytes(b)
		if got.Cmp(want) != 0 {
			t.Errorf("round trip of %d = %s", v, got)
		}
	}
}

func TestUint64MinimalBytes(t *testing.T) {
	if b := evmkit.Uint64ToMinimalBytes(0); len(b) != 0 {
		t.Errorf("Uint64ToMinimalBytes(0) = %x, want empty", b)
	}
	if got := evmkit.MinimalBytesToUint64(evmkit.Uint64ToMinimalBytes(21000)); got != 21000 {
		t.Errorf("round trip of 21000 = %d", got)
	}
}
