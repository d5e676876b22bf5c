package evmkit

import (
	"errors"
	"math/big"
)

// ErrNegative is returned wherever a negative integer is presented where the
// wire format requires an unsigned value.
var ErrNegative = errors.New("evmkit: negative integer not representable on the wire")

// MinimalBytes converts a non-negative big.Int to its minimal big-endian byte
// representation: no leading zero byte, and zero itself becomes the empty
// slice. Converting a native integer to wire bytes must go through this
// function rather than big.Int.Bytes() being assumed equivalent everywhere,
// since the distinction is meant to be explicit at the call site.
func MinimalBytes(v *big.Int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, ErrNegative
	}
	if v.Sign() == 0 {
		return []byte{}, nil
	}
	return v.Bytes(), nil
}

// BigIntFromMinimalBytes converts a minimal big-endian byte sequence back to
// a big.Int. It does not reject non-minimal input (a leading zero byte);
// canonicity is enforced by the RLP layer, not here, since this conversion
// alone is lossless either way.
func BigIntFromMinimalBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// Uint64ToMinimalBytes converts a u64 to its minimal big-endian form, with
// zero encoding as the empty slice.
func Uint64ToMinimalBytes(v uint64) []byte {
	if v == 0 {
		return []byte{}
	}
	return new(big.Int).SetUint64(v).Bytes()
}

// MinimalBytesToUint64 decodes a minimal big-endian byte sequence as a u64.
// The empty slice decodes as zero.
func MinimalBytesToUint64(b []byte) uint64 {
	return new(big.Int).SetBytes(b).Uint64()
}
