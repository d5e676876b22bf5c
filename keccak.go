package evmkit

import (
	"github.com/KarpelesLab/cryptutil"
	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the original Keccak-f[1600] sponge digest (padding
// 0x01...0x80) over buf, not the NIST SHA-3 variant (which pads 0x06...0x80).
// golang.org/x/crypto/sha3.NewLegacyKeccak256 implements the original
// submission, which is what every EVM chain actually hashes with.
func Keccak256(buf ...[]byte) Hash {
	var h Hash
	copy(h[:], cryptutil.Hash(joinBytes(buf), sha3.NewLegacyKeccak256))
	return h
}

func joinBytes(parts [][]byte) []byte {
	if len(parts) == 1 {
		return parts[0]
	}
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
