package evmkit

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash is a 32-byte digest, such as a transaction hash or an event topic.
type Hash [32]byte

// HashFromBytes builds a Hash from a 32-byte slice.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != 32 {
		return h, fmt.Errorf("evmkit: hash must be 32 bytes, got %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// ParseHash parses a "0x"-prefixed 64-hex-character hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 64 {
		return h, fmt.Errorf("evmkit: hash hex must be 64 characters, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("evmkit: invalid hash hex: %w", err)
	}
	copy(h[:], b)
	return h, nil
}

// Bytes returns a copy of the raw 32 bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, h[:])
	return out
}

// IsZero reports whether the hash is all zero bytes.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the "0x"-prefixed hex form.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}
