package evmkit

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/BottleFmt/gobottle"
	"golang.org/x/crypto/sha3"
)

// Address is a 20-byte EVM account or contract identifier. The zero Go value
// is the Empty state (distinct from the all-zero Zero address): a default,
// never-set Address and the twenty-zero-byte Address are both valid but
// semantically distinct, per the data model's three address states.
type Address struct {
	raw [20]byte
	set bool
}

// ZeroAddress is the all-zero, but present, address.
var ZeroAddress = Address{set: true}

// NewAddress builds a present Address from exactly 20 bytes.
func NewAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != 20 {
		return a, fmt.Errorf("evmkit: address must be 20 bytes, got %d", len(b))
	}
	copy(a.raw[:], b)
	a.set = true
	return a, nil
}

// ParseAddress parses a "0x"-prefixed 40-hex-character address, validating
// the EIP-55 checksum when the input is mixed case. All-lowercase or
// all-uppercase input bypasses the checksum check, matching the parser
// discretion allowed by the checksum rule.
func ParseAddress(s string) (Address, error) {
	var a Address
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return a, errors.New("evmkit: address must be 42 characters long and start with 0x")
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return a, fmt.Errorf("evmkit: invalid address hex: %w", err)
	}
	if h := s[2:]; h != strings.ToLower(h) && h != strings.ToUpper(h) {
		if s != eip55Checksum(data) {
			return a, errors.New("evmkit: bad checksum on address")
		}
	}
	copy(a.raw[:], data)
	a.set = true
	return a, nil
}

// IsEmpty reports whether the address was never set (the default value).
func (a Address) IsEmpty() bool {
	return !a.set
}

// IsZero reports whether the address is present and all-zero.
func (a Address) IsZero() bool {
	return a.set && a.raw == [20]byte{}
}

// IsContractCreation reports whether this address signals contract creation
// when used as a transaction recipient: either never set or all-zero bytes.
func (a Address) IsContractCreation() bool {
	return a.IsEmpty() || a.IsZero()
}

// Bytes returns the raw 20 bytes. An empty address returns nil.
func (a Address) Bytes() []byte {
	if a.IsEmpty() {
		return nil
	}
	out := make([]byte, 20)
	copy(out, a.raw[:])
	return out
}

// String returns the EIP-55 checksummed display form. An empty address
// renders as the empty string since it has no byte representation.
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	return eip55Checksum(a.raw[:])
}

// eip55Checksum implements the checksum rule of §6: hash the 40 lowercase
// hex characters as ASCII, and uppercase each character whose corresponding
// hash nibble is strictly greater than 7.
func eip55Checksum(in []byte) string {
	buf := make([]byte, hex.EncodedLen(len(in))+2)
	buf[0] = '0'
	buf[1] = 'x'
	hex.Encode(buf[2:], in)
	a := buf[2:]

	hash := gobottle.Hash(a, sha3.NewLegacyKeccak256)

	for i := range a {
		hashByte := hash[i/2]
		if i%2 == 0 {
			hashByte = hashByte >> 4
		} else {
			hashByte &= 0xf
		}
		if a[i] > '9' && hashByte > 7 {
			a[i] -= 32
		}
	}
	return string(buf)
}
