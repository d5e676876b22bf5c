// Package rlp implements the canonical Recursive Length Prefix encoding
// used to serialize the byte strings and nested lists that make up an EVM
// transaction's signing image and wire form.
package rlp

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNegativeInteger is returned when encoding a negative integer; RLP has
// no representation for negative values.
var ErrNegativeInteger = errors.New("rlp: negative integers are not representable")

// List is an ordered sequence of RLP items, itself encoded as a single list
// item. Its elements may be []byte, a nested List, *big.Int, or uint64.
type List []any

// EncodeValue encodes v, which must be []byte, *big.Int, uint64, a
// non-negative int, a 20-byte address as [20]byte, nil (the empty
// string), a List, or []any (treated the same as List). It returns the canonical byte-string
// or list encoding defined by the length-prefix rules.
func EncodeValue(v any) ([]byte, error) {
	switch o := v.(type) {
	case []byte:
		return encodeBytes(o), nil
	case [20]byte:
		return encodeBytes(o[:]), nil
	case *big.Int:
		return encodeBigInt(o)
	case uint64:
		return encodeUint64(o), nil
	case int:
		if o < 0 {
			return nil, ErrNegativeInteger
		}
		return encodeUint64(uint64(o)), nil
	case List:
		return encodeList([]any(o))
	case []any:
		return encodeList(o)
	case nil:
		return []byte{0x80}, nil
	default:
		return nil, fmt.Errorf("rlp: unsupported type %T", v)
	}
}

// encodeBytes applies the byte-string rules of the length-prefix table: a
// single byte below 0x80 is its own encoding; strings of length <= 55 get a
// single length-prefix byte; longer strings get a length-of-length prefix.
func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	return concat(encodeLength(len(b), 0x80), b)
}

// encodeBigInt encodes a non-negative integer as its minimal big-endian byte
// string, with zero encoding as the empty string per the RLP integer-zero
// rule.
func encodeBigInt(v *big.Int) ([]byte, error) {
	if v == nil || v.Sign() == 0 {
		return []byte{0x80}, nil
	}
	if v.Sign() < 0 {
		return nil, ErrNegativeInteger
	}
	return encodeBytes(v.Bytes()), nil
}

// encodeUint64 encodes a u64 the same way, zero becoming the empty string.
func encodeUint64(v uint64) []byte {
	if v == 0 {
		return []byte{0x80}
	}
	return encodeBytes(minimalUint64Bytes(v))
}

// encodeList encodes each item in order and wraps the concatenation with the
// list length-prefix rule. Items are concatenated sequentially, never
// nested inside one another's length fields.
func encodeList(items []any) ([]byte, error) {
	encoded := make([][]byte, len(items))
	total := 0
	for i, item := range items {
		e, err := EncodeValue(item)
		if err != nil {
			return nil, err
		}
		encoded[i] = e
		total += len(e)
	}
	content := make([]byte, 0, total)
	for _, e := range encoded {
		content = append(content, e...)
	}
	return concat(encodeLength(len(content), 0xc0), content), nil
}

// encodeLength produces the length-prefix byte(s) for the given payload
// length and base offset (0x80 for strings, 0xc0 for lists).
func encodeLength(length int, offset byte) []byte {
	if length < 56 {
		return []byte{offset + byte(length)}
	}
	lenBytes := minimalUint64Bytes(uint64(length))
	return append([]byte{offset + 55 + byte(len(lenBytes))}, lenBytes...)
}

func minimalUint64Bytes(v uint64) []byte {
	if v == 0 {
		return nil
	}
	n := 0
	for x := v; x > 0; x >>= 8 {
		n++
	}
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

func concat(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
