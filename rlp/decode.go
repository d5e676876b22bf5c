package rlp

import (
	"fmt"
	"io"
	"math/big"
)

// Decode parses buf as a single top-level RLP item and returns it wrapped in
// a one-element slice: []byte for a byte string, []any for a list, matching
// the shape produced when re-encoding with EncodeValue. This mirrors the
// "decode a whole transaction" call shape where the caller already knows the
// top level is a single list.
func Decode(buf []byte) ([]any, error) {
	item, rest, err := decodeItem(buf)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("rlp: %d trailing bytes after top-level item", len(rest))
	}
	return []any{item}, nil
}

// decodeItem decodes a single item from the front of buf and returns the
// decoded value along with the unconsumed remainder.
func decodeItem(buf []byte) (any, []byte, error) {
	if len(buf) == 0 {
		return nil, nil, io.ErrUnexpectedEOF
	}
	b0 := buf[0]
	switch {
	case b0 < 0x80:
		return []byte{b0}, buf[1:], nil
	case b0 <= 0xb7:
		n := int(b0 - 0x80)
		if len(buf) < 1+n {
			return nil, nil, io.ErrUnexpectedEOF
		}
		return append([]byte{}, buf[1:1+n]...), buf[1+n:], nil
	case b0 <= 0xbf:
		lenOfLen := int(b0 - 0xb7)
		if len(buf) < 1+lenOfLen {
			return nil, nil, io.ErrUnexpectedEOF
		}
		n := int(decodeLengthField(buf[1 : 1+lenOfLen]))
		start := 1 + lenOfLen
		if len(buf) < start+n {
			return nil, nil, io.ErrUnexpectedEOF
		}
		return append([]byte{}, buf[start:start+n]...), buf[start+n:], nil
	case b0 <= 0xf7:
		n := int(b0 - 0xc0)
		if len(buf) < 1+n {
			return nil, nil, io.ErrUnexpectedEOF
		}
		items, err := decodeList(buf[1 : 1+n])
		if err != nil {
			return nil, nil, err
		}
		return items, buf[1+n:], nil
	default:
		lenOfLen := int(b0 - 0xf7)
		if len(buf) < 1+lenOfLen {
			return nil, nil, io.ErrUnexpectedEOF
		}
		n := int(decodeLengthField(buf[1 : 1+lenOfLen]))
		start := 1 + lenOfLen
		if len(buf) < start+n {
			return nil, nil, io.ErrUnexpectedEOF
		}
		items, err := decodeList(buf[start : start+n])
		if err != nil {
			return nil, nil, err
		}
		return items, buf[start+n:], nil
	}
}

// decodeList decodes every item packed into a list's payload.
func decodeList(buf []byte) ([]any, error) {
	items := make([]any, 0, 4)
	for len(buf) > 0 {
		item, rest, err := decodeItem(buf)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		buf = rest
	}
	return items, nil
}

func decodeLengthField(b []byte) uint64 {
	return new(big.Int).SetBytes(b).Uint64()
}

// DecodeUint64 interprets a decoded byte string as a big-endian u64, the
// empty string decoding as zero.
func DecodeUint64(b []byte) uint64 {
	return new(big.Int).SetBytes(b).Uint64()
}

// DecodeBigInt interprets a decoded byte string as a non-negative big.Int.
func DecodeBigInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
