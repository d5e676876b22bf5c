// Package abi implements the EVM contract ABI encoding used to build call
// data: the static/dynamic head-and-tail layout, the uint256 word format,
// and the 4-byte function selector prefix.
package abi

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/go-evmkit/evmkit"
)

var big2pow256 = new(big.Int).SetBit(new(big.Int), 256, 1)

type abiString struct {
	offset int
	data   []byte
}

// Buffer is a builder for EVM ABI-encoded call data. It supports encoding
// uint256, address, bytes, and string parameters, and finishing the
// encoding with a 4-byte method selector.
type Buffer struct {
	buf []byte
	str []*abiString
}

// NewBuffer returns a new Buffer initialized with the given head bytes.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{buf: buf}
}

// EncodeAuto encodes a sequence of Go values into whatever ABI
// representation matches their type: *big.Int and integers become
// uint256, evmkit.Address becomes address, and strings/[]byte become
// bytes.
func (buf *Buffer) EncodeAuto(params ...any) error {
	for _, param := range params {
		switch o := param.(type) {
		case int:
			if err := buf.AppendBigInt(new(big.Int).SetInt64(int64(o))); err != nil {
				return err
			}
		case int64:
			if err := buf.AppendBigInt(new(big.Int).SetInt64(o)); err != nil {
				return err
			}
		case uint64:
			if err := buf.AppendBigInt(new(big.Int).SetUint64(o)); err != nil {
				return err
			}
		case *big.Int:
			if err := buf.AppendBigInt(o); err != nil {
				return err
			}
		case []byte:
			buf.AppendBytes(o)
		case string:
			buf.AppendBytes([]byte(o))
		case evmkit.Address:
			if err := buf.AppendAddressAny(o); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported value type %T", o)
		}
	}
	return nil
}

// EncodeSignature takes a method signature such as
// "transfer(address,uint256)" as its first argument and a matching number
// of parameters.
func (buf *Buffer) EncodeSignature(signature string, params ...any) error {
	pos := strings.IndexByte(signature, '(')
	if pos == -1 {
		return errors.New("abi: invalid signature (no opening parenthesis)")
	}
	if !strings.HasSuffix(signature, ")") {
		return errors.New("abi: invalid signature (no closing parenthesis)")
	}
	inner := signature[pos+1 : len(signature)-1]
	if inner == "" {
		return buf.EncodeTypes(nil, params...)
	}
	return buf.EncodeTypes(strings.Split(inner, ","), params...)
}

// EncodeTypes encodes params according to the given ABI type strings.
// Supported types are "uint", "uint8", "uint16", "uint32", "uint64",
// "uint128", "uint256", "bytes1", "bytes2", "bytes4", "bytes8", "bytes16",
// "bytes32", "bool", "address", "bytes", and "string"; any other type
// string is an error.
func (buf *Buffer) EncodeTypes(types []string, params ...any) error {
	if len(types) != len(params) {
		return errors.New("abi: wrong number of arguments")
	}
	for n, t := range types {
		switch t {
		case "uint", "uint8", "uint16", "uint32", "uint64", "uint128", "uint256",
			"bytes1", "bytes2", "bytes4", "bytes8", "bytes16", "bytes32", "bool":
			if err := buf.AppendUint256Any(params[n]); err != nil {
				return err
			}
		case "address":
			if err := buf.AppendAddressAny(params[n]); err != nil {
				return err
			}
		case "bytes", "string":
			if err := buf.AppendBufferAny(params[n]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("abi: unsupported type %q", t)
		}
	}
	return nil
}

// AppendBigInt appends a big.Int value as a 32-byte word. Negative values
// are encoded as their two's-complement uint256 representation.
func (buf *Buffer) AppendBigInt(v *big.Int) error {
	var word [32]byte
	if v.Sign() < 0 {
		v = new(big.Int).Add(big2pow256, v)
		if v.Sign() <= 0 {
			return errors.New("abi: big.Int value exceeds negative 256 bits")
		}
	}
	if v.Cmp(big2pow256) >= 0 {
		return errors.New("abi: big.Int value exceeds 256 bits")
	}
	v.FillBytes(word[:])
	buf.buf = append(buf.buf, word[:]...)
	return nil
}

// AppendBytes adds a dynamic byte buffer: a 32-byte offset placeholder in
// the head, backed by a length-prefixed, zero-padded entry in the tail.
func (buf *Buffer) AppendBytes(v []byte) {
	var placeholder [32]byte
	pos := len(buf.buf)
	buf.buf = append(buf.buf, placeholder[:]...)

	var lenWord [32]byte
	new(big.Int).SetUint64(uint64(len(v))).FillBytes(lenWord[:])
	buf.str = append(buf.str, &abiString{offset: pos, data: append(lenWord[:], v...)})
}

// AppendUint256Any appends v as a uint256-style parameter. Supported Go
// types are bool, int, uint64, and *big.Int.
func (buf *Buffer) AppendUint256Any(v any) error {
	switch o := v.(type) {
	case bool:
		if o {
			return buf.AppendBigInt(big.NewInt(1))
		}
		return buf.AppendBigInt(big.NewInt(0))
	case int:
		return buf.AppendBigInt(big.NewInt(int64(o)))
	case uint64:
		return buf.AppendBigInt(new(big.Int).SetUint64(o))
	case *big.Int:
		return buf.AppendBigInt(o)
	default:
		return fmt.Errorf("abi: unsupported go type %T for uint256-style type", o)
	}
}

// AppendAddressAny appends v as an ABI address parameter: a uint256 word
// holding the 20 address bytes right-aligned.
func (buf *Buffer) AppendAddressAny(v any) error {
	switch o := v.(type) {
	case evmkit.Address:
		return buf.AppendBigInt(new(big.Int).SetBytes(o.Bytes()))
	case []byte:
		if len(o) != 20 {
			return fmt.Errorf("abi: address must be 20 bytes, got %d", len(o))
		}
		return buf.AppendBigInt(new(big.Int).SetBytes(o))
	default:
		return fmt.Errorf("abi: unsupported go type %T for address type", o)
	}
}

// AppendBufferAny appends v as an ABI bytes/string parameter. Supported Go
// types are []byte and string.
func (buf *Buffer) AppendBufferAny(v any) error {
	switch o := v.(type) {
	case []byte:
		buf.AppendBytes(o)
		return nil
	case string:
		buf.AppendBytes([]byte(o))
		return nil
	default:
		return fmt.Errorf("abi: unsupported go type %T for buffer type", o)
	}
}

// Bytes returns the fully encoded ABI buffer: the fixed head followed by
// the dynamic tail, with head offsets patched in.
func (buf *Buffer) Bytes() []byte {
	res := slices.Clone(buf.buf)

	for _, s := range buf.str {
		in := s.data
		if rem := len(in) % 32; rem != 0 {
			in = append(in, make([]byte, 32-rem)...)
		}
		offsetWord := new(big.Int).SetUint64(uint64(len(res)))
		offsetWord.FillBytes(res[s.offset : s.offset+32])
		res = append(res, in...)
	}

	return res
}

// Call returns the method call data: the 4-byte selector of method
// followed by the encoded parameters.
func (buf *Buffer) Call(method string) []byte {
	sel := Selector(method)
	return append(sel[:], buf.Bytes()...)
}

// EncodeCall builds calldata for signature, encoding params per its
// declared parameter types. It performs no check that params match the
// declared arity beyond length.
func EncodeCall(signature string, params ...any) ([]byte, error) {
	buf := &Buffer{}
	if err := buf.EncodeSignature(signature, params...); err != nil {
		return nil, err
	}
	return buf.Call(signature), nil
}
