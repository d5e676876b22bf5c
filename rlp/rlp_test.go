package rlp_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/go-evmkit/evmkit/rlp"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestEncodeDogString(t *testing.T) {
	got := must(rlp.EncodeValue([]byte("dog")))
	want := []byte{0x83, 0x64, 0x6f, 0x67}
	if !bytes.Equal(got, want) {
		t.Errorf("encode(\"dog\") = %x, want %x", got, want)
	}
}

func TestEncodeDogList(t *testing.T) {
	got := must(rlp.EncodeValue(rlp.List{[]byte("dog")}))
	want := []byte{0xc4, 0x83, 0x64, 0x6f, 0x67}
	if !bytes.Equal(got, want) {
		t.Errorf("encode(list[\"dog\"]) = %x, want %x", got, want)
	}
}

func TestEncodeIntegerZero(t *testing.T) {
	got := must(rlp.EncodeValue(big.NewInt(0)))
	if !bytes.Equal(got, []byte{0x80}) {
		t.Errorf("encode(0) = %x, want [0x80]", got)
	}
	got = must(rlp.EncodeValue([]byte{}))
	if !bytes.Equal(got, []byte{0x80}) {
		t.Errorf("encode(empty string) = %x, want [0x80]", got)
	}
	got = must(rlp.EncodeValue(uint64(0)))
	if !bytes.Equal(got, []byte{0x80}) {
		t.Errorf("encode(uint64(0)) = %x, want [0x80]", got)
	}
}

func TestEncodeRejectsNegative(t *testing.T) {
	if _, err := rlp.EncodeValue(big.NewInt(-1)); err != rlp.ErrNegativeInteger {
		t.Errorf("encode(-1): got err %v, want ErrNegativeInteger", err)
	}
}

func TestEncodeLongString(t *testing.T) {
	// 56 bytes triggers the long-string length-of-length prefix.
	data := bytes.Repeat([]byte{'a'}, 56)
	got := must(rlp.EncodeValue(data))
	if got[0] != 0xb7+1 {
		t.Fatalf("expected 0xb8 prefix, got %x", got[0])
	}
	if got[1] != 56 {
		t.Errorf("expected length byte 56, got %d", got[1])
	}
}

func TestRoundTripByteString(t *testing.T) {
	for _, in := range [][]byte{
		{}, {0x00}, {0x7f}, {0x80}, []byte("dog"),
		bytes.Repeat([]byte{0xAB}, 55),
		bytes.Repeat([]byte{0xCD}, 56),
		bytes.Repeat([]byte{0xEF}, 1000),
	} {
		enc := must(rlp.EncodeValue(in))
		dec, err := rlp.Decode(enc)
		if err != nil {
			t.Fatalf("decode: %s", err)
		}
		got, ok := dec[0].([]byte)
		if !ok {
			t.Fatalf("decoded value is not []byte: %T", dec[0])
		}
		if !bytes.Equal(got, in) {
			t.Errorf("round trip of %x => %x", in, got)
		}
	}
}

func TestRoundTripList(t *testing.T) {
	in := rlp.List{[]byte("cat"), []byte("dog"), rlp.List{[]byte("deep")}}
	enc := must(rlp.EncodeValue(in))
	dec, err := rlp.Decode(enc)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	top, ok := dec[0].([]any)
	if !ok {
		t.Fatalf("decoded top-level is not a list: %T", dec[0])
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 items, got %d", len(top))
	}
	if !bytes.Equal(top[0].([]byte), []byte("cat")) {
		t.Errorf("item 0 = %v", top[0])
	}
	nested, ok := top[2].([]any)
	if !ok || len(nested) != 1 || !bytes.Equal(nested[0].([]byte), []byte("deep")) {
		t.Errorf("nested list mismatch: %v", top[2])
	}
}

func TestDecodeUint64(t *testing.T) {
	enc := must(rlp.EncodeValue(uint64(21000)))
	dec, err := rlp.Decode(enc)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if got := rlp.DecodeUint64(dec[0].([]byte)); got != 21000 {
		t.Errorf("DecodeUint64 = %d, want 21000", got)
	}
}
