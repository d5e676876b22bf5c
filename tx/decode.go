package tx

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/KarpelesLab/typutil"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/rlp"
)

// ErrMalformedWire is returned when wire bytes cannot be parsed into any
// known transaction shape.
var ErrMalformedWire = errors.New("tx: malformed transaction wire bytes")

func addressFromRLP(b []byte) evmkit.Address {
	if len(b) == 0 {
		return evmkit.Address{}
	}
	addr, err := evmkit.NewAddress(b)
	if err != nil {
		return evmkit.Address{}
	}
	return addr
}

// Parse decodes wire bytes produced by WireBytes back into one of
// LegacyTx, FeeMarketTx, or AccessListTx, dispatching on the EIP-2718
// envelope prefix. A legacy transaction has no prefix byte: its RLP list
// starts directly, so its first byte is an RLP list prefix (>= 0xc0). Any
// first byte >= 0x80 is parsed as legacy.
func Parse(buf []byte) (any, error) {
	if len(buf) < 1 {
		return nil, ErrMalformedWire
	}
	if buf[0] >= 0x80 {
		return parseLegacy(buf)
	}
	switch buf[0] {
	case accessListTypeByte:
		return parseAccessList(buf[1:])
	case feeMarketTypeByte:
		return parseFeeMarket(buf[1:])
	default:
		return nil, fmt.Errorf("%w: unknown envelope prefix 0x%02x", ErrMalformedWire, buf[0])
	}
}

func parseLegacy(buf []byte) (LegacyTx, error) {
	dec, err := rlp.Decode(buf)
	if err != nil {
		return LegacyTx{}, err
	}
	if len(dec) != 1 {
		return LegacyTx{}, fmt.Errorf("%w: expected one top-level list", ErrMalformedWire)
	}
	fields, err := typutil.As[[][]byte](dec[0])
	if err != nil {
		return LegacyTx{}, fmt.Errorf("%w: %w", ErrMalformedWire, err)
	}
	if len(fields) != 6 && len(fields) != 9 {
		return LegacyTx{}, fmt.Errorf("%w: legacy transaction must have 6 or 9 fields, got %d", ErrMalformedWire, len(fields))
	}

	out := LegacyTx{
		Nonce:    rlp.DecodeUint64(fields[0]),
		GasPrice: new(big.Int).SetBytes(fields[1]),
		GasLimit: rlp.DecodeUint64(fields[2]),
		To:       addressFromRLP(fields[3]),
		Value:    new(big.Int).SetBytes(fields[4]),
		Data:     fields[5],
	}
	if len(fields) == 9 {
		v := new(big.Int).SetBytes(fields[6])
		out.ChainID = legacyChainIDFromV(v)
		out.signature = &Signature{
			V: v,
			R: new(big.Int).SetBytes(fields[7]),
			S: new(big.Int).SetBytes(fields[8]),
		}
	}
	return out, nil
}

// legacyChainIDFromV recovers the chain id embedded in an EIP-155 V value.
// V = 27 or 28 (no replay protection) yields chain id 0.
func legacyChainIDFromV(v *big.Int) uint64 {
	n := v.Uint64()
	if n == 27 || n == 28 {
		return 0
	}
	if n < 35 {
		return 0
	}
	return (n - 35) / 2
}

func parseAccessList(buf []byte) (AccessListTx, error) {
	dec, err := rlp.Decode(buf)
	if err != nil {
		return AccessListTx{}, err
	}
	if len(dec) != 1 {
		return AccessListTx{}, fmt.Errorf("%w: expected one top-level list", ErrMalformedWire)
	}
	fields, ok := dec[0].([]any)
	if !ok {
		return AccessListTx{}, fmt.Errorf("%w: expected a list of fields", ErrMalformedWire)
	}
	if len(fields) != 8 && len(fields) != 11 {
		return AccessListTx{}, fmt.Errorf("%w: access-list transaction must have 8 or 11 fields, got %d", ErrMalformedWire, len(fields))
	}

	al, err := decodeAccessList(fields[7])
	if err != nil {
		return AccessListTx{}, err
	}

	out := AccessListTx{
		ChainID:    rlp.DecodeUint64(mustBytes(fields[0])),
		Nonce:      rlp.DecodeUint64(mustBytes(fields[1])),
		GasPrice:   new(big.Int).SetBytes(mustBytes(fields[2])),
		GasLimit:   rlp.DecodeUint64(mustBytes(fields[3])),
		To:         addressFromRLP(mustBytes(fields[4])),
		Value:      new(big.Int).SetBytes(mustBytes(fields[5])),
		Data:       mustBytes(fields[6]),
		AccessList: al,
	}
	if len(fields) == 11 {
		out.signature = &Signature{
			V: new(big.Int).SetBytes(mustBytes(fields[8])),
			R: new(big.Int).SetBytes(mustBytes(fields[9])),
			S: new(big.Int).SetBytes(mustBytes(fields[10])),
		}
	}
	return out, nil
}

func parseFeeMarket(buf []byte) (FeeMarketTx, error) {
	dec, err := rlp.Decode(buf)
	if err != nil {
		return FeeMarketTx{}, err
	}
	if len(dec) != 1 {
		return FeeMarketTx{}, fmt.Errorf("%w: expected one top-level list", ErrMalformedWire)
	}
	fields, ok := dec[0].([]any)
	if !ok {
		return FeeMarketTx{}, fmt.Errorf("%w: expected a list of fields", ErrMalformedWire)
	}
	if len(fields) != 9 && len(fields) != 12 {
		return FeeMarketTx{}, fmt.Errorf("%w: fee-market transaction must have 9 or 12 fields, got %d", ErrMalformedWire, len(fields))
	}

	al, err := decodeAccessList(fields[8])
	if err != nil {
		return FeeMarketTx{}, err
	}

	out := FeeMarketTx{
		ChainID:    rlp.DecodeUint64(mustBytes(fields[0])),
		Nonce:      rlp.DecodeUint64(mustBytes(fields[1])),
		GasTipCap:  new(big.Int).SetBytes(mustBytes(fields[2])),
		GasFeeCap:  new(big.Int).SetBytes(mustBytes(fields[3])),
		GasLimit:   rlp.DecodeUint64(mustBytes(fields[4])),
		To:         addressFromRLP(mustBytes(fields[5])),
		Value:      new(big.Int).SetBytes(mustBytes(fields[6])),
		Data:       mustBytes(fields[7]),
		AccessList: al,
	}
	if len(fields) == 12 {
		out.signature = &Signature{
			V: new(big.Int).SetBytes(mustBytes(fields[9])),
			R: new(big.Int).SetBytes(mustBytes(fields[10])),
			S: new(big.Int).SetBytes(mustBytes(fields[11])),
		}
	}
	return out, nil
}

func mustBytes(v any) []byte {
	b, _ := v.([]byte)
	return b
}

func decodeAccessList(v any) (AccessList, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected access list to be a list", ErrMalformedWire)
	}
	out := make(AccessList, 0, len(items))
	for _, item := range items {
		tuple, ok := item.([]any)
		if !ok || len(tuple) != 2 {
			return nil, fmt.Errorf("%w: malformed access list tuple", ErrMalformedWire)
		}
		addr := addressFromRLP(mustBytes(tuple[0]))
		rawKeys, ok := tuple[1].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: malformed access list storage keys", ErrMalformedWire)
		}
		keys := make([]evmkit.Hash, 0, len(rawKeys))
		for _, k := range rawKeys {
			key, err := evmkit.HashFromBytes(mustBytes(k))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformedWire, err)
			}
			keys = append(keys, key)
		}
		out = append(out, AccessTuple{Address: addr, StorageKeys: keys})
	}
	return out, nil
}
