// Package tx implements the immutable EVM transaction value types: legacy,
// EIP-1559 fee-market, and the EIP-2930 access-list variant. Each type
// builds its own signing image, accepts a signature only by producing a new
// value, and knows its own canonical wire encoding.
package tx

import (
	"errors"
	"math/big"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/rlp"
)

// ErrNegativeField is returned by constructors when a scalar field (gas
// price, value, fee caps) is negative.
var ErrNegativeField = errors.New("tx: negative scalar field")

// AccessTuple is one entry of an access list: an address and the set of
// 32-byte storage keys declared for it.
type AccessTuple struct {
	Address     evmkit.Address
	StorageKeys []evmkit.Hash
}

// AccessList pre-warms state accesses; it may be empty but is always
// present in the fee-market and access-list serializations.
type AccessList []AccessTuple

func (al AccessList) rlpValue() rlp.List {
	items := make(rlp.List, len(al))
	for i, t := range al {
		keys := make(rlp.List, len(t.StorageKeys))
		for j, k := range t.StorageKeys {
			keys[j] = k.Bytes()
		}
		items[i] = rlp.List{addressBytes(t.Address), keys}
	}
	return items
}

// addressBytes returns the RLP byte-string representation of an address:
// empty for contract creation (absent or all-zero), or the raw 20 bytes
// otherwise.
func addressBytes(a evmkit.Address) []byte {
	if a.IsContractCreation() {
		return []byte{}
	}
	return a.Bytes()
}

func requireNonNegative(values ...*big.Int) error {
	for _, v := range values {
		if v != nil && v.Sign() < 0 {
			return ErrNegativeField
		}
	}
	return nil
}

// Signature is a transaction's attached (R, S, V) in already-encoded wire
// form: R and S as big integers, V as the variant-appropriate encoded
// recovery bit (not the bare recovery id).
type Signature struct {
	V, R, S *big.Int
}
