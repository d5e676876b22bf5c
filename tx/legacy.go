package tx

import (
	"errors"
	"math/big"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/rlp"
	"github.com/go-evmkit/evmkit/signer"
)

// LegacyTx is an immutable pre-EIP-2718 transaction. ChainID of 0 selects
// the pre-replay-protection signing image; a positive ChainID selects the
// EIP-155 replay-protected image and V encoding.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       evmkit.Address
	Value    *big.Int
	Data     []byte
	ChainID  uint64

	signature *Signature
}

// NewLegacyTx constructs an unsigned legacy transaction, rejecting negative
// scalar fields. Construction never requires a signature.
func NewLegacyTx(nonce uint64, gasPrice *big.Int, gasLimit uint64, to evmkit.Address, value *big.Int, data []byte, chainID uint64) (LegacyTx, error) {
	if err := requireNonNegative(gasPrice, value); err != nil {
		return LegacyTx{}, err
	}
	return LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		GasLimit: gasLimit,
		To:       to,
		Value:    value,
		Data:     data,
		ChainID:  chainID,
	}, nil
}

// IsContractCreation reports whether this transaction creates a contract:
// the recipient is absent or all-zero.
func (t LegacyTx) IsContractCreation() bool {
	return t.To.IsContractCreation()
}

// IsSigned reports whether a signature has been attached.
func (t LegacyTx) IsSigned() bool {
	return t.signature != nil
}

func (t LegacyTx) baseFields() rlp.List {
	return rlp.List{
		t.Nonce,
		t.GasPrice,
		t.GasLimit,
		addressBytes(t.To),
		t.Value,
		t.Data,
	}
}

// EncodeForSigning produces the exact byte sequence whose Keccak-256 digest
// is signed: the 6 base fields, plus chain-id/0/0 when ChainID > 0 per the
// EIP-155 replay-protected signing image (§4.2).
func (t LegacyTx) EncodeForSigning() ([]byte, error) {
	fields := t.baseFields()
	if t.ChainID != 0 {
		fields = append(fields, t.ChainID, uint64(0), uint64(0))
	}
	return rlp.EncodeValue(fields)
}

// WithSignature returns a copy of t with sig attached, encoding sig's
// recovery id into the variant-appropriate wire V: 27+r with no chain id,
// or 35+2*chainID+r with one. It never mutates t.
func (t LegacyTx) WithSignature(sig signer.Signature) (LegacyTx, error) {
	var v uint64
	if t.ChainID == 0 {
		v = signer.EncodeLegacyV(sig.RecoveryID())
	} else {
		v = signer.EncodeEIP155V(sig.RecoveryID(), t.ChainID)
	}
	out := t
	out.signature = &Signature{
		V: new(big.Int).SetUint64(v),
		R: sig.R(),
		S: sig.S(),
	}
	return out, nil
}

// WireBytes returns the canonical on-wire form: the 6 base fields followed
// by V, R, S. Requires the transaction to be signed.
func (t LegacyTx) WireBytes() ([]byte, error) {
	if !t.IsSigned() {
		return nil, errors.New("tx: cannot produce wire bytes of an unsigned transaction")
	}
	fields := t.baseFields()
	fields = append(fields, t.signature.V, t.signature.R, t.signature.S)
	return rlp.EncodeValue(fields)
}

// Hash returns the Keccak-256 hash of the wire bytes. Requires a signature.
func (t LegacyTx) Hash() (evmkit.Hash, error) {
	buf, err := t.WireBytes()
	if err != nil {
		return evmkit.Hash{}, err
	}
	return evmkit.Keccak256(buf), nil
}

// Sender recovers the sending address from the attached signature.
func (t LegacyTx) Sender() (evmkit.Address, error) {
	if !t.IsSigned() {
		return evmkit.Address{}, errors.New("tx: cannot recover sender of an unsigned transaction")
	}
	v := t.signature.V.Uint64()
	r, err := signer.DecodeV(v, t.ChainID)
	if err != nil {
		return evmkit.Address{}, err
	}
	image, err := t.EncodeForSigning()
	if err != nil {
		return evmkit.Address{}, err
	}
	digest := evmkit.Keccak256(image)
	sig := signer.NewSignature(t.signature.R, t.signature.S, r)
	return signer.RecoverAddress(digest.Bytes(), sig)
}

// SignatureFields returns the attached signature, or false if unsigned.
func (t LegacyTx) SignatureFields() (Signature, bool) {
	if t.signature == nil {
		return Signature{}, false
	}
	return *t.signature, true
}
