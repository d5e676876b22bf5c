package tx

import (
	"errors"
	"math/big"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/rlp"
	"github.com/go-evmkit/evmkit/signer"
)

// feeMarketTypeByte is the EIP-2718 typed-transaction envelope prefix for
// EIP-1559 fee-market transactions. The byte is a literal prefix, never
// itself RLP-encoded.
const feeMarketTypeByte = 0x02

// FeeMarketTx is an immutable EIP-1559 transaction.
type FeeMarketTx struct {
	ChainID    uint64
	Nonce      uint64
	GasTipCap  *big.Int // maxPriorityFeePerGas
	GasFeeCap  *big.Int // maxFeePerGas
	GasLimit   uint64
	To         evmkit.Address
	Value      *big.Int
	Data       []byte
	AccessList AccessList

	signature *Signature
}

// NewFeeMarketTx constructs an unsigned fee-market transaction, rejecting
// negative scalar fields. Construction never requires a signature, but
// signing one later requires ChainID > 0.
func NewFeeMarketTx(chainID, nonce uint64, gasTipCap, gasFeeCap *big.Int, gasLimit uint64, to evmkit.Address, value *big.Int, data []byte, accessList AccessList) (FeeMarketTx, error) {
	if err := requireNonNegative(gasTipCap, gasFeeCap, value); err != nil {
		return FeeMarketTx{}, err
	}
	if accessList == nil {
		accessList = AccessList{}
	}
	return FeeMarketTx{
		ChainID:    chainID,
		Nonce:      nonce,
		GasTipCap:  gasTipCap,
		GasFeeCap:  gasFeeCap,
		GasLimit:   gasLimit,
		To:         to,
		Value:      value,
		Data:       data,
		AccessList: accessList,
	}, nil
}

// IsContractCreation reports whether the recipient is absent or all-zero.
func (t FeeMarketTx) IsContractCreation() bool {
	return t.To.IsContractCreation()
}

// IsSigned reports whether a signature has been attached.
func (t FeeMarketTx) IsSigned() bool {
	return t.signature != nil
}

func (t FeeMarketTx) baseFields() rlp.List {
	return rlp.List{
		t.ChainID,
		t.Nonce,
		t.GasTipCap,
		t.GasFeeCap,
		t.GasLimit,
		addressBytes(t.To),
		t.Value,
		t.Data,
		t.AccessList.rlpValue(),
	}
}

// EncodeForSigning returns 0x02 || RLP(chainId, nonce, maxPriorityFee,
// maxFee, gasLimit, to, value, data, accessList), per §4.2.
func (t FeeMarketTx) EncodeForSigning() ([]byte, error) {
	enc, err := rlp.EncodeValue(t.baseFields())
	if err != nil {
		return nil, err
	}
	return append([]byte{feeMarketTypeByte}, enc...), nil
}

// WithSignature returns a copy of t with sig attached as y-parity, R, S
// appended to the field list. ChainID must be positive: §3 requires a
// chain id to sign a fee-market transaction.
func (t FeeMarketTx) WithSignature(sig signer.Signature) (FeeMarketTx, error) {
	if t.ChainID == 0 {
		return FeeMarketTx{}, errors.New("tx: fee-market transaction requires a positive chain id to sign")
	}
	out := t
	out.signature = &Signature{
		V: new(big.Int).SetUint64(signer.EncodeYParity(sig.RecoveryID())),
		R: sig.R(),
		S: sig.S(),
	}
	return out, nil
}

// WireBytes returns 0x02 || RLP(...fields..., yParity, R, S). Requires a
// signature.
func (t FeeMarketTx) WireBytes() ([]byte, error) {
	if !t.IsSigned() {
		return nil, errors.New("tx: cannot produce wire bytes of an unsigned transaction")
	}
	fields := t.baseFields()
	fields = append(fields, t.signature.V, t.signature.R, t.signature.S)
	enc, err := rlp.EncodeValue(fields)
	if err != nil {
		return nil, err
	}
	return append([]byte{feeMarketTypeByte}, enc...), nil
}

// Hash returns the Keccak-256 hash of the wire bytes. Requires a signature.
func (t FeeMarketTx) Hash() (evmkit.Hash, error) {
	buf, err := t.WireBytes()
	if err != nil {
		return evmkit.Hash{}, err
	}
	return evmkit.Keccak256(buf), nil
}

// Sender recovers the sending address from the attached signature.
func (t FeeMarketTx) Sender() (evmkit.Address, error) {
	if !t.IsSigned() {
		return evmkit.Address{}, errors.New("tx: cannot recover sender of an unsigned transaction")
	}
	r, err := signer.DecodeV(t.signature.V.Uint64(), 0)
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
func (t FeeMarketTx) SignatureFields() (Signature, bool) {
	if t.signature == nil {
		return Signature{}, false
	}
	return *t.signature, true
}
