package tx

import (
	"errors"
	"math/big"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/rlp"
	"github.com/go-evmkit/evmkit/signer"
)

// accessListTypeByte is the EIP-2718 envelope prefix for EIP-2930
// access-list transactions.
const accessListTypeByte = 0x01

// AccessListTx is an immutable EIP-2930 transaction: a legacy-priced
// transaction (gas price, not a fee cap/tip split) that additionally
// declares an access list and carries an explicit chain id and typed
// envelope. Supplemented beyond the distilled transaction model because
// the access-list field it shares with FeeMarketTx is otherwise only
// half-specified.
type AccessListTx struct {
	ChainID    uint64
	Nonce      uint64
	GasPrice   *big.Int
	GasLimit   uint64
	To         evmkit.Address
	Value      *big.Int
	Data       []byte
	AccessList AccessList

	signature *Signature
}

// NewAccessListTx constructs an unsigned EIP-2930 transaction, rejecting
// negative scalar fields.
func NewAccessListTx(chainID, nonce uint64, gasPrice *big.Int, gasLimit uint64, to evmkit.Address, value *big.Int, data []byte, accessList AccessList) (AccessListTx, error) {
	if err := requireNonNegative(gasPrice, value); err != nil {
		return AccessListTx{}, err
	}
	if accessList == nil {
		accessList = AccessList{}
	}
	return AccessListTx{
		ChainID:    chainID,
		Nonce:      nonce,
		GasPrice:   gasPrice,
		GasLimit:   gasLimit,
		To:         to,
		Value:      value,
		Data:       data,
		AccessList: accessList,
	}, nil
}

// IsContractCreation reports whether the recipient is absent or all-zero.
func (t AccessListTx) IsContractCreation() bool {
	return t.To.IsContractCreation()
}

// IsSigned reports whether a signature has been attached.
func (t AccessListTx) IsSigned() bool {
	return t.signature != nil
}

func (t AccessListTx) baseFields() rlp.List {
	return rlp.List{
		t.ChainID,
		t.Nonce,
		t.GasPrice,
		t.GasLimit,
		addressBytes(t.To),
		t.Value,
		t.Data,
		t.AccessList.rlpValue(),
	}
}

// EncodeForSigning returns 0x01 || RLP(chainId, nonce, gasPrice, gasLimit,
// to, value, data, accessList).
func (t AccessListTx) EncodeForSigning() ([]byte, error) {
	enc, err := rlp.EncodeValue(t.baseFields())
	if err != nil {
		return nil, err
	}
	return append([]byte{accessListTypeByte}, enc...), nil
}

// WithSignature returns a copy of t with sig attached as y-parity, R, S.
// A positive ChainID is required, mirroring the fee-market requirement
// since both are typed transactions with a mandatory chain id.
func (t AccessListTx) WithSignature(sig signer.Signature) (AccessListTx, error) {
	if t.ChainID == 0 {
		return AccessListTx{}, errors.New("tx: access-list transaction requires a positive chain id to sign")
	}
	out := t
	out.signature = &Signature{
		V: new(big.Int).SetUint64(signer.EncodeYParity(sig.RecoveryID())),
		R: sig.R(),
		S: sig.S(),
	}
	return out, nil
}

// WireBytes returns 0x01 || RLP(...fields..., yParity, R, S). Requires a
// signature.
func (t AccessListTx) WireBytes() ([]byte, error) {
	if !t.IsSigned() {
		return nil, errors.New("tx: cannot produce wire bytes of an unsigned transaction")
	}
	fields := t.baseFields()
	fields = append(fields, t.signature.V, t.signature.R, t.signature.S)
	enc, err := rlp.EncodeValue(fields)
	if err != nil {
		return nil, err
	}
	return append([]byte{accessListTypeByte}, enc...), nil
}

// Hash returns the Keccak-256 hash of the wire bytes. Requires a signature.
func (t AccessListTx) Hash() (evmkit.Hash, error) {
	buf, err := t.WireBytes()
	if err != nil {
		return evmkit.Hash{}, err
	}
	return evmkit.Keccak256(buf), nil
}

// Sender recovers the sending address from the attached signature.
func (t AccessListTx) Sender() (evmkit.Address, error) {
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
func (t AccessListTx) SignatureFields() (Signature, bool) {
	if t.signature == nil {
		return Signature{}, false
	}
	return *t.signature, true
}
