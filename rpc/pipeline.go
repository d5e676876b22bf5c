package rpc

import (
	"context"
	"errors"
	"math/big"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/signer"
	"github.com/go-evmkit/evmkit/tx"
)

// Pipeline is the contract-call pipeline (C7): it turns a function name
// and arguments into call data via an ABI collaborator, and dispatches
// reads, estimates, and writes through an RPC collaborator.
type Pipeline struct {
	RPC Client
	ABI ABI
}

// New returns a Pipeline driven by rpc and abi.
func New(rpc Client, abi ABI) *Pipeline {
	return &Pipeline{RPC: rpc, ABI: abi}
}

// Call performs a read-only evaluation of function(args...) against to,
// as if sent from sender. No signing takes place.
func (p *Pipeline) Call(ctx context.Context, to, sender evmkit.Address, function string, args ...any) ([]byte, error) {
	data, err := p.ABI.EncodeCall(function, args...)
	if err != nil {
		return nil, err
	}
	return p.RPC.Call(ctx, to, sender, data)
}

// EstimateGas estimates the gas function(args...) against to, from sender
// with the given value (nil for a zero-value call), would consume.
func (p *Pipeline) EstimateGas(ctx context.Context, to, sender evmkit.Address, value *big.Int, function string, args ...any) (uint64, error) {
	data, err := p.ABI.EncodeCall(function, args...)
	if err != nil {
		return 0, err
	}
	var valueBytes []byte
	if value != nil {
		valueBytes, err = evmkit.MinimalBytes(value)
		if err != nil {
			return 0, err
		}
	}
	return p.RPC.EstimateGas(ctx, to, sender, valueBytes, data)
}

// FeeParams carries the gas pricing fields needed to build a signed
// transaction for Invoke. Exactly one of GasPrice or (GasTipCap,
// GasFeeCap) is used, selected by which is non-nil.
type FeeParams struct {
	GasLimit   uint64
	GasPrice   *big.Int // legacy pricing
	GasTipCap  *big.Int // EIP-1559 pricing
	GasFeeCap  *big.Int
	ChainID    uint64
	AccessList tx.AccessList
}

// Invoke builds a signed transaction calling function(args...) on to with
// the given value, using the reserved nonce, signs it with key, and
// dispatches it through the RPC collaborator's send-raw-transaction
// method. It returns the computed transaction hash.
func (p *Pipeline) Invoke(ctx context.Context, key *signer.PrivateKey, to evmkit.Address, fees FeeParams, value *big.Int, reservedNonce uint64, function string, args ...any) (evmkit.Hash, error) {
	data, err := p.ABI.EncodeCall(function, args...)
	if err != nil {
		return evmkit.Hash{}, err
	}
	if value == nil {
		value = big.NewInt(0)
	}

	wire, hash, err := buildAndSign(key, to, fees, value, data, reservedNonce)
	if err != nil {
		return evmkit.Hash{}, err
	}

	sent, err := p.RPC.SendRawTransaction(ctx, wire)
	if err != nil {
		return evmkit.Hash{}, err
	}
	if sent != hash {
		return evmkit.Hash{}, errors.New("rpc: node-reported transaction hash does not match computed hash")
	}
	return hash, nil
}

func buildAndSign(key *signer.PrivateKey, to evmkit.Address, fees FeeParams, value *big.Int, data []byte, nonce uint64) ([]byte, evmkit.Hash, error) {
	if fees.GasTipCap != nil || fees.GasFeeCap != nil {
		txn, err := tx.NewFeeMarketTx(fees.ChainID, nonce, fees.GasTipCap, fees.GasFeeCap, fees.GasLimit, to, value, data, fees.AccessList)
		if err != nil {
			return nil, evmkit.Hash{}, err
		}
		image, err := txn.EncodeForSigning()
		if err != nil {
			return nil, evmkit.Hash{}, err
		}
		digest := evmkit.Keccak256(image)
		sig, err := key.Sign(digest.Bytes())
		if err != nil {
			return nil, evmkit.Hash{}, err
		}
		signed, err := txn.WithSignature(sig)
		if err != nil {
			return nil, evmkit.Hash{}, err
		}
		wire, err := signed.WireBytes()
		if err != nil {
			return nil, evmkit.Hash{}, err
		}
		hash, err := signed.Hash()
		return wire, hash, err
	}

	txn, err := tx.NewLegacyTx(nonce, fees.GasPrice, fees.GasLimit, to, value, data, fees.ChainID)
	if err != nil {
		return nil, evmkit.Hash{}, err
	}
	image, err := txn.EncodeForSigning()
	if err != nil {
		return nil, evmkit.Hash{}, err
	}
	digest := evmkit.Keccak256(image)
	sig, err := key.Sign(digest.Bytes())
	if err != nil {
		return nil, evmkit.Hash{}, err
	}
	signed, err := txn.WithSignature(sig)
	if err != nil {
		return nil, evmkit.Hash{}, err
	}
	wire, err := signed.WireBytes()
	if err != nil {
		return nil, evmkit.Hash{}, err
	}
	hash, err := signed.Hash()
	return wire, hash, err
}

// TryDecodeEvent matches signature's topic hash against the first topic
// of each log in receipt, and decodes the first matching, topic-count
// compatible log's remaining topics and data. It returns ok=false, not an
// error, when no log matches: a receipt simply not containing the event
// is an ordinary outcome.
func (p *Pipeline) TryDecodeEvent(receipt *Receipt, signature string) (indexed map[string]any, fields map[string]any, ok bool, err error) {
	if receipt == nil {
		return nil, nil, false, nil
	}
	wantTopic := eventTopic(signature)

	indexedCount, err := p.ABI.IndexedParamCount(signature)
	if err != nil {
		return nil, nil, false, err
	}

	for _, log := range receipt.Logs {
		if len(log.Topics) == 0 || log.Topics[0] != wantTopic {
			continue
		}
		if len(log.Topics) != 1+indexedCount {
			continue
		}
		idx, fld, err := p.ABI.DecodeEvent(signature, log.Topics[1:], log.Data)
		if err != nil {
			return nil, nil, false, err
		}
		return idx, fld, true, nil
	}
	return nil, nil, false, nil
}

func eventTopic(signature string) evmkit.Hash {
	return evmkit.Keccak256([]byte(signature))
}
