// Package rpc defines the collaborator contracts the core consumes to
// reach an EVM node and a contract ABI, and a reference call pipeline
// built on top of them. HTTP transport is out of scope; Client is an
// interface the caller supplies.
package rpc

import (
	"context"
	"errors"

	"github.com/go-evmkit/evmkit"
)

// Client is the RPC collaborator contract: four methods, each producing
// or accepting byte strings, never host-language-specific types.
type Client interface {
	// Call evaluates a read-only call against to, as if sent from from,
	// with calldata data, and returns the returned bytes.
	Call(ctx context.Context, to, from evmkit.Address, data []byte) ([]byte, error)

	// EstimateGas estimates the gas a transaction to to, from from, with
	// value and data, would consume.
	EstimateGas(ctx context.Context, to, from evmkit.Address, value []byte, data []byte) (uint64, error)

	// SendRawTransaction submits signed transaction wire bytes and returns
	// the 32-byte transaction hash.
	SendRawTransaction(ctx context.Context, wire []byte) (evmkit.Hash, error)

	// GetReceipt fetches the receipt for hash, or (nil, nil) if it is not
	// yet mined.
	GetReceipt(ctx context.Context, hash evmkit.Hash) (*Receipt, error)
}

// Log is one entry of a receipt's log list.
type Log struct {
	Address evmkit.Address
	Topics  []evmkit.Hash
	Data    []byte
}

// Receipt is the subset of an EVM transaction receipt the core needs.
type Receipt struct {
	TransactionHash evmkit.Hash
	Status          bool
	GasUsed         uint64
	Logs            []Log
}

// ABI is the ABI collaborator contract: given a function name and an
// argument structure, returns call data; given an event topic hash and a
// log's topics/data, decodes the indexed and non-indexed parameters.
type ABI interface {
	// EncodeCall returns the call-data byte string for function called
	// with args.
	EncodeCall(function string, args ...any) ([]byte, error)

	// DecodeEvent decodes a log matching the given event signature's
	// topic hash into indexed and non-indexed parameter maps keyed by
	// parameter name.
	DecodeEvent(signature string, topics []evmkit.Hash, data []byte) (indexed map[string]any, fields map[string]any, err error)

	// IndexedParamCount returns the number of indexed parameters declared
	// by signature, used to validate a log's topic count before decoding.
	IndexedParamCount(signature string) (int, error)
}

// Reverted is a classified RPC outcome: the call or transaction reverted
// on-chain. It carries the transaction hash when known.
type Reverted struct {
	TxHash evmkit.Hash
	Reason string
	Cause  error
}

func (e *Reverted) Error() string {
	if e.Reason != "" {
		return "rpc: reverted: " + e.Reason
	}
	return "rpc: reverted"
}

func (e *Reverted) Unwrap() error { return e.Cause }

// OutOfGas is a classified RPC outcome: the transaction ran out of gas.
type OutOfGas struct {
	TxHash evmkit.Hash
	Cause  error
}

func (e *OutOfGas) Error() string { return "rpc: out of gas" }
func (e *OutOfGas) Unwrap() error { return e.Cause }

// NonceTooLow is a classified RPC outcome: the submitted nonce has
// already been consumed.
type NonceTooLow struct {
	Nonce uint64
	Cause error
}

func (e *NonceTooLow) Error() string { return "rpc: nonce too low" }
func (e *NonceTooLow) Unwrap() error { return e.Cause }

// Transport is a classified RPC outcome for network or protocol failures
// below the application layer.
type Transport struct {
	Cause error
}

func (e *Transport) Error() string { return "rpc: transport: " + e.Cause.Error() }
func (e *Transport) Unwrap() error { return e.Cause }

// ErrReceiptPending is returned by callers awaiting a receipt that is not
// yet available; GetReceipt itself returns (nil, nil) for "not mined yet"
// and this sentinel is for higher-level polling helpers.
var ErrReceiptPending = errors.New("rpc: receipt not yet available")
