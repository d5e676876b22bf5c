// Package signer implements the secp256k1 ECDSA signer (RFC-6979
// deterministic nonce, canonical low-s, public-key recovery) and the
// recovery-bit codec that maps a one-bit recovery id onto the three
// historically layered V encodings used on the wire.
package signer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedRecoveryID is returned when a decoded recovery id falls
// outside {0,1}. Recovery ids >= 2 would indicate a point with x = R + n,
// which no EVM chain ever produces; this is inherited as an explicit
// restriction rather than handled.
var ErrUnsupportedRecoveryID = errors.New("signer: recovery id >= 2 is not supported")

// Variant identifies which historical V encoding a transaction uses.
type Variant int

const (
	// VariantLegacyNoReplay is a legacy transaction signed without EIP-155
	// replay protection: v = 27 + r.
	VariantLegacyNoReplay Variant = iota
	// VariantLegacyReplayProtected is a legacy transaction signed with
	// EIP-155 replay protection: v = 35 + 2*chainID + r.
	VariantLegacyReplayProtected
	// VariantTyped is a typed (fee-market or access-list) transaction,
	// whose y-parity field is the recovery id verbatim.
	VariantTyped
)

// EncodeLegacyV returns the pre-EIP-155 wire V for recovery id r.
func EncodeLegacyV(r byte) uint64 {
	return 27 + uint64(r)
}

// EncodeEIP155V returns the EIP-155 replay-protected wire V for recovery id
// r under chainID.
func EncodeEIP155V(r byte, chainID uint64) uint64 {
	return 35 + 2*chainID + uint64(r)
}

// EncodeYParity returns the typed-transaction y-parity field for recovery id
// r: the identity mapping, y = r.
func EncodeYParity(r byte) uint64 {
	return uint64(r)
}

// HasReplayProtection reports whether wire value v, interpreted under
// chainID, carries EIP-155 replay protection: v in {35+2c, 36+2c}.
func HasReplayProtection(v, chainID uint64) bool {
	base := 35 + 2*chainID
	return v == base || v == base+1
}

// DecodeV decodes a legacy transaction's wire V into a recovery id. chainID
// is the chain id if known, or 0 if not. The codec never silently assumes a
// chain id: callers must pass 0 explicitly when none is known, which this
// function treats the same as "not replay protected" for V in {27,28}.
func DecodeV(v, chainID uint64) (r byte, err error) {
	switch {
	case v == 27 || v == 28:
		return byte(v - 27), nil
	case chainID > 0 && v >= 35+2*chainID:
		d := v - 35 - 2*chainID
		if d > 1 {
			return 0, fmt.Errorf("signer: inconsistent V %d for chain id %d", v, chainID)
		}
		return byte(d), nil
	case v == 0 || v == 1:
		return byte(v), nil
	default:
		return 0, fmt.Errorf("signer: cannot decode V %d without a chain id", v)
	}
}

// GuessRecoveryIDByParity applies the parity-only heuristic of §4.3 when no
// chain id is available: r = 0 iff V is odd when V >= 35, or V = 27. This is
// a heuristic, not a substitute for DecodeV with a known chain id or
// variant, and must only be used when neither is available.
func GuessRecoveryIDByParity(v uint64) byte {
	if v >= 35 {
		if v%2 == 1 {
			return 0
		}
		return 1
	}
	if v == 27 {
		return 0
	}
	return 1
}

// VariantGuess is the best-effort classification returned by ClassifyV.
type VariantGuess struct {
	Variant         Variant
	RecoveryID      byte
	ChainID         uint64 // only meaningful when Variant == VariantLegacyReplayProtected
	HasChainID      bool
	ReplayProtected bool
}

// ClassifyV inspects a wire V value together with an optionally-known chain
// id and reports its best guess at the variant and recovery id. This is the
// supplemented, explicit "classify what I was given" helper for callers
// that receive a lone V with no other context; prefer DecodeV when the
// variant is already known from context.
func ClassifyV(v uint64, chainID uint64) VariantGuess {
	if v == 0 || v == 1 {
		return VariantGuess{Variant: VariantTyped, RecoveryID: byte(v)}
	}
	if v == 27 || v == 28 {
		return VariantGuess{Variant: VariantLegacyNoReplay, RecoveryID: byte(v - 27)}
	}
	if chainID > 0 && v >= 35+2*chainID {
		r := byte(v - 35 - 2*chainID)
		return VariantGuess{
			Variant:         VariantLegacyReplayProtected,
			RecoveryID:      r,
			ChainID:         chainID,
			HasChainID:      true,
			ReplayProtected: HasReplayProtection(v, chainID),
		}
	}
	// No chain id supplied (or V doesn't fit it): fall back to the
	// parity-only heuristic.
	return VariantGuess{
		Variant:    VariantLegacyReplayProtected,
		RecoveryID: GuessRecoveryIDByParity(v),
	}
}
