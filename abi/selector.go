package abi

import (
	"github.com/BottleFmt/gobottle"
	"golang.org/x/crypto/sha3"

	"github.com/go-evmkit/evmkit"
)

// Selector returns the 4-byte function selector of signature: the first
// four bytes of the Keccak-256 hash of its ASCII bytes.
func Selector(signature string) [4]byte {
	h := gobottle.Hash([]byte(signature), sha3.NewLegacyKeccak256)
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// Topic returns the 32-byte event topic of signature: the full
// Keccak-256 hash of its ASCII bytes, as used for the first entry of an
// event's topics list.
func Topic(signature string) evmkit.Hash {
	return evmkit.Keccak256([]byte(signature))
}
