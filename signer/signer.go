package signer

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/KarpelesLab/cryptutil"
	"github.com/ModChain/secp256k1"
	"golang.org/x/crypto/sha3"

	"github.com/go-evmkit/evmkit"
)

// ErrNotSigned is returned when a signature operation is attempted on a
// value that carries no signature.
var ErrNotSigned = errors.New("signer: value is not signed")

// Signature is an immutable (R, S, recovery-id) tuple: R and S are raw curve
// scalars in [1, n), and the recovery id is the resolved one-bit value, not
// yet encoded into any particular wire V. A Signature is never mutated
// after construction.
type Signature struct {
	r, s       *big.Int
	recoveryID byte
}

// NewSignature builds a Signature from already-known components, for
// callers reconstructing one from wire fields (e.g. a parsed transaction)
// rather than producing it via Sign.
func NewSignature(r, s *big.Int, recoveryID byte) Signature {
	return Signature{r: new(big.Int).Set(r), s: new(big.Int).Set(s), recoveryID: recoveryID}
}

// R returns the R scalar.
func (s Signature) R() *big.Int { return new(big.Int).Set(s.r) }

// S returns the S scalar. S is always in [1, n/2] (canonical low-s).
func (s Signature) S() *big.Int { return new(big.Int).Set(s.s) }

// RecoveryID returns the resolved recovery id, 0 or 1.
func (s Signature) RecoveryID() byte { return s.recoveryID }

// PrivateKey is a 32-byte secp256k1 scalar used to sign digests and derive
// the corresponding address.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// NewPrivateKey loads a private key from its 32-byte scalar representation.
func NewPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("signer: private key must be 32 bytes, got %d", len(b))
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// PublicKey returns the public key for this private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{pub: p.key.PubKey()}
}

// Address derives the 20-byte EVM address for this private key's public
// key: the last 20 bytes of the Keccak-256 hash of the uncompressed public
// key with its leading 0x04 prefix byte stripped.
func (p *PrivateKey) Address() evmkit.Address {
	return p.PublicKey().Address()
}

// Sign produces a deterministic ECDSA signature over digest (expected to be
// a 32-byte Keccak-256 hash), using RFC-6979 nonce derivation. The
// resulting S is already canonicalized to [1, n/2], and the recovery id is
// already resolved to the unique candidate matching this key's public key,
// per §4.4 steps 1-5.
func (p *PrivateKey) Sign(digest []byte) (Signature, error) {
	if len(digest) != 32 {
		return Signature{}, fmt.Errorf("signer: digest must be 32 bytes, got %d", len(digest))
	}
	sig := secp256k1.Sign(p.key, digest)
	r, s, v := sig.Export()
	if v >= 2 {
		// The underlying library's recovery code carries an extra overflow
		// bit (R >= n) that Ethereum never produces in practice, but guard
		// against it explicitly rather than silently truncating.
		return Signature{}, fmt.Errorf("signer: %w (got %d)", ErrUnsupportedRecoveryID, v)
	}
	return Signature{r: r, s: s, recoveryID: v}, nil
}

// PublicKey is a secp256k1 point.
type PublicKey struct {
	pub *secp256k1.PublicKey
}

// Address computes the 20-byte EVM address for this public key.
func (p *PublicKey) Address() evmkit.Address {
	uncompressed := p.pub.SerializeUncompressed()
	// uncompressed is 0x04 || X(32) || Y(32); the address hashes only X||Y.
	h := cryptutil.Hash(uncompressed[1:], sha3.NewLegacyKeccak256)
	addr, _ := evmkit.NewAddress(h[12:])
	return addr
}

// Equal reports whether two public keys are the same curve point.
func (p *PublicKey) Equal(o *PublicKey) bool {
	return p.pub.IsEqual(o.pub)
}

// Recover recovers the public key that produced sig over digest. Per §4.4,
// only recovery ids 0 and 1 are supported; anything else is a SigningError.
func Recover(digest []byte, sig Signature) (*PublicKey, error) {
	if sig.recoveryID >= 2 {
		return nil, ErrUnsupportedRecoveryID
	}
	r, s := new(secp256k1.ModNScalar), new(secp256k1.ModNScalar)
	if overflow := r.SetByteSlice(sig.r.Bytes()); overflow {
		return nil, errors.New("signer: signature R is out of range")
	}
	if overflow := s.SetByteSlice(sig.s.Bytes()); overflow {
		return nil, errors.New("signer: signature S is out of range")
	}
	raw := secp256k1.NewSignatureWithRecoveryCode(r, s, sig.recoveryID)
	pub, err := raw.RecoverPublicKey(digest)
	if err != nil {
		return nil, fmt.Errorf("signer: recover public key: %w", err)
	}
	return &PublicKey{pub: pub}, nil
}

// RecoverAddress recovers the sender address directly, combining Recover
// with address derivation; this is the common path used when verifying a
// signed transaction's sender.
func RecoverAddress(digest []byte, sig Signature) (evmkit.Address, error) {
	pub, err := Recover(digest, sig)
	if err != nil {
		return evmkit.Address{}, err
	}
	return pub.Address(), nil
}
