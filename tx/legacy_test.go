package tx_test

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/signer"
	"github.com/go-evmkit/evmkit/tx"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func testKey(t *testing.T) *signer.PrivateKey {
	t.Helper()
	raw := must(hex.DecodeString("eb696a065ef48a2192da5b28b694f87544b30fae8327c4510137a922f32c6dc"))
	key, err := signer.NewPrivateKey(raw)
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	return key
}

func TestLegacyTxSignAndRecoverNoChainID(t *testing.T) {
	key := testKey(t)
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewLegacyTx(30, big.NewInt(34000000000), 21000, to, big.NewInt(90000000000000000), nil, 0))

	image := must(txn.EncodeForSigning())
	digest := evmkit.Keccak256(image)

	sig := must(key.Sign(digest.Bytes()))
	signed := must(txn.WithSignature(sig))

	if !signed.IsSigned() {
		t.Fatal("expected signed transaction")
	}

	sender := must(signed.Sender())
	want := must(evmkit.ParseAddress("0x2AeB8ADD8337360E088B7D9ce4e857b9BE60f3a7"))
	if sender.String() != want.String() {
		t.Fatalf("sender = %s, want %s", sender, want)
	}

	fields, ok := signed.SignatureFields()
	if !ok {
		t.Fatal("expected signature fields")
	}
	if fields.V.Uint64() != 27 && fields.V.Uint64() != 28 {
		t.Fatalf("unexpected legacy V = %d, want 27 or 28", fields.V.Uint64())
	}
}

func TestLegacyTxEIP155ReplayProtection(t *testing.T) {
	key := testKey(t)
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewLegacyTx(30, big.NewInt(34000000000), 21000, to, big.NewInt(90000000000000000), nil, 1))

	image := must(txn.EncodeForSigning())
	digest := evmkit.Keccak256(image)
	sig := must(key.Sign(digest.Bytes()))
	signed := must(txn.WithSignature(sig))

	fields, _ := signed.SignatureFields()
	v := fields.V.Uint64()
	if v != 37 && v != 38 {
		t.Fatalf("unexpected EIP-155 V = %d, want 37 or 38 for chain id 1", v)
	}

	sender := must(signed.Sender())
	want := must(evmkit.ParseAddress("0x2AeB8ADD8337360E088B7D9ce4e857b9BE60f3a7"))
	if sender.String() != want.String() {
		t.Fatalf("sender = %s, want %s", sender, want)
	}
}

func TestLegacyTxWireRoundTripsThroughHash(t *testing.T) {
	key := testKey(t)
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewLegacyTx(0, big.NewInt(1000000000), 21000, to, big.NewInt(1), nil, 0))

	digest := evmkit.Keccak256(must(txn.EncodeForSigning()))
	sig := must(key.Sign(digest.Bytes()))
	signed := must(txn.WithSignature(sig))

	wire1 := must(signed.WireBytes())
	wire2 := must(signed.WireBytes())
	if !bytes.Equal(wire1, wire2) {
		t.Fatal("WireBytes is not deterministic across calls")
	}

	h1 := must(signed.Hash())
	h2 := must(signed.Hash())
	if h1 != h2 {
		t.Fatal("Hash is not deterministic across calls")
	}
}

func TestLegacyTxContractCreationEncodesEmptyTo(t *testing.T) {
	txn := must(tx.NewLegacyTx(0, big.NewInt(1), 53000, evmkit.Address{}, big.NewInt(0), []byte{0x60, 0x80}, 0))
	if !txn.IsContractCreation() {
		t.Fatal("expected contract creation")
	}
	image := must(txn.EncodeForSigning())
	if len(image) == 0 {
		t.Fatal("expected non-empty signing image")
	}
}

func TestLegacyTxRejectsNegativeValue(t *testing.T) {
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	_, err := tx.NewLegacyTx(0, big.NewInt(1), 21000, to, big.NewInt(-1), nil, 0)
	if err != tx.ErrNegativeField {
		t.Fatalf("err = %v, want ErrNegativeField", err)
	}
}

func TestLegacyTxSenderFailsUnsigned(t *testing.T) {
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewLegacyTx(0, big.NewInt(1), 21000, to, big.NewInt(0), nil, 0))
	if _, err := txn.Sender(); err == nil {
		t.Fatal("expected error recovering sender of unsigned transaction")
	}
}

// TestLegacyTxEIP155ReferenceVector checks the signing image against the
// well-known EIP-155 reference vector: test key 0x46..46, nonce 9, gas price
// 20 Gwei, gas limit 21000, recipient 0x35..35, value 1 ether, chain id 1.
// The digest is expected to begin with daf5a779.
func TestLegacyTxEIP155ReferenceVector(t *testing.T) {
	raw := must(hex.DecodeString(strings.Repeat("46", 32)))
	key, err := signer.NewPrivateKey(raw)
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	to := must(evmkit.ParseAddress("0x" + strings.Repeat("35", 20)))
	oneEther := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	txn := must(tx.NewLegacyTx(9, big.NewInt(20000000000), 21000, to, oneEther, nil, 1))

	image := must(txn.EncodeForSigning())
	digest := evmkit.Keccak256(image)
	gotPrefix := hex.EncodeToString(digest[:4])
	if gotPrefix != "daf5a779" {
		t.Fatalf("signing digest = %x..., want prefix daf5a779", digest[:4])
	}

	sig := must(key.Sign(digest.Bytes()))
	signed := must(txn.WithSignature(sig))
	fields, ok := signed.SignatureFields()
	if !ok {
		t.Fatal("expected signature fields")
	}
	v := fields.V.Uint64()
	if v != 37 && v != 38 {
		t.Fatalf("V = %d, want 37 or 38", v)
	}
}

func TestLegacyTxMarshalJSON(t *testing.T) {
	key := testKey(t)
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewLegacyTx(5, big.NewInt(1000000000), 21000, to, big.NewInt(42), nil, 1))
	digest := evmkit.Keccak256(must(txn.EncodeForSigning()))
	sig := must(key.Sign(digest.Bytes()))
	signed := must(txn.WithSignature(sig))

	buf, err := signed.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if !bytes.Contains(buf, []byte(`"type":"0x0"`)) {
		t.Fatalf("expected type 0x0 in json, got %s", buf)
	}
	if !bytes.Contains(buf, []byte(`"from"`)) {
		t.Fatalf("expected from field in json, got %s", buf)
	}
}
