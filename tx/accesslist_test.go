package tx_test

import (
	"math/big"
	"testing"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/tx"
)

func TestAccessListTxSignAndRecover(t *testing.T) {
	key := testKey(t)
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewAccessListTx(1, 3, big.NewInt(20000000000), 21000, to, big.NewInt(0), nil, nil))

	digest := evmkit.Keccak256(must(txn.EncodeForSigning()))
	sig := must(key.Sign(digest.Bytes()))
	signed := must(txn.WithSignature(sig))

	sender := must(signed.Sender())
	want := must(evmkit.ParseAddress("0x2AeB8ADD8337360E088B7D9ce4e857b9BE60f3a7"))
	if sender.String() != want.String() {
		t.Fatalf("sender = %s, want %s", sender, want)
	}
}

func TestAccessListTxEnvelopePrefix(t *testing.T) {
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewAccessListTx(1, 0, big.NewInt(1), 21000, to, big.NewInt(0), nil, nil))
	image := must(txn.EncodeForSigning())
	if image[0] != 0x01 {
		t.Fatalf("envelope prefix = 0x%02x, want 0x01", image[0])
	}
}

func TestAccessListTxRequiresChainIDToSign(t *testing.T) {
	key := testKey(t)
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewAccessListTx(0, 0, big.NewInt(1), 21000, to, big.NewInt(0), nil, nil))
	digest := evmkit.Keccak256(must(txn.EncodeForSigning()))
	sig := must(key.Sign(digest.Bytes()))
	if _, err := txn.WithSignature(sig); err == nil {
		t.Fatal("expected error signing access-list transaction with zero chain id")
	}
}

func TestAccessListTxDefaultsToEmptyList(t *testing.T) {
	to := must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
	txn := must(tx.NewAccessListTx(1, 0, big.NewInt(1), 21000, to, big.NewInt(0), nil, nil))
	if txn.AccessList == nil {
		t.Fatal("expected nil access list to default to empty, not nil")
	}
	if len(txn.AccessList) != 0 {
		t.Fatalf("expected empty access list, got %d entries", len(txn.AccessList))
	}
}
