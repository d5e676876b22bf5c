package signer

import (
	"math/big"
	"testing"
)

func TestRecoverRejectsRecoveryIDTwo(t *testing.T) {
	sig := Signature{r: big.NewInt(1), s: big.NewInt(1), recoveryID: 2}
	if _, err := Recover(make([]byte, 32), sig); err != ErrUnsupportedRecoveryID {
		t.Errorf("Recover with recovery id 2: got err %v, want ErrUnsupportedRecoveryID", err)
	}
}
