package tx

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// wireJSON is the JSON shape shared by LegacyTx and FeeMarketTx, in the
// style of an RPC's eth_getTransactionByHash result. AccessListTx has no
// JSON form. It is a
// convenience for RPC collaborators that exchange transactions as JSON
// rather than raw RLP bytes; the core wire format remains byte strings.
type wireJSON struct {
	From      string `json:"from,omitempty"`
	Gas       string `json:"gas"`
	GasPrice  string `json:"gasPrice,omitempty"`
	GasTipCap string `json:"maxPriorityFeePerGas,omitempty"`
	GasFeeCap string `json:"maxFeePerGas,omitempty"`
	Hash      string `json:"hash,omitempty"`
	Input     string `json:"input"`
	Nonce     string `json:"nonce"`
	To        string `json:"to,omitempty"`
	Value     string `json:"value"`
	ChainID   string `json:"chainId,omitempty"`
	Type      string `json:"type"`
	V         string `json:"v,omitempty"`
	R         string `json:"r,omitempty"`
	S         string `json:"s,omitempty"`
}

func hex0x(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

// MarshalJSON renders the legacy transaction in the common RPC JSON shape.
func (t LegacyTx) MarshalJSON() ([]byte, error) {
	obj := wireJSON{
		Gas:      hex0x(t.GasLimit),
		GasPrice: "0x" + t.GasPrice.Text(16),
		Input:    "0x" + hex.EncodeToString(t.Data),
		Nonce:    hex0x(t.Nonce),
		To:       t.To.String(),
		Value:    "0x" + t.Value.Text(16),
		ChainID:  hex0x(t.ChainID),
		Type:     "0x0",
	}
	if t.IsSigned() {
		if addr, err := t.Sender(); err == nil {
			obj.From = addr.String()
		}
		obj.V = "0x" + t.signature.V.Text(16)
		obj.R = "0x" + t.signature.R.Text(16)
		obj.S = "0x" + t.signature.S.Text(16)
	}
	return json.Marshal(obj)
}

// MarshalJSON renders the fee-market transaction in the common RPC JSON
// shape.
func (t FeeMarketTx) MarshalJSON() ([]byte, error) {
	obj := wireJSON{
		Gas:       hex0x(t.GasLimit),
		GasTipCap: "0x" + t.GasTipCap.Text(16),
		GasFeeCap: "0x" + t.GasFeeCap.Text(16),
		Input:     "0x" + hex.EncodeToString(t.Data),
		Nonce:     hex0x(t.Nonce),
		To:        t.To.String(),
		Value:     "0x" + t.Value.Text(16),
		ChainID:   hex0x(t.ChainID),
		Type:      "0x2",
	}
	if t.IsSigned() {
		if addr, err := t.Sender(); err == nil {
			obj.From = addr.String()
		}
		obj.V = "0x" + t.signature.V.Text(16)
		obj.R = "0x" + t.signature.R.Text(16)
		obj.S = "0x" + t.signature.S.Text(16)
	}
	return json.Marshal(obj)
}
