// Command evmkit-demo wires the core packages end to end: it loads a
// private key and chain id from the environment, builds a simple value
// transfer, signs it, and prints the resulting wire bytes and recovered
// sender. It performs no network I/O; HTTP transport is a caller
// concern, not this module's.
package main

import (
	"encoding/hex"
	"errors"
	"log/slog"
	"math/big"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/signer"
	"github.com/go-evmkit/evmkit/tx"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		logger.Error("evmkit-demo failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using OS environment")
	}

	privateKeyHex := getEnv("EVMKIT_PRIVATE_KEY", "")
	if privateKeyHex == "" {
		return errors.New("EVMKIT_PRIVATE_KEY is required")
	}
	to := getEnv("EVMKIT_TO", "0x43badf0e63ac147ace611dc1113afe0ea3f86918")
	chainID := getEnvUint64("EVMKIT_CHAIN_ID", 1)
	nonce := getEnvUint64("EVMKIT_NONCE", 0)

	rawKey, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return errors.New("EVMKIT_PRIVATE_KEY must be hex")
	}
	key, err := signer.NewPrivateKey(rawKey)
	if err != nil {
		return err
	}

	toAddr, err := evmkit.ParseAddress(to)
	if err != nil {
		return err
	}

	txn, err := tx.NewLegacyTx(nonce, big.NewInt(20_000_000_000), 21000, toAddr, big.NewInt(1), nil, chainID)
	if err != nil {
		return err
	}

	image, err := txn.EncodeForSigning()
	if err != nil {
		return err
	}
	digest := evmkit.Keccak256(image)

	sig, err := key.Sign(digest.Bytes())
	if err != nil {
		return err
	}

	signed, err := txn.WithSignature(sig)
	if err != nil {
		return err
	}

	wire, err := signed.WireBytes()
	if err != nil {
		return err
	}
	hash, err := signed.Hash()
	if err != nil {
		return err
	}
	sender, err := signed.Sender()
	if err != nil {
		return err
	}

	slog.Info("signed transaction",
		"from", sender.String(),
		"to", toAddr.String(),
		"nonce", nonce,
		"chain_id", chainID,
		"hash", hash.String(),
		"wire", hex.EncodeToString(wire),
	)
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvUint64(key string, fallback uint64) uint64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
