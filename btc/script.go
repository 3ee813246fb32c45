package btc

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/Bidon15/anchorkit/anchoring"
)

// MajorityCount returns the byzantine majority for n validators,
// n*2/3 + 1. Anchoring transactions need that many signatures.
func MajorityCount(n int) int {
	return n*2/3 + 1
}

// RedeemScript builds the quorum-of-len(keys) OP_CHECKMULTISIG script
// over the validators' bitcoin keys. The script commits to key order,
// so the order must match the anchoring config.
func RedeemScript(keys []*btcec.PublicKey, quorum int) ([]byte, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("redeem script needs at least one key")
	}
	if quorum < 1 || quorum > len(keys) {
		return nil, fmt.Errorf("quorum must be between 1 and %d, got %d", len(keys), quorum)
	}

	builder := txscript.NewScriptBuilder()
	builder.AddInt64(int64(quorum))
	for _, key := range keys {
		builder.AddData(key.SerializeCompressed())
	}
	builder.AddInt64(int64(len(keys)))
	builder.AddOp(txscript.OP_CHECKMULTISIG)

	script, err := builder.Script()
	if err != nil {
		return nil, fmt.Errorf("failed to build redeem script: %w", err)
	}
	return script, nil
}

// AnchoringAddress derives the address anchoring transactions pay to:
// the pay-to-witness-script-hash of the redeem script on the given
// network.
func AnchoringAddress(redeemScript []byte, params *chaincfg.Params) (*btcutil.AddressWitnessScriptHash, error) {
	if len(redeemScript) == 0 {
		return nil, fmt.Errorf("redeem script cannot be empty")
	}
	hash := sha256.Sum256(redeemScript)
	addr, err := btcutil.NewAddressWitnessScriptHash(hash[:], params)
	if err != nil {
		return nil, fmt.Errorf("failed to derive anchoring address: %w", err)
	}
	return addr, nil
}

// ConfigAddress derives the anchoring address straight from an
// anchoring config: it parses the bitcoin half of every keypair,
// builds the majority-quorum redeem script, and hashes it for the
// config's network.
func ConfigAddress(cfg anchoring.Config) (*btcutil.AddressWitnessScriptHash, error) {
	params, err := cfg.Network.ChainParams()
	if err != nil {
		return nil, err
	}
	keys := make([]*btcec.PublicKey, len(cfg.AnchoringKeys))
	for i, pair := range cfg.AnchoringKeys {
		key, err := ParseBitcoinKey(pair.BitcoinKey)
		if err != nil {
			return nil, fmt.Errorf("anchoring key %d: %w", i, err)
		}
		keys[i] = key
	}
	script, err := RedeemScript(keys, MajorityCount(len(keys)))
	if err != nil {
		return nil, err
	}
	return AnchoringAddress(script, params)
}
