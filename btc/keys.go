// Package btc provides the key material and script tooling an
// anchoring deployment needs: service (ed25519) and bitcoin
// (secp256k1) keypair generation, WIF export, the m-of-n anchoring
// redeem script, and the P2WSH anchoring address.
package btc

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/Bidon15/anchorkit/anchoring"
)

// ServiceKey is a node's ed25519 service identity.
type ServiceKey struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateServiceKey creates a new ed25519 service keypair.
func GenerateServiceKey() (ServiceKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return ServiceKey{}, fmt.Errorf("failed to generate service key: %w", err)
	}
	return ServiceKey{Public: pub, Private: priv}, nil
}

// PublicHex returns the hex encoding of the 32-byte public key, the
// form anchoring configs carry.
func (k ServiceKey) PublicHex() string {
	return hex.EncodeToString(k.Public)
}

// SeedHex returns the hex encoding of the private key seed. Secret.
func (k ServiceKey) SeedHex() string {
	return hex.EncodeToString(k.Private.Seed())
}

// BitcoinKey is a validator's secp256k1 anchoring key, bound to the
// network its WIF encodes for.
type BitcoinKey struct {
	priv   *btcec.PrivateKey
	params *chaincfg.Params
}

// GenerateBitcoinKey creates a new secp256k1 keypair for the network.
func GenerateBitcoinKey(params *chaincfg.Params) (*BitcoinKey, error) {
	if params == nil {
		return nil, fmt.Errorf("chain params cannot be nil")
	}
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return &BitcoinKey{priv: priv, params: params}, nil
}

// BitcoinKeyFromWIF restores a bitcoin key from wallet import format,
// checking it against the expected network.
func BitcoinKeyFromWIF(s string, params *chaincfg.Params) (*BitcoinKey, error) {
	wif, err := btcutil.DecodeWIF(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode WIF: %w", err)
	}
	if !wif.IsForNet(params) {
		return nil, fmt.Errorf("WIF is not for network %s", params.Name)
	}
	return &BitcoinKey{priv: wif.PrivKey, params: params}, nil
}

// PubKey returns the public key.
func (k *BitcoinKey) PubKey() *btcec.PublicKey {
	return k.priv.PubKey()
}

// PublicHex returns the compressed 33-byte public key, hex-encoded —
// the form anchoring configs carry.
func (k *BitcoinKey) PublicHex() string {
	return hex.EncodeToString(k.priv.PubKey().SerializeCompressed())
}

// WIF returns the private key in wallet import format, compressed,
// bound to the key's network. Secret.
func (k *BitcoinKey) WIF() (string, error) {
	wif, err := btcutil.NewWIF(k.priv, k.params, true)
	if err != nil {
		return "", fmt.Errorf("failed to encode WIF: %w", err)
	}
	return wif.String(), nil
}

// ParseBitcoinKey parses a hex-encoded compressed public key and
// checks it names a point on the curve. This is the strict counterpart
// of the builder-side length check: configs are only length-checked,
// freshly generated or operator-supplied keys go through here.
func ParseBitcoinKey(s string) (*btcec.PublicKey, error) {
	raw, err := anchoring.DecodeBitcoinKey(s)
	if err != nil {
		return nil, err
	}
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return pub, nil
}

// AnchoringKeygen bundles the fresh key material for one validator.
type AnchoringKeygen struct {
	Keypair    anchoring.Keypair // public halves, hex, config-ready
	ServiceKey ServiceKey
	BitcoinKey *BitcoinKey
}

// GenerateAnchoringKeys creates the service and bitcoin keypairs one
// validator contributes to an anchoring instance.
func GenerateAnchoringKeys(params *chaincfg.Params) (*AnchoringKeygen, error) {
	serviceKey, err := GenerateServiceKey()
	if err != nil {
		return nil, err
	}
	bitcoinKey, err := GenerateBitcoinKey(params)
	if err != nil {
		return nil, err
	}
	return &AnchoringKeygen{
		Keypair: anchoring.Keypair{
			ServiceKey: serviceKey.PublicHex(),
			BitcoinKey: bitcoinKey.PublicHex(),
		},
		ServiceKey: serviceKey,
		BitcoinKey: bitcoinKey,
	}, nil
}
