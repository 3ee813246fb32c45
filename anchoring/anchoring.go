// Package anchoring implements the launcher spec loader for the BTC
// anchoring service: it translates the human-authored anchoring
// configuration (network, interval, fee, ordered validator keypairs)
// into the serialized Config message a deployment transaction carries.
package anchoring

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

// Artifact identity the loader registers for.
const (
	ArtifactName   = "exonum-btc-anchoring"
	DefaultVersion = "1.0.0"
)

// Key material sizes, in bytes.
const (
	ServiceKeyLen = 32 // ed25519 public key
	BitcoinKeyLen = 33 // compressed secp256k1 public key
)

// Network is the name of the bitcoin network anchor transactions are
// sent to, as written in the configuration file.
type Network string

// Networks the anchoring service recognizes.
const (
	NetworkBitcoin Network = "bitcoin"
	NetworkTestnet Network = "testnet"
	NetworkRegtest Network = "regtest"
)

// Networks returns the recognized network names, in documentation order.
func Networks() []Network {
	return []Network{NetworkBitcoin, NetworkTestnet, NetworkRegtest}
}

// Magic returns the 32-bit network magic carried by the Config
// message. Any name outside the recognized set is an error.
func (n Network) Magic() (uint32, error) {
	switch n {
	case NetworkBitcoin:
		return uint32(wire.MainNet), nil
	case NetworkTestnet:
		return uint32(wire.TestNet3), nil
	case NetworkRegtest:
		// wire.TestNet is the regression test network magic.
		return uint32(wire.TestNet), nil
	}
	return 0, fmt.Errorf("unknown bitcoin network %q", string(n))
}

// ChainParams returns the chain parameters for the network, for key
// generation and address derivation.
func (n Network) ChainParams() (*chaincfg.Params, error) {
	switch n {
	case NetworkBitcoin:
		return &chaincfg.MainNetParams, nil
	case NetworkTestnet:
		return &chaincfg.TestNet3Params, nil
	case NetworkRegtest:
		return &chaincfg.RegressionNetParams, nil
	}
	return nil, fmt.Errorf("unknown bitcoin network %q", string(n))
}
