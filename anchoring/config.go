package anchoring

import (
	"encoding/hex"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Config is the anchoring section of an instance configuration, as
// authored by the operator.
type Config struct {
	Network           Network   `mapstructure:"network" yaml:"network"`
	AnchoringInterval uint64    `mapstructure:"anchoring_interval" yaml:"anchoring_interval"`
	TransactionFee    uint64    `mapstructure:"transaction_fee" yaml:"transaction_fee"`
	AnchoringKeys     []Keypair `mapstructure:"anchoring_keys" yaml:"anchoring_keys"`
}

// Keypair holds one validator's public keys, hex-encoded. List order
// is significant: the position defines the validator index the rest of
// the network agrees on.
type Keypair struct {
	ServiceKey string `mapstructure:"service_key" yaml:"service_key"`
	BitcoinKey string `mapstructure:"bitcoin_key" yaml:"bitcoin_key"`
}

// requiredConfigKeys must all be present in the raw mapping. An empty
// anchoring_keys list is valid, a missing one is not.
var requiredConfigKeys = []string{"network", "anchoring_interval", "transaction_fee", "anchoring_keys"}

// DecodeConfig decodes the raw instance configuration mapping into a
// Config. Missing and unknown fields are errors; key material is
// checked later, when the keys are decoded.
func DecodeConfig(raw map[string]any) (Config, error) {
	for _, key := range requiredConfigKeys {
		if _, ok := raw[key]; !ok {
			return Config{}, fmt.Errorf("missing configuration field %q", key)
		}
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode anchoring config: %w", err)
	}
	return cfg, nil
}

// DecodeServiceKey decodes a hex-encoded ed25519 public key.
func DecodeServiceKey(s string) ([]byte, error) {
	return decodeKey("service", s, ServiceKeyLen)
}

// DecodeBitcoinKey decodes a hex-encoded compressed secp256k1 public
// key. Only hex and length are checked here: whether the bytes name a
// curve point is the key generator's concern, not the spec builder's.
func DecodeBitcoinKey(s string) ([]byte, error) {
	return decodeKey("bitcoin", s, BitcoinKeyLen)
}

func decodeKey(kind, s string, want int) ([]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s key %q is not valid hex: %w", kind, s, err)
	}
	if len(raw) != want {
		return nil, fmt.Errorf("%s key must be %d bytes, got %d", kind, want, len(raw))
	}
	return raw, nil
}
