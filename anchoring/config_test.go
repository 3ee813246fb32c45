package anchoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawConfig mirrors the anchoring section of a real instance file.
func validRawConfig() map[string]any {
	return map[string]any{
		"network":            "testnet",
		"anchoring_interval": 1000,
		"transaction_fee":    100,
		"anchoring_keys": []any{
			map[string]any{
				"service_key": strings.Repeat("aa", 32),
				"bitcoin_key": strings.Repeat("bb", 33),
			},
		},
	}
}

func TestDecodeConfig(t *testing.T) {
	t.Run("decodes a valid mapping", func(t *testing.T) {
		cfg, err := DecodeConfig(validRawConfig())
		require.NoError(t, err)
		assert.Equal(t, NetworkTestnet, cfg.Network)
		assert.Equal(t, uint64(1000), cfg.AnchoringInterval)
		assert.Equal(t, uint64(100), cfg.TransactionFee)
		require.Len(t, cfg.AnchoringKeys, 1)
		assert.Equal(t, strings.Repeat("aa", 32), cfg.AnchoringKeys[0].ServiceKey)
		assert.Equal(t, strings.Repeat("bb", 33), cfg.AnchoringKeys[0].BitcoinKey)
	})

	t.Run("empty anchoring_keys list is valid", func(t *testing.T) {
		raw := validRawConfig()
		raw["anchoring_keys"] = []any{}

		cfg, err := DecodeConfig(raw)
		require.NoError(t, err)
		assert.Empty(t, cfg.AnchoringKeys)
	})

	t.Run("missing fields are errors", func(t *testing.T) {
		for _, field := range []string{"network", "anchoring_interval", "transaction_fee", "anchoring_keys"} {
			t.Run(field, func(t *testing.T) {
				raw := validRawConfig()
				delete(raw, field)

				_, err := DecodeConfig(raw)
				require.Error(t, err)
				assert.Contains(t, err.Error(), field)
			})
		}
	})

	t.Run("unknown field is an error", func(t *testing.T) {
		raw := validRawConfig()
		raw["funding_txid"] = "ff"

		_, err := DecodeConfig(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "funding_txid")
	})

	t.Run("negative interval is an error", func(t *testing.T) {
		raw := validRawConfig()
		raw["anchoring_interval"] = -5

		_, err := DecodeConfig(raw)
		require.Error(t, err)
	})

	t.Run("non-numeric fee is an error", func(t *testing.T) {
		raw := validRawConfig()
		raw["transaction_fee"] = "cheap"

		_, err := DecodeConfig(raw)
		require.Error(t, err)
	})
}

func TestDecodeServiceKey(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		raw, err := DecodeServiceKey(strings.Repeat("aa", 32))
		require.NoError(t, err)
		require.Len(t, raw, ServiceKeyLen)
		assert.Equal(t, byte(0xAA), raw[0])
	})

	t.Run("odd length hex", func(t *testing.T) {
		_, err := DecodeServiceKey("abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid hex")
	})

	t.Run("non-hex characters", func(t *testing.T) {
		_, err := DecodeServiceKey(strings.Repeat("zz", 32))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid hex")
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := DecodeServiceKey(strings.Repeat("aa", 31))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be 32 bytes, got 31")
	})
}

func TestDecodeBitcoinKey(t *testing.T) {
	t.Run("valid compressed key encoding", func(t *testing.T) {
		raw, err := DecodeBitcoinKey("02" + strings.Repeat("11", 32))
		require.NoError(t, err)
		assert.Len(t, raw, BitcoinKeyLen)
	})

	t.Run("length check only, no curve check", func(t *testing.T) {
		// 0xBB…BB is not a point on secp256k1; the builder must still
		// accept it.
		raw, err := DecodeBitcoinKey(strings.Repeat("bb", 33))
		require.NoError(t, err)
		assert.Len(t, raw, BitcoinKeyLen)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := DecodeBitcoinKey(strings.Repeat("bb", 32))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be 33 bytes, got 32")
	})
}
