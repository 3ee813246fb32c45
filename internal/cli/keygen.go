package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Bidon15/anchorkit/anchoring"
	"github.com/Bidon15/anchorkit/btc"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate anchoring keypairs for validators",
	Long: `Generate service (ed25519) and bitcoin (secp256k1) keypairs for N
validators.

Public halves are written as an anchoring_keys list, ready to paste
into an instance file. Secrets (WIF and service key seed) go to a
separate file next to it with 0600 permissions.

Examples:
  anchorctl keygen --network testnet --count 4 -o keys.yaml
  anchorctl keygen --network regtest -o keys.yaml`,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().String("network", string(anchoring.NetworkTestnet), "bitcoin network (bitcoin, testnet, regtest)")
	keygenCmd.Flags().Int("count", 1, "number of validator keypairs")
	keygenCmd.Flags().StringP("output", "o", "keys.yaml", "output file for the public halves")

	rootCmd.AddCommand(keygenCmd)
}

// keygenPublic and keygenSecret are the two YAML documents keygen
// writes.
type keygenPublic struct {
	Network       string              `yaml:"network"`
	AnchoringKeys []anchoring.Keypair `yaml:"anchoring_keys"`
}

type keygenSecret struct {
	Network    string            `yaml:"network"`
	Validators []validatorSecret `yaml:"validators"`
}

type validatorSecret struct {
	ServiceKey     string `yaml:"service_key"`
	ServiceKeySeed string `yaml:"service_key_seed"`
	BitcoinKey     string `yaml:"bitcoin_key"`
	BitcoinKeyWIF  string `yaml:"bitcoin_key_wif"`
}

func runKeygen(cmd *cobra.Command, args []string) error {
	networkName, _ := cmd.Flags().GetString("network")
	count, _ := cmd.Flags().GetInt("count")
	output, _ := cmd.Flags().GetString("output")

	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	network := anchoring.Network(networkName)
	params, err := network.ChainParams()
	if err != nil {
		return err
	}

	public := keygenPublic{Network: string(network)}
	secret := keygenSecret{Network: string(network)}
	for i := 0; i < count; i++ {
		keys, err := btc.GenerateAnchoringKeys(params)
		if err != nil {
			return fmt.Errorf("validator %d: %w", i, err)
		}
		wif, err := keys.BitcoinKey.WIF()
		if err != nil {
			return fmt.Errorf("validator %d: %w", i, err)
		}
		public.AnchoringKeys = append(public.AnchoringKeys, keys.Keypair)
		secret.Validators = append(secret.Validators, validatorSecret{
			ServiceKey:     keys.Keypair.ServiceKey,
			ServiceKeySeed: keys.ServiceKey.SeedHex(),
			BitcoinKey:     keys.Keypair.BitcoinKey,
			BitcoinKeyWIF:  wif,
		})
	}

	publicData, err := yaml.Marshal(public)
	if err != nil {
		return fmt.Errorf("failed to encode keys: %w", err)
	}
	if err := os.WriteFile(output, publicData, 0644); err != nil {
		return fmt.Errorf("failed to write keys: %w", err)
	}

	secretFile := secretPath(output)
	secretData, err := yaml.Marshal(secret)
	if err != nil {
		return fmt.Errorf("failed to encode secrets: %w", err)
	}
	if err := os.WriteFile(secretFile, secretData, 0600); err != nil {
		return fmt.Errorf("failed to write secrets: %w", err)
	}

	slog.Info("generated anchoring keys",
		slog.String("network", string(network)),
		slog.Int("count", count),
	)

	fmt.Printf("Public keys written to %s\n", output)
	fmt.Printf("Secrets written to %s\n", secretFile)
	fmt.Println("Store the secrets file securely. It will not be shown again.")
	return nil
}

// secretPath places the secret document next to the public one:
// keys.yaml -> keys.secret.yaml.
func secretPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".secret" + ext
}
