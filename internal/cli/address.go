package cli

import (
	"fmt"
	"log/slog"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/spf13/cobra"

	"github.com/Bidon15/anchorkit/anchoring"
	"github.com/Bidon15/anchorkit/btc"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Derive the anchoring multisig address",
	Long: `Compute the P2WSH address anchoring transactions pay to, from the
bitcoin keys of an instance file.

The quorum defaults to the byzantine majority of the key count
(n*2/3 + 1).

Examples:
  anchorctl address -f anchoring.yaml
  anchorctl address -f anchoring.yaml --quorum 2`,
	RunE: runAddress,
}

func init() {
	addressCmd.Flags().StringP("file", "f", "anchoring.yaml", "instance file")
	addressCmd.Flags().String("instance", "", "instance name (defaults to the only instance in the file)")
	addressCmd.Flags().Int("quorum", 0, "signature quorum (default n*2/3+1)")

	rootCmd.AddCommand(addressCmd)
}

func runAddress(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	instanceName, _ := cmd.Flags().GetString("instance")
	quorum, _ := cmd.Flags().GetInt("quorum")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inst, err := loadInstance(file, instanceName, cfg.Artifact.Artifact())
	if err != nil {
		return err
	}

	anchoringCfg, err := anchoring.DecodeConfig(inst.Config)
	if err != nil {
		return err
	}

	params, err := anchoringCfg.Network.ChainParams()
	if err != nil {
		return err
	}

	keys := make([]*btcec.PublicKey, len(anchoringCfg.AnchoringKeys))
	for i, pair := range anchoringCfg.AnchoringKeys {
		key, err := btc.ParseBitcoinKey(pair.BitcoinKey)
		if err != nil {
			return fmt.Errorf("anchoring key %d: %w", i, err)
		}
		keys[i] = key
	}

	if quorum == 0 {
		quorum = btc.MajorityCount(len(keys))
	}

	script, err := btc.RedeemScript(keys, quorum)
	if err != nil {
		return err
	}
	addr, err := btc.AnchoringAddress(script, params)
	if err != nil {
		return err
	}

	slog.Debug("derived anchoring address",
		slog.String("network", string(anchoringCfg.Network)),
		slog.Int("keys", len(keys)),
		slog.Int("quorum", quorum),
	)

	fmt.Println(addr.EncodeAddress())
	return nil
}
