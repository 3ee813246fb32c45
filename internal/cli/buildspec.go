package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var buildSpecCmd = &cobra.Command{
	Use:   "build-spec",
	Short: "Serialize an anchoring instance config for deployment",
	Long: `Build the binary service configuration the runtime expects from a
human-written anchoring instance file.

Examples:
  anchorctl build-spec -f anchoring.yaml -o anchoring-spec.bin
  anchorctl build-spec -f deploy.yaml --instance anchoring -o -`,
	RunE: runBuildSpec,
}

func init() {
	buildSpecCmd.Flags().StringP("file", "f", "anchoring.yaml", "instance file")
	buildSpecCmd.Flags().StringP("output", "o", "anchoring-spec.bin", "output file, - for hex on stdout")
	buildSpecCmd.Flags().String("instance", "", "instance name (defaults to the only instance in the file)")

	rootCmd.AddCommand(buildSpecCmd)
}

func runBuildSpec(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	output, _ := cmd.Flags().GetString("output")
	instanceName, _ := cmd.Flags().GetString("instance")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inst, err := loadInstance(file, instanceName, cfg.Artifact.Artifact())
	if err != nil {
		return err
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}
	reg := newRegistry(resolver)

	spec, err := reg.LoadSpec(context.Background(), inst)
	if err != nil {
		return err
	}

	slog.Info("built instance spec",
		slog.String("artifact", inst.Artifact.String()),
		slog.String("instance", inst.Name),
		slog.Int("bytes", len(spec)),
	)

	if output == "-" {
		fmt.Println(hex.EncodeToString(spec))
		return nil
	}
	if err := os.WriteFile(output, spec, 0644); err != nil {
		return fmt.Errorf("failed to write spec: %w", err)
	}
	fmt.Printf("Spec written to %s (%d bytes)\n", output, len(spec))
	return nil
}
