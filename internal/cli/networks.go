package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Bidon15/anchorkit/anchoring"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the recognized bitcoin networks",
	RunE:  runNetworks,
}

func init() {
	rootCmd.AddCommand(networksCmd)
}

func runNetworks(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NETWORK\tMAGIC")
	for _, network := range anchoring.Networks() {
		magic, err := network.Magic()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t0x%08X\n", network, magic)
	}
	return w.Flush()
}
