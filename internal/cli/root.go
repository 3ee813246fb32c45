// Package cli implements the anchorctl command tree.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Bidon15/anchorkit/anchoring"
	"github.com/Bidon15/anchorkit/internal/config"
	"github.com/Bidon15/anchorkit/launcher"
	"github.com/Bidon15/anchorkit/schema"
)

var (
	cfgFile string
	verbose bool

	logLevel = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "anchorctl",
	Short: "Deployment tooling for the btc anchoring service",
	Long: `anchorctl prepares btc anchoring deployments: it turns a
human-written anchoring configuration into the binary service spec the
runtime expects, generates validator key material, and derives the
anchoring multisig address.

Examples:
  anchorctl keygen --network testnet --count 4 -o keys.yaml
  anchorctl build-spec -f anchoring.yaml -o anchoring-spec.bin
  anchorctl address -f anchoring.yaml
  anchorctl networks`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logLevel.Set(slog.LevelDebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches for anchorctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// LogLevel returns the level var the JSON handler in main is built
// with; --verbose raises it before any command runs.
func LogLevel() *slog.LevelVar {
	return logLevel
}

// loadConfig reads the tool configuration, honoring --config.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newResolver builds the schema resolver the spec loaders run
// against: the configured registry if schema.url is set, the bundled
// descriptor mirror otherwise.
func newResolver(cfg *config.Config) (*schema.Resolver, error) {
	var loader schema.Loader
	if cfg.Schema.URL != "" {
		loader = schema.NewHTTPLoader(cfg.Schema.URL, schema.WithTimeout(cfg.Schema.Timeout))
	} else {
		set, err := anchoring.MarshaledFileDescriptorSet()
		if err != nil {
			return nil, err
		}
		static := schema.NewStaticLoader()
		static.Add(cfg.Artifact.Artifact(), set)
		loader = static
	}

	var opts []schema.ResolverOption
	if cfg.Schema.Reload {
		opts = append(opts, schema.WithReload())
	}
	return schema.NewResolver(loader, opts...), nil
}

// newRegistry wires every spec loader the tool ships against the
// resolver. Today that is the anchoring service only.
func newRegistry(resolver *schema.Resolver) *launcher.Registry {
	reg := launcher.NewRegistry()
	anchoring.Register(reg, resolver)
	return reg
}
