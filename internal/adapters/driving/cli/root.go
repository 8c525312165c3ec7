// Package cli wires the Recollect services together behind a cobra command
// tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recollect/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "recollect",
	Short: "Semantic search over a markdown journal",
	Long: `Recollect indexes a markdown journal tree at four granularities
(day, memory, section, line) and answers natural language queries with a
dense retrieval + rerank pipeline.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.recollect)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
