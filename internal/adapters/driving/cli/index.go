package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the journal index from scratch",
	RunE:  runRefresh,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the journal index",
	Long:  `Clears all indexed segments and persists the empty indices.`,
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(resetCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.indexer.Rebuild(cmd.Context()); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	counts := a.indexer.Counts()
	cmd.Println("Index rebuilt:")
	for _, g := range domain.AllGranularities() {
		cmd.Printf("  %-8s %d segments\n", g, counts[g])
	}
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.indexer.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}
