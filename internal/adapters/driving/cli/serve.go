package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recollect/internal/adapters/driven/watch"
	"github.com/custodia-labs/recollect/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/recollect/internal/core/services"
	"github.com/custodia-labs/recollect/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the indexing daemon and HTTP API",
	Long: `Starts the full Recollect daemon: loads the persisted indices,
rebuilds them from the journal tree, watches the tree for changes, and
serves the JSON API for queries and settings.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.settings.Get()

	// Persisted vectors come up first, then the rebuild walk reattaches
	// segment metadata. Queries served before the walk finishes wait on the
	// index lock.
	a.indexer.Load(ctx)
	if err := a.indexer.Rebuild(ctx); err != nil {
		return fmt.Errorf("initial index build: %w", err)
	}

	watcher, err := watch.NewWatcher(cfg.DocsDir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.DocsDir, err)
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	reconciler := services.NewReconciler(a.indexer, watcher.Events())
	go reconciler.Run(ctx)

	api := httpapi.NewServer(cfg.Port, a.query, a.indexer, a.settings)

	logger.Info("Recollect serving %s on port %d", cfg.DocsDir, cfg.Port)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://localhost:%d (docs: %s)\n", cfg.Port, cfg.DocsDir)

	return api.Run(ctx)
}
