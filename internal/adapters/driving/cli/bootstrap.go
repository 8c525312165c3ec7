package cli

import (
	"fmt"

	"github.com/custodia-labs/recollect/internal/adapters/driven/ai"
	"github.com/custodia-labs/recollect/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recollect/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recollect/internal/core/ports/driven"
	"github.com/custodia-labs/recollect/internal/core/services"
)

// app holds the wired service graph for one command invocation.
type app struct {
	settings *services.Settings
	embedder driven.EmbeddingService
	reranker driven.Reranker
	store    *sqlite.Store
	indexer  *services.Indexer
	query    *services.Query
}

// newApp builds the full service graph: config, providers, persistence and
// the core services on top. Providers are pinged up front so misconfiguration
// surfaces before any indexing work starts.
func newApp() (*app, error) {
	settingsStore, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}
	settingsSvc := services.NewSettings(settingsStore)
	cfg := settingsSvc.Get()

	embedder, err := ai.CreateAndValidateEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	reranker, err := ai.CreateAndValidateReranker(cfg.Rerank)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	store, err := sqlite.NewStore(cfg.IndexDir)
	if err != nil {
		embedder.Close()
		reranker.Close()
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	indexer := services.NewIndexer(embedder, store, settingsSvc)
	query := services.NewQuery(embedder, reranker, indexer, settingsSvc)

	return &app{
		settings: settingsSvc,
		embedder: embedder,
		reranker: reranker,
		store:    store,
		indexer:  indexer,
		query:    query,
	}, nil
}

// Close releases all resources held by the app.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.reranker != nil {
		a.reranker.Close()
	}
	if a.embedder != nil {
		a.embedder.Close()
	}
}
