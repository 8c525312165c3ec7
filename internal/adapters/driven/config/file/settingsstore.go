package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// fileSettings is the TOML schema. It mirrors domain.Settings with explicit
// keys so the on-disk format stays stable across refactors.
type fileSettings struct {
	DocsDir       string  `toml:"docs_dir"`
	IndexDir      string  `toml:"index_dir"`
	Timezone      string  `toml:"timezone"`
	IncludeTitles bool    `toml:"include_titles"`
	RetrievalMode string  `toml:"retrieval_mode"`
	RecencyWeight float64 `toml:"recency_weight"`
	NCandidates   int     `toml:"n_candidates"`
	NResults      int     `toml:"n_results"`
	Port          int     `toml:"port"`

	Embedding fileEmbedding `toml:"embedding"`
	Rerank    fileRerank    `toml:"rerank"`
}

type fileEmbedding struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	Dimensions int    `toml:"dimensions"`
}

type fileRerank struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// SettingsStore is a file-based implementation of driven.SettingsStore using
// TOML. Settings are stored in a single file within the config directory.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a TOML-based settings store.
// If configDir is empty, defaults to ~/.recollect/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".recollect")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from the TOML file. A missing file yields defaults.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.DefaultSettings(), fmt.Errorf("read settings file: %w", err)
	}

	// Start from defaults so keys absent from the file keep their default
	// values instead of zeroing out.
	fs := toFile(domain.DefaultSettings())
	if err := toml.Unmarshal(data, &fs); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("parse settings file: %w", err)
	}

	return fromFile(fs), nil
}

// Save persists the settings immediately.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(toFile(settings))
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Write with restricted permissions, the file may hold an API key
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

func toFile(d domain.Settings) fileSettings {
	return fileSettings{
		DocsDir:       d.DocsDir,
		IndexDir:      d.IndexDir,
		Timezone:      d.Timezone,
		IncludeTitles: d.IncludeTitles,
		RetrievalMode: d.RetrievalMode.String(),
		RecencyWeight: d.RecencyWeight,
		NCandidates:   d.NCandidates,
		NResults:      d.NResults,
		Port:          d.Port,
		Embedding: fileEmbedding{
			Provider:   d.Embedding.Provider.String(),
			Model:      d.Embedding.Model,
			BaseURL:    d.Embedding.BaseURL,
			APIKey:     d.Embedding.APIKey,
			Dimensions: d.Embedding.Dimensions,
		},
		Rerank: fileRerank{
			BaseURL: d.Rerank.BaseURL,
			Model:   d.Rerank.Model,
		},
	}
}

func fromFile(f fileSettings) domain.Settings {
	return domain.Settings{
		DocsDir:       f.DocsDir,
		IndexDir:      f.IndexDir,
		Timezone:      f.Timezone,
		IncludeTitles: f.IncludeTitles,
		RetrievalMode: domain.Granularity(f.RetrievalMode),
		RecencyWeight: f.RecencyWeight,
		NCandidates:   f.NCandidates,
		NResults:      f.NResults,
		Port:          f.Port,
		Embedding: domain.EmbeddingSettings{
			Provider:   domain.AIProvider(f.Embedding.Provider),
			Model:      f.Embedding.Model,
			BaseURL:    f.Embedding.BaseURL,
			APIKey:     f.Embedding.APIKey,
			Dimensions: f.Embedding.Dimensions,
		},
		Rerank: domain.RerankSettings{
			BaseURL: f.Rerank.BaseURL,
			Model:   f.Rerank.Model,
		},
	}
}
