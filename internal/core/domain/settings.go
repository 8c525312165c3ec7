package domain

import "time"

// Settings holds all application settings.
type Settings struct {
	// DocsDir is the root directory of the journal tree.
	DocsDir string

	// IndexDir is where vector indices are persisted.
	IndexDir string

	// Timezone is the IANA zone name used for timestamp normalization.
	Timezone string

	// IncludeTitles prefixes segment text with the heading line when true.
	IncludeTitles bool

	// RetrievalMode is the default query granularity.
	RetrievalMode Granularity

	// RecencyWeight is the score penalty per day of age. Zero disables decay.
	RecencyWeight float64

	// NCandidates is the dense retrieval candidate count before reranking.
	NCandidates int

	// NResults is the number of results returned to callers.
	NResults int

	// Port is the HTTP API listen port.
	Port int

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Rerank holds rerank provider settings.
	Rerank RerankSettings
}

// AIProvider identifies an AI service provider for embeddings.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the embedding vector size. All four indices share it.
	Dimensions int
}

// RerankSettings holds cross-encoder rerank provider configuration.
type RerankSettings struct {
	// BaseURL is the rerank endpoint (TEI-compatible /rerank API).
	BaseURL string

	// Model is the cross-encoder model name.
	Model string
}

// DefaultSettings returns settings with sensible defaults.
// The embedding provider defaults to a local Ollama instance.
func DefaultSettings() Settings {
	return Settings{
		DocsDir:       "./notes",
		IndexDir:      "./index",
		Timezone:      "UTC",
		IncludeTitles: true,
		RetrievalMode: GranularityMemory,
		RecencyWeight: 0,
		NCandidates:   10,
		NResults:      5,
		Port:          5712,
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      "all-minilm",
			BaseURL:    "http://localhost:11434",
			Dimensions: 384,
		},
		Rerank: RerankSettings{
			BaseURL: "http://localhost:8787",
			Model:   "cross-encoder/ms-marco-MiniLM-L-6-v2",
		},
	}
}

// Location resolves the configured timezone.
// Falls back to UTC if the zone cannot be loaded.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks settings for values the core cannot operate with.
func (s Settings) Validate() error {
	if !s.RetrievalMode.IsValid() {
		return ErrInvalidGranularity
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return ErrInvalidTimezone
	}
	return nil
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
// Unknown keys in an inbound payload are ignored by construction: there is one
// optional field per recognised setting and nothing else.
type SettingsPatch struct {
	Timezone      *string  `json:"timezone,omitempty"`
	IncludeTitles *bool    `json:"include_titles,omitempty"`
	RetrievalMode *string  `json:"retrieval_mode,omitempty"`
	RecencyWeight *float64 `json:"recency_weight,omitempty"`
	NCandidates   *int     `json:"n_candidates,omitempty"`
	NResults      *int     `json:"n_results,omitempty"`
}

// Apply validates the patch and returns the updated settings.
// No field is committed if any field fails validation.
func (s Settings) Apply(patch SettingsPatch) (Settings, error) {
	out := s

	if patch.Timezone != nil {
		if _, err := time.LoadLocation(*patch.Timezone); err != nil {
			return s, ErrInvalidTimezone
		}
		out.Timezone = *patch.Timezone
	}
	if patch.RetrievalMode != nil {
		mode := Granularity(*patch.RetrievalMode)
		if !mode.IsValid() {
			return s, ErrInvalidGranularity
		}
		out.RetrievalMode = mode
	}
	if patch.IncludeTitles != nil {
		out.IncludeTitles = *patch.IncludeTitles
	}
	if patch.RecencyWeight != nil {
		out.RecencyWeight = *patch.RecencyWeight
	}
	if patch.NCandidates != nil && *patch.NCandidates > 0 {
		out.NCandidates = *patch.NCandidates
	}
	if patch.NResults != nil && *patch.NResults > 0 {
		out.NResults = *patch.NResults
	}

	return out, nil
}
