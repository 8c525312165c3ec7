package driven

import "github.com/custodia-labs/recollect/internal/core/domain"

// SettingsStore persists application settings.
// Implementations handle file format and location.
type SettingsStore interface {
	// Load reads settings from storage. A missing store yields defaults.
	Load() (domain.Settings, error)

	// Save persists the settings immediately.
	Save(settings domain.Settings) error

	// Path returns the storage location for display purposes.
	Path() string
}
