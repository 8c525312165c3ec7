package driving

import "github.com/custodia-labs/recollect/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings.
	Get() domain.Settings

	// Update applies a partial update and persists the result.
	// Invalid timezone or retrieval mode values are rejected without
	// committing any field.
	Update(patch domain.SettingsPatch) (domain.Settings, error)
}
