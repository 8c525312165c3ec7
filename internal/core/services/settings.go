package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/core/ports/driven"
	"github.com/custodia-labs/recollect/internal/core/ports/driving"
	"github.com/custodia-labs/recollect/internal/logger"
)

// Ensure Settings implements the interface.
var _ driving.SettingsService = (*Settings)(nil)

// Settings serves the current configuration and applies partial updates.
// Reads return a copy, so concurrent readers never observe a half-applied
// patch.
type Settings struct {
	store driven.SettingsStore

	mu      sync.RWMutex
	current domain.Settings
}

// NewSettings loads settings from the store. A missing or unreadable store
// falls back to defaults so the service always starts.
func NewSettings(store driven.SettingsStore) *Settings {
	current, err := store.Load()
	if err != nil {
		logger.Warn("Could not load settings from %s, using defaults: %v", store.Path(), err)
		current = domain.DefaultSettings()
	}
	if err := current.Validate(); err != nil {
		logger.Warn("Stored settings invalid, using defaults: %v", err)
		current = domain.DefaultSettings()
	}
	return &Settings{store: store, current: current}
}

// Get returns the current settings.
func (s *Settings) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies a partial update and persists the result. Validation is
// all-or-nothing: a single invalid field rejects the whole patch.
func (s *Settings) Update(patch domain.SettingsPatch) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.current.Apply(patch)
	if err != nil {
		return s.current, err
	}

	if err := s.store.Save(updated); err != nil {
		return s.current, fmt.Errorf("persist settings: %w", err)
	}

	s.current = updated
	logger.Debug("Settings updated and saved to %s", s.store.Path())
	return updated, nil
}
