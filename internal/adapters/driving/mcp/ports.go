package mcp

import (
	"github.com/custodia-labs/recollect/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query serves ranked retrieval over the journal index.
	Query driving.QueryService

	// Index manages the granular indices.
	Index driving.IndexManager

	// Settings serves the current configuration.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Index and Settings are optional; their tools degrade gracefully
	return nil
}
