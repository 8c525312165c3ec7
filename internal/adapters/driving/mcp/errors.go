// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Recollect. It enables AI assistants to search the journal index and
// trigger reindexing.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
