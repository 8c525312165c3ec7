// Package driving provides interfaces for inbound actors
// (primary ports): the CLI, the HTTP API and the MCP server.
package driving
