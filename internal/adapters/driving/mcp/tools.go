package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query         string   `json:"query" jsonschema:"the natural language query to search journal entries for"`
	Mode          string   `json:"mode,omitempty" jsonschema:"retrieval granularity: day, memory, section or line (default from settings)"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default from settings)"`
	RecencyWeight *float64 `json:"recency_weight,omitempty" jsonschema:"score penalty per day of age, 0 disables recency bias"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Results []QueryResultOutput `json:"results"`
	Count   int                 `json:"count"`
}

// QueryResultOutput represents a single query result.
type QueryResultOutput struct {
	Text          string `json:"text"`
	Date          string `json:"date,omitempty"`
	Type          string `json:"type"`
	Title         string `json:"title,omitempty"`
	ParentMemory  string `json:"parent_memory,omitempty"`
	ParentSection string `json:"parent_section,omitempty"`
}

// RefreshInput is the input schema for the refresh tool.
type RefreshInput struct{}

// RefreshOutput is the output schema for the refresh tool.
type RefreshOutput struct {
	Counts map[string]int `json:"counts"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Search journal entries by semantic similarity",
	}, s.handleQuery)

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "refresh",
			Description: "Rebuild the journal index from scratch",
		}, s.handleRefresh)
	}
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	opts := domain.QueryOptions{
		RecencyWeight: input.RecencyWeight,
	}
	if input.Mode != "" {
		mode := domain.Granularity(input.Mode)
		opts.Mode = &mode
	}
	if input.Limit > 0 {
		opts.NResults = &input.Limit
	}

	results, err := s.ports.Query.Query(ctx, input.Query, opts)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Results: make([]QueryResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		date := ""
		if results[i].Date != nil {
			date = results[i].Date.Format(time.DateOnly)
		}
		output.Results[i] = QueryResultOutput{
			Text:          results[i].Text,
			Date:          date,
			Type:          results[i].Granularity.String(),
			Title:         results[i].Title,
			ParentMemory:  results[i].ParentMemory,
			ParentSection: results[i].ParentSection,
		}
	}

	return nil, output, nil
}

// handleRefresh handles the refresh tool invocation. It clears the indices
// and re-walks the docs directory.
func (s *Server) handleRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	if s.ports.Index == nil {
		return nil, RefreshOutput{}, errors.New("mcp: index manager not configured")
	}

	if err := s.ports.Index.Rebuild(ctx); err != nil {
		return nil, RefreshOutput{}, err
	}

	counts := make(map[string]int)
	for g, n := range s.ports.Index.Counts() {
		counts[g.String()] = n
	}
	return nil, RefreshOutput{Counts: counts}, nil
}
