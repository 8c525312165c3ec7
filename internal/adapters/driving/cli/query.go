package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

var (
	queryMode    string
	queryLimit   int
	queryRecency float64
	queryJSON    bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a one-shot query against the journal index",
	Long: `Builds the index from the journal tree and answers a single query.
Results are printed as a table by default; use --json for machine output.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryMode, "mode", "m", "", "retrieval granularity (day, memory, section, line)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results")
	queryCmd.Flags().Float64Var(&queryRecency, "recency-weight", -1, "score penalty per day of age")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	a.indexer.Load(ctx)
	if err := a.indexer.Rebuild(ctx); err != nil {
		return fmt.Errorf("index build: %w", err)
	}

	opts := domain.QueryOptions{}
	if queryMode != "" {
		mode := domain.Granularity(queryMode)
		opts.Mode = &mode
	}
	if queryLimit > 0 {
		opts.NResults = &queryLimit
	}
	if queryRecency >= 0 {
		opts.RecencyWeight = &queryRecency
	}

	results, err := a.query.Query(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, results)
	}
	return outputQueryTable(cmd, results)
}

func outputQueryJSON(cmd *cobra.Command, results []domain.QueryResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, results []domain.QueryResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		header := results[i].Title
		if header == "" {
			header = string(results[i].Granularity)
		}
		if results[i].Date != nil {
			header = fmt.Sprintf("%s (%s)", header, results[i].Date.Format(time.DateOnly))
		}

		cmd.Printf("  [%d] %s\n", i+1, header)
		if results[i].ParentMemory != "" {
			cmd.Printf("      Memory: %s\n", results[i].ParentMemory)
		}
		if results[i].ParentSection != "" {
			cmd.Printf("      Section: %s\n", results[i].ParentSection)
		}
		cmd.Printf("      %s\n", results[i].Text)
		cmd.Println()
	}

	return nil
}
