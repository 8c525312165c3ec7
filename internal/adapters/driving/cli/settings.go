package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recollect/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/core/services"
)

var (
	setTimezone      string
	setMode          string
	setIncludeTitles string
	setRecency       float64
	setCandidates    int
	setResults       int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage Recollect settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update settings",
	Long: `Updates one or more settings and persists them. Validation is
all-or-nothing: an invalid timezone or retrieval mode rejects the whole
update.`,
	RunE: runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&setTimezone, "timezone", "", "IANA timezone name")
	settingsSetCmd.Flags().StringVar(&setMode, "mode", "", "default retrieval granularity")
	settingsSetCmd.Flags().StringVar(&setIncludeTitles, "include-titles", "", "prefix segments with their heading (true/false)")
	settingsSetCmd.Flags().Float64Var(&setRecency, "recency-weight", -1, "score penalty per day of age")
	settingsSetCmd.Flags().IntVar(&setCandidates, "candidates", 0, "dense retrieval candidate count")
	settingsSetCmd.Flags().IntVar(&setResults, "results", 0, "result count")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// newSettingsService builds just the settings service, without pinging
// providers; settings commands work offline.
func newSettingsService() (*services.Settings, error) {
	store, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}
	return services.NewSettings(store), nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}

	cfg := svc.Get()
	cmd.Printf("docs_dir:        %s\n", cfg.DocsDir)
	cmd.Printf("index_dir:       %s\n", cfg.IndexDir)
	cmd.Printf("timezone:        %s\n", cfg.Timezone)
	cmd.Printf("include_titles:  %t\n", cfg.IncludeTitles)
	cmd.Printf("retrieval_mode:  %s\n", cfg.RetrievalMode)
	cmd.Printf("recency_weight:  %g\n", cfg.RecencyWeight)
	cmd.Printf("n_candidates:    %d\n", cfg.NCandidates)
	cmd.Printf("n_results:       %d\n", cfg.NResults)
	cmd.Printf("port:            %d\n", cfg.Port)
	cmd.Printf("embedding:       %s (%s, %d dims)\n", cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	cmd.Printf("rerank:          %s (%s)\n", cfg.Rerank.BaseURL, cfg.Rerank.Model)
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}

	patch := domain.SettingsPatch{}
	if setTimezone != "" {
		patch.Timezone = &setTimezone
	}
	if setMode != "" {
		patch.RetrievalMode = &setMode
	}
	if setIncludeTitles != "" {
		include := setIncludeTitles == "true"
		patch.IncludeTitles = &include
	}
	if setRecency >= 0 {
		patch.RecencyWeight = &setRecency
	}
	if setCandidates > 0 {
		patch.NCandidates = &setCandidates
	}
	if setResults > 0 {
		patch.NResults = &setResults
	}

	if _, err := svc.Update(patch); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	cmd.Println("Settings updated.")
	return nil
}
