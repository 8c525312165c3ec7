package domain

import "time"

// IndexStatus tracks the progress of a walk-and-index run.
// A zero value means no run has happened yet.
type IndexStatus struct {
	// RunID uniquely identifies the indexing run.
	RunID string `json:"run_id,omitempty"`

	// Indexing is true while a walk is in progress.
	Indexing bool `json:"is_indexing"`

	// CurrentFile is the file being indexed right now.
	CurrentFile string `json:"current_file,omitempty"`

	// TotalFiles is the number of eligible files found by the walk.
	TotalFiles int `json:"total_files"`

	// ProcessedFiles is the number of files handled so far.
	ProcessedFiles int `json:"processed_files"`

	// StartedAt is when the run began.
	StartedAt *time.Time `json:"start_time,omitempty"`

	// FinishedAt is when the run ended.
	FinishedAt *time.Time `json:"end_time,omitempty"`

	// Error is the last run-level error, if any.
	Error string `json:"error,omitempty"`

	// LastFullIndex is when the last full rebuild completed.
	LastFullIndex *time.Time `json:"last_full_index_time,omitempty"`

	// LastChangeIndex is when the last file-level change was applied.
	LastChangeIndex *time.Time `json:"last_change_index_time,omitempty"`
}

// Progress returns the completion percentage of the current run.
// Reports 100 when no run is in progress.
func (s IndexStatus) Progress() float64 {
	if !s.Indexing || s.TotalFiles == 0 {
		return 100
	}
	return float64(s.ProcessedFiles) / float64(s.TotalFiles) * 100
}
