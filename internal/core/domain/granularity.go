package domain

const unknownDescription = "Unknown"

// Granularity identifies the level at which a journal document is segmented
// and indexed. Each granularity has its own vector index.
type Granularity string

// Available granularities, coarsest first.
const (
	// GranularityDay is the whole document for one calendar day.
	GranularityDay Granularity = "day"

	// GranularityMemory is a top-level (`# `) heading block.
	GranularityMemory Granularity = "memory"

	// GranularitySection is a second-level (`## `) heading block.
	GranularitySection Granularity = "section"

	// GranularityLine is a single quoted (`> `) line.
	GranularityLine Granularity = "line"
)

// IsValid returns true if the granularity is recognised.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityMemory, GranularitySection, GranularityLine:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (g Granularity) String() string {
	return string(g)
}

// Description returns a human-readable description of the granularity.
func (g Granularity) Description() string {
	switch g {
	case GranularityDay:
		return "Whole Day"
	case GranularityMemory:
		return "Memories (#)"
	case GranularitySection:
		return "Sections (##)"
	case GranularityLine:
		return "Lines (>)"
	default:
		return unknownDescription
	}
}

// AllGranularities returns every granularity, coarsest first.
// The order is stable; callers rely on it for deterministic iteration.
func AllGranularities() []Granularity {
	return []Granularity{
		GranularityDay,
		GranularityMemory,
		GranularitySection,
		GranularityLine,
	}
}
