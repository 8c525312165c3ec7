package domain

import "time"

// Segment is the atomic indexed unit: a slice of one journal document at a
// single granularity. Segments are immutable once created; re-indexing a file
// produces an entirely new set of segments that replaces the old set.
type Segment struct {
	// Text is the content fed to the embedding function.
	Text string

	// Title is the heading that opened this segment, if any.
	// Day and line segments have no title.
	Title string

	// Granularity is the segmentation level this segment belongs to.
	Granularity Granularity

	// SourceFile is the path of the document that produced this segment.
	SourceFile string

	// Date is the calendar date derived from the source file, if any.
	Date *time.Time

	// ParentMemory is the enclosing memory title.
	// Set only for section and line granularities.
	ParentMemory string

	// ParentSection is the enclosing section title.
	// Set only for line granularity.
	ParentSection string
}
