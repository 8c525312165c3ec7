package domain

// FileOp is the kind of filesystem change delivered to the reconciler.
type FileOp string

// File operations.
const (
	// FileCreated indicates a new file appeared.
	FileCreated FileOp = "created"

	// FileModified indicates an existing file changed.
	FileModified FileOp = "modified"

	// FileDeleted indicates a file was removed or renamed away.
	FileDeleted FileOp = "deleted"
)

// FileEvent is one filesystem change. Events are applied strictly in delivery
// order; a rename is delivered as a Deleted for the old path followed by a
// Created for the new path.
type FileEvent struct {
	// Op is the change kind.
	Op FileOp

	// Path is the affected file.
	Path string
}
