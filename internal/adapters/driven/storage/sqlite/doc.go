// Package sqlite provides a SQLite-backed implementation of the vector store
// driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Each persisted vector is
// one row keyed by granularity and identifier, with the embedding stored as a
// little-endian float32 BLOB.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// The database lives at <index dir>/vectors.db.
package sqlite
