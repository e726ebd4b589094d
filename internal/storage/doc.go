// Package storage defines the persistence interfaces for the roll engine.
//
// It provides a high-level abstraction for stored roll macros, initiative
// tables, and per-guild roll statistics. Implementations of these
// interfaces (SQLite for relational records, bbolt for initiative state)
// live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
package storage
