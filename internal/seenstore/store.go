// Package seenstore tracks the item identifiers a keyword monitor has
// already processed. The set grows monotonically for the lifetime of the
// store; identifiers are never removed.
package seenstore

// Store is the seen-set abstraction. The in-memory implementation is the
// default; the sqlite implementation survives restarts.
type Store interface {
	// Add records an identifier as seen. Adding an identifier twice is a
	// no-op, not an error.
	Add(id string) error
	// Contains reports whether the identifier has been seen.
	Contains(id string) bool
	// Len returns the number of distinct identifiers seen.
	Len() int
	// Close releases any underlying resources.
	Close() error
}
