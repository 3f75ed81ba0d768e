package types

import "errors"

// Store defines backend-agnostic persistence for listings and named
// filters. Callers attach to a backend, access the tables, and detach when
// done. Persistence is an external collaborator of the in-memory core:
// nothing in pkg/types or pkg/filter blocks on I/O.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, table operations return ErrStoreDetached.
	Detach() error

	// Listings returns the listing table.
	Listings() (ListingTable, error)

	// NamedFilters returns the named-filter table.
	NamedFilters() (NamedFilterTable, error)
}

// ListingTable provides CRUD over persisted listings with their full
// per-source provenance.
type ListingTable interface {
	// Get retrieves the listing with the given id.
	// Returns ErrNotFound if no listing exists with that id.
	Get(id string) (*Listing, error)

	// Put creates or updates a listing. When the listing id is empty a new
	// UUID v7 is generated. Returns the actual id used.
	Put(l *Listing) (string, error)

	// Delete removes the listing with the given id.
	// Returns ErrNotFound if no listing exists with that id.
	Delete(id string) error

	// Fetch returns all listings whose resolved attributes equal every
	// entry in filter, in insertion order. A nil or empty filter returns
	// every listing. Matching happens in memory after hydration; there is
	// no query planner.
	Fetch(filter map[string]any) ([]*Listing, error)
}

// NamedFilterTable persists serialized filter expressions keyed by name.
// Expressions are stored as opaque JSON; the wire shape belongs to
// pkg/filter.
type NamedFilterTable interface {
	// Put stores an expression under name, replacing any prior entry.
	Put(name string, expression []byte) error

	// Get returns the stored expression.
	// Returns ErrNotFound if no filter exists with that name.
	Get(name string) ([]byte, error)

	// Delete removes the named filter.
	// Returns ErrNotFound if no filter exists with that name.
	Delete(name string) error

	// Names returns all stored filter names, sorted.
	Names() ([]string, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Table operation errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidID   = errors.New("invalid listing ID")
	ErrInvalidData = errors.New("invalid listing data")
	ErrInvalidName = errors.New("invalid name")
)
