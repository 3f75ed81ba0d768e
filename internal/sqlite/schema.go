// Package sqlite implements the SQLite storage backend for forecourt:
// listings with full per-source provenance, and named filter expressions.
// SQLite is the query engine; JSONL files in the data directory are the
// source of truth, reloaded on every Attach.
package sqlite

// Schema DDL. listing_sources holds one row per (listing, attribute,
// source); ord preserves source insertion order so resolution tie-breaks
// survive a round trip.
const (
	createListings = `CREATE TABLE listings (
    listing_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createListingSources = `CREATE TABLE listing_sources (
    listing_id TEXT NOT NULL,
    attribute TEXT NOT NULL,
    kind TEXT NOT NULL,
    computed INTEGER NOT NULL DEFAULT 0,
    source_name TEXT NOT NULL,
    confidence INTEGER NOT NULL,
    reported_at TEXT NOT NULL,
    value TEXT,
    ord INTEGER NOT NULL,
    PRIMARY KEY (listing_id, attribute, source_name),
    FOREIGN KEY (listing_id) REFERENCES listings(listing_id)
);`

	createFilters = `CREATE TABLE filters (
    name TEXT PRIMARY KEY,
    expression TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// schemaSQL is the full schema executed on Attach.
var schemaSQL = createListings + "\n" + createListingSources + "\n" + createFilters
