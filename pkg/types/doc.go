// Package types defines the listing data model (attributes, provenance
// sources, confidence levels), the ordered Collection, and the Store and
// Table interfaces for the forecourt aggregation system.
//
// A Listing aggregates facts reported by several unreliable collaborators
// (scrapers, data providers). Every attribute keeps one provenance record
// per source; the current value is resolved lazily from the source with the
// highest (confidence, timestamp) pair. Nothing in this package raises on
// malformed data: bad input degrades to "no value".
package types
