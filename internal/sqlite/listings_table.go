// Listing table accessor: hydration between SQLite rows and
// *types.Listing, with full per-source provenance.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

// Compile-time interface check.
var _ types.ListingTable = (*listingsTable)(nil)

// timestampFormat keeps sub-second precision; source resolution breaks
// ties on timestamps, so truncating them would change resolved values
// after a round trip.
const timestampFormat = time.RFC3339Nano

type listingsTable struct {
	backend *Backend
}

// Get retrieves a listing with all its attributes and sources.
func (lt *listingsTable) Get(id string) (*types.Listing, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	var exists int
	err := lt.backend.db.QueryRow(
		"SELECT 1 FROM listings WHERE listing_id = ?", id,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking listing %s: %w", id, err)
	}
	return lt.hydrate(id)
}

// Put persists a listing with all its provenance rows. An empty listing id
// gets a generated UUID v7. Existing sources for the listing are replaced
// wholesale; the listing struct is the authority.
func (lt *listingsTable) Put(l *types.Listing) (string, error) {
	if l == nil {
		return "", types.ErrInvalidData
	}
	if l.ListingID == "" {
		l.ListingID = generateUUID()
	}
	id := l.ListingID
	now := time.Now().UTC().Format(timestampFormat)

	var createdAt string
	err := lt.backend.db.QueryRow(
		"SELECT created_at FROM listings WHERE listing_id = ?", id,
	).Scan(&createdAt)
	isCreate := err == sql.ErrNoRows
	if err != nil && !isCreate {
		return "", fmt.Errorf("checking listing existence: %w", err)
	}
	if isCreate {
		createdAt = now
	}

	tx, err := lt.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isCreate {
		_, err = tx.Exec(
			"INSERT INTO listings (listing_id, created_at, updated_at) VALUES (?, ?, ?)",
			id, createdAt, now,
		)
	} else {
		_, err = tx.Exec(
			"UPDATE listings SET updated_at = ? WHERE listing_id = ?",
			now, id,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting listing: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM listing_sources WHERE listing_id = ?", id); err != nil {
		return "", fmt.Errorf("clearing listing sources: %w", err)
	}
	if err := insertSources(tx, l); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing listing: %w", err)
	}

	if err := persistTableJSONL(lt.backend, "listings", listingsFile); err != nil {
		return "", fmt.Errorf("persisting %s: %w", listingsFile, err)
	}
	if err := persistTableJSONL(lt.backend, "listing_sources", listingSourcesFile); err != nil {
		return "", fmt.Errorf("persisting %s: %w", listingSourcesFile, err)
	}
	return id, nil
}

// Delete removes a listing and its provenance rows.
func (lt *listingsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	var exists int
	err := lt.backend.db.QueryRow(
		"SELECT 1 FROM listings WHERE listing_id = ?", id,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking listing existence: %w", err)
	}

	tx, err := lt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM listing_sources WHERE listing_id = ?", id); err != nil {
		return fmt.Errorf("deleting listing sources: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM listings WHERE listing_id = ?", id); err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing listing deletion: %w", err)
	}

	if err := persistTableJSONL(lt.backend, "listings", listingsFile); err != nil {
		return fmt.Errorf("persisting %s: %w", listingsFile, err)
	}
	if err := persistTableJSONL(lt.backend, "listing_sources", listingSourcesFile); err != nil {
		return fmt.Errorf("persisting %s: %w", listingSourcesFile, err)
	}
	return nil
}

// Fetch hydrates all listings in insertion order, then matches resolved
// attributes against the filter in memory. There is deliberately no SQL
// predicate pushdown: the filter engine, not the database, owns matching
// semantics.
func (lt *listingsTable) Fetch(filter map[string]any) ([]*types.Listing, error) {
	rows, err := lt.backend.db.Query(
		"SELECT listing_id FROM listings ORDER BY created_at ASC, listing_id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("fetching listings: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning listing id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}

	results := make([]*types.Listing, 0, len(ids))
	for _, id := range ids {
		l, err := lt.hydrate(id)
		if err != nil {
			return nil, err
		}
		if matchesFilter(l, filter) {
			results = append(results, l)
		}
	}
	return results, nil
}

// matchesFilter checks resolved-value equality for every filter entry.
func matchesFilter(l *types.Listing, filter map[string]any) bool {
	for name, want := range filter {
		if !types.EqualValues(l.GetAttribute(name), want) {
			return false
		}
	}
	return true
}

// hydrate rebuilds a listing from its provenance rows, preserving source
// insertion order.
func (lt *listingsTable) hydrate(id string) (*types.Listing, error) {
	rows, err := lt.backend.db.Query(
		`SELECT attribute, kind, computed, source_name, confidence, reported_at, value
		 FROM listing_sources WHERE listing_id = ? ORDER BY attribute ASC, ord ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sources for listing %s: %w", id, err)
	}
	defer rows.Close()

	l := types.NewListingWithID(id)
	for rows.Next() {
		var attribute, kind, sourceName, reportedAt string
		var computed, confidence int
		var rawValue sql.NullString
		if err := rows.Scan(&attribute, &kind, &computed, &sourceName, &confidence, &reportedAt, &rawValue); err != nil {
			return nil, fmt.Errorf("scanning source row: %w", err)
		}

		reported, err := time.Parse(timestampFormat, reportedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing reported_at: %w", err)
		}
		var value any
		if rawValue.Valid && rawValue.String != "" {
			if err := json.Unmarshal([]byte(rawValue.String), &value); err != nil {
				return nil, fmt.Errorf("parsing value for %s.%s: %w", id, attribute, err)
			}
		}

		attr, ok := l.Attributes[attribute]
		if !ok {
			attr = &types.Attribute{Name: attribute, Kind: kind, Computed: computed != 0}
			l.Attributes[attribute] = attr
		}
		attr.Sources = append(attr.Sources, types.Source{
			SourceName: sourceName,
			Timestamp:  reported,
			Confidence: types.Confidence(confidence),
			RawValue:   value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return l, nil
}

// insertSources writes one row per (attribute, source), with ord carrying
// the in-memory insertion order.
func insertSources(tx *sql.Tx, l *types.Listing) error {
	names := make([]string, 0, len(l.Attributes))
	for name := range l.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := l.Attributes[name]
		computed := 0
		if attr.Computed {
			computed = 1
		}
		for ord, src := range attr.Sources {
			valueJSON, err := json.Marshal(src.RawValue)
			if err != nil {
				return fmt.Errorf("marshaling value for %s: %w", name, err)
			}
			_, err = tx.Exec(
				`INSERT INTO listing_sources
				 (listing_id, attribute, kind, computed, source_name, confidence, reported_at, value, ord)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				l.ListingID, name, attr.Kind, computed,
				src.SourceName, int(src.Confidence),
				src.Timestamp.UTC().Format(timestampFormat),
				string(valueJSON), ord,
			)
			if err != nil {
				return fmt.Errorf("inserting source %s for %s: %w", src.SourceName, name, err)
			}
		}
	}
	return nil
}

// generateUUID returns a UUID v7, falling back to v4 if v7 generation
// fails.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
