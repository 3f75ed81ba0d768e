package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

// Backend implements types.Store using SQLite as the query engine and JSONL
// files as the source of truth. The database file is rebuilt from JSONL on
// every Attach; writes persist back to JSONL immediately.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	listings *listingsTable
	filters  *filtersTable
}

// NewBackend creates a detached backend; call Attach with a Config before
// use.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend: validates config, creates DataDir if
// needed, rebuilds the SQLite schema, and loads the JSONL files.
// Returns types.ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// Fresh schema on every attach; JSONL is the durable state.
	dbPath := filepath.Join(dataDir, "forecourt.db")
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir

	if err := b.initJSONLFiles(); err != nil {
		db.Close()
		return err
	}
	if err := b.loadAllJSONL(); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.listings = &listingsTable{backend: b}
	b.filters = &filtersTable{backend: b}
	b.attached = true
	return nil
}

// Detach closes the SQLite connection. Idempotent. After Detach, table
// operations return types.ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.listings = nil
	b.filters = nil
	return nil
}

// Listings returns the listing table, or types.ErrStoreDetached.
func (b *Backend) Listings() (types.ListingTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.listings, nil
}

// NamedFilters returns the named-filter table, or types.ErrStoreDetached.
func (b *Backend) NamedFilters() (types.NamedFilterTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.filters, nil
}
