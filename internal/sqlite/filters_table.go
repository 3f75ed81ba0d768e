package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

var _ types.NamedFilterTable = (*filtersTable)(nil)

// filtersTable stores serialized filter expressions keyed by name. The
// payload is opaque here; pkg/filter owns the wire format.
type filtersTable struct {
	backend *Backend
}

// Put stores or replaces a named filter expression.
func (ft *filtersTable) Put(name string, expression []byte) error {
	if name == "" {
		return types.ErrInvalidName
	}
	now := time.Now().UTC().Format(timestampFormat)

	_, err := ft.backend.db.Exec(
		`INSERT INTO filters (name, expression, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET expression = excluded.expression, updated_at = excluded.updated_at`,
		name, string(expression), now, now,
	)
	if err != nil {
		return fmt.Errorf("persisting filter %s: %w", name, err)
	}
	if err := persistTableJSONL(ft.backend, "filters", filtersFile); err != nil {
		return fmt.Errorf("persisting %s: %w", filtersFile, err)
	}
	return nil
}

// Get returns the serialized expression for a named filter.
func (ft *filtersTable) Get(name string) ([]byte, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}
	var expression string
	err := ft.backend.db.QueryRow(
		"SELECT expression FROM filters WHERE name = ?", name,
	).Scan(&expression)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading filter %s: %w", name, err)
	}
	return []byte(expression), nil
}

// Delete removes a named filter.
func (ft *filtersTable) Delete(name string) error {
	if name == "" {
		return types.ErrInvalidName
	}
	res, err := ft.backend.db.Exec("DELETE FROM filters WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting filter %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking filter deletion: %w", err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	if err := persistTableJSONL(ft.backend, "filters", filtersFile); err != nil {
		return fmt.Errorf("persisting %s: %w", filtersFile, err)
	}
	return nil
}

// Names lists all saved filter names in sorted order.
func (ft *filtersTable) Names() ([]string, error) {
	rows, err := ft.backend.db.Query("SELECT name FROM filters ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("listing filters: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning filter name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating filters: %w", err)
	}
	return names, nil
}
