// Package sorting provides multi-criteria stable sorting for listing
// collections: a ranked list of (field, direction) criteria applied in
// order, with the same missing-first placement as Collection.SortBy.
package sorting

import (
	"slices"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

// Common sort fields. Any attribute name works; these are the ones the
// application sorts on.
const (
	FieldPrice      = "price"
	FieldYear       = "year"
	FieldMake       = "make"
	FieldModel      = "model"
	FieldMileage    = "mileage"
	FieldDateListed = "date_listed"
	FieldLocation   = "location"
)

// Direction orders a criterion ascending or descending.
type Direction int

// Sort directions.
const (
	Ascending Direction = iota
	Descending
)

// Criteria is one sort criterion: an attribute and a direction.
type Criteria struct {
	Field     string
	Direction Direction
}

// Manager sorts collections by an ordered list of criteria. Earlier
// criteria dominate; later ones break ties. The zero value is usable and
// sorts nothing.
type Manager struct {
	criteria []Criteria
}

// NewManager creates a sort manager with no criteria.
func NewManager() *Manager {
	return &Manager{}
}

// Add appends a criterion.
func (m *Manager) Add(c Criteria) {
	m.criteria = append(m.criteria, c)
}

// Remove deletes the criterion at index; out-of-range indexes are ignored.
func (m *Manager) Remove(index int) {
	if index < 0 || index >= len(m.criteria) {
		return
	}
	m.criteria = slices.Delete(m.criteria, index, index+1)
}

// Reset clears all criteria.
func (m *Manager) Reset() {
	m.criteria = nil
}

// Criteria returns a copy of the current criteria in priority order.
func (m *Manager) Criteria() []Criteria {
	return slices.Clone(m.criteria)
}

// Sort returns the collection's listings ordered by the current criteria.
// The sort is stable, so listings equal under every criterion keep their
// input order. With no criteria the input order is returned unchanged.
// Listings missing an attribute sort before listings that have it under an
// ascending criterion, after them under a descending one.
func (m *Manager) Sort(c *types.Collection) []*types.Listing {
	sorted := slices.Clone(c.Listings)
	if len(m.criteria) == 0 {
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b *types.Listing) int {
		for _, crit := range m.criteria {
			cmp := compareListings(a, b, crit.Field)
			if crit.Direction == Descending {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp
			}
		}
		return 0
	})
	return sorted
}

// compareListings orders two listings by one attribute on the
// (has-value, value) key; incomparable values count as equal.
func compareListings(a, b *types.Listing, field string) int {
	va := a.GetAttribute(field)
	vb := b.GetAttribute(field)
	switch {
	case va == nil && vb == nil:
		return 0
	case va == nil:
		return -1
	case vb == nil:
		return 1
	}
	cmp, err := types.CompareValues(va, vb)
	if err != nil {
		return 0
	}
	return cmp
}
