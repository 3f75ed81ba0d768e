package types

import "slices"

// Collection is an ordered sequence of listings. Order is caller-meaningful
// (a ranking, a scrape order) and is preserved through filtering.
type Collection struct {
	Listings []*Listing
}

// NewCollection creates a collection holding the given listings.
func NewCollection(listings ...*Listing) *Collection {
	return &Collection{Listings: listings}
}

// Add appends a listing.
func (c *Collection) Add(l *Listing) {
	c.Listings = append(c.Listings, l)
}

// Len returns the number of listings.
func (c *Collection) Len() int {
	return len(c.Listings)
}

// Filter returns the listings whose resolved values equal every entry in
// fields. Numeric values compare after coercion. This is the simple
// conjunction retained for basic call sites; pkg/filter covers everything
// richer.
func (c *Collection) Filter(fields map[string]any) *Collection {
	result := NewCollection()
	for _, l := range c.Listings {
		matches := true
		for name, want := range fields {
			if !EqualValues(l.GetAttribute(name), want) {
				matches = false
				break
			}
		}
		if matches {
			result.Add(l)
		}
	}
	return result
}

// FilterRange returns the listings whose resolved attribute is numeric and
// lies within [min, max]; both bounds are inclusive and either may be nil.
// Listings with a missing or non-numeric value are excluded. A call with
// both bounds nil returns a copy of the input unchanged.
func (c *Collection) FilterRange(attribute string, min, max *float64) *Collection {
	if min == nil && max == nil {
		return NewCollection(slices.Clone(c.Listings)...)
	}
	result := NewCollection()
	for _, l := range c.Listings {
		n, ok := NumericValue(l.GetAttribute(attribute))
		if !ok {
			continue
		}
		if min != nil && n < *min {
			continue
		}
		if max != nil && n > *max {
			continue
		}
		result.Add(l)
	}
	return result
}

// SortBy returns a new collection sorted by an attribute. The sort is stable
// and keyed on (has-value, value): listings missing the attribute sort
// before listings that have it in ascending order, and after them in
// descending order. Ranking callers depend on exactly this placement of
// gaps, so it must not change. Incomparable value pairs keep their relative
// order.
func (c *Collection) SortBy(attribute string, reverse bool) *Collection {
	sorted := slices.Clone(c.Listings)
	slices.SortStableFunc(sorted, func(a, b *Listing) int {
		va := a.GetAttribute(attribute)
		vb := b.GetAttribute(attribute)
		cmp := compareSortKeys(va, vb)
		if reverse {
			cmp = -cmp
		}
		return cmp
	})
	return NewCollection(sorted...)
}

// compareSortKeys orders (has-value, value) pairs; nil sorts first and
// incomparable pairs count as equal.
func compareSortKeys(va, vb any) int {
	switch {
	case va == nil && vb == nil:
		return 0
	case va == nil:
		return -1
	case vb == nil:
		return 1
	}
	cmp, err := CompareValues(va, vb)
	if err != nil {
		return 0
	}
	return cmp
}
