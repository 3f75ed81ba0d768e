package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testListing builds a listing with single-source attributes.
func testListing(id string, attrs map[string]any) *Listing {
	l := NewListingWithID(id)
	for name, value := range attrs {
		l.SetAttribute(name, value, "autotrader", ConfidenceMedium)
	}
	return l
}

func testFleet() *Collection {
	return NewCollection(
		testListing("corolla", map[string]any{"make": "Toyota", "model": "Corolla", "price": 17950.0, "year": 2015}),
		testListing("civic", map[string]any{"make": "Honda", "model": "Civic", "price": 14500.0, "year": 2013}),
		testListing("hilux", map[string]any{"make": "Toyota", "model": "Hilux", "price": 32000.0, "year": 2019}),
		testListing("mystery", map[string]any{"make": "Nissan", "model": "Leaf"}),
	)
}

func ids(c *Collection) []string {
	out := make([]string, 0, c.Len())
	for _, l := range c.Listings {
		out = append(out, l.ListingID)
	}
	return out
}

func TestCollectionFilter(t *testing.T) {
	fleet := testFleet()

	got := fleet.Filter(map[string]any{"make": "Toyota"})
	assert.Equal(t, []string{"corolla", "hilux"}, ids(got))

	// Conjunction over multiple fields, with numeric coercion.
	got = fleet.Filter(map[string]any{"make": "Toyota", "year": 2015.0})
	assert.Equal(t, []string{"corolla"}, ids(got))

	got = fleet.Filter(map[string]any{"make": "Lada"})
	assert.Empty(t, got.Listings)

	// Empty criteria match everything.
	got = fleet.Filter(nil)
	assert.Equal(t, fleet.Len(), got.Len())
}

func TestCollectionFilterRange(t *testing.T) {
	fleet := testFleet()
	min := 14500.0
	max := 17950.0

	// Bounds are inclusive on both ends.
	got := fleet.FilterRange("price", &min, &max)
	assert.Equal(t, []string{"corolla", "civic"}, ids(got))

	got = fleet.FilterRange("price", &min, nil)
	assert.Equal(t, []string{"corolla", "civic", "hilux"}, ids(got))

	got = fleet.FilterRange("price", nil, &max)
	assert.Equal(t, []string{"corolla", "civic"}, ids(got))

	// Listings without a numeric value never pass a bounded range.
	lo := 0.0
	got = fleet.FilterRange("price", &lo, nil)
	assert.NotContains(t, ids(got), "mystery")

	// Both bounds nil returns a copy of the input unchanged.
	got = fleet.FilterRange("price", nil, nil)
	require.Equal(t, ids(fleet), ids(got))
	got.Listings[0] = nil
	assert.NotNil(t, fleet.Listings[0])
}

func TestCollectionSortBy(t *testing.T) {
	fleet := testFleet()

	// Ascending: missing values sort first.
	got := fleet.SortBy("price", false)
	assert.Equal(t, []string{"mystery", "civic", "corolla", "hilux"}, ids(got))

	// Descending reverses the whole key, gaps included.
	got = fleet.SortBy("price", true)
	assert.Equal(t, []string{"hilux", "corolla", "civic", "mystery"}, ids(got))

	// The input collection is left untouched.
	assert.Equal(t, []string{"corolla", "civic", "hilux", "mystery"}, ids(fleet))
}

func TestCollectionSortByStable(t *testing.T) {
	c := NewCollection(
		testListing("a", map[string]any{"price": 10000.0}),
		testListing("b", map[string]any{"price": 10000.0}),
		testListing("c", map[string]any{"price": 9000.0}),
	)
	got := c.SortBy("price", false)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
}
