package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

func TestSaveAndLoadFilter(t *testing.T) {
	m := NewManager(nil)

	q := m.NewQuery().Make("Toyota").And(m.NewQuery().PriceMax(30000))
	require.True(t, m.SaveFilter("affordable-toyotas", q))

	loaded := m.LoadFilter("affordable-toyotas")
	require.NotNil(t, loaded)

	// The reloaded filter selects the same listings.
	c := types.NewCollection(corolla(), types.NewListingWithID("bare"))
	want := m.FilterListings(c, q)
	got := m.FilterListings(c, loaded)
	assert.Equal(t, want.Len(), got.Len())
	assert.Equal(t, "corolla", got.Listings[0].ListingID)
}

func TestSaveFilterRejectsEmpty(t *testing.T) {
	m := NewManager(nil)
	assert.False(t, m.SaveFilter("empty", m.NewQuery()))
	assert.False(t, m.SaveFilter("nil", nil))
	assert.Empty(t, m.SavedFilters())
}

func TestLoadFilterUnknownName(t *testing.T) {
	m := NewManager(nil)
	assert.Nil(t, m.LoadFilter("never-saved"))
}

func TestLoadFilterMalformedStoredData(t *testing.T) {
	store := newMemoryStore()
	require.NoError(t, store.Put("broken", []byte("{not an expression")))

	m := NewManagerWithStore(store, nil)
	assert.Nil(t, m.LoadFilter("broken"))
}

func TestDeleteFilter(t *testing.T) {
	m := NewManager(nil)
	require.True(t, m.SaveFilter("doomed", m.NewQuery().Make("Lada")))

	assert.True(t, m.DeleteFilter("doomed"))
	assert.False(t, m.DeleteFilter("doomed"))
	assert.Nil(t, m.LoadFilter("doomed"))
}

func TestSavedFiltersSorted(t *testing.T) {
	m := NewManager(nil)
	require.True(t, m.SaveFilter("zebra", m.NewQuery().Make("Toyota")))
	require.True(t, m.SaveFilter("aardvark", m.NewQuery().Make("Honda")))

	assert.Equal(t, []string{"aardvark", "zebra"}, m.SavedFilters())
}

func TestFilterListingsPassthrough(t *testing.T) {
	m := NewManager(nil)
	c := types.NewCollection(corolla())

	assert.Same(t, c, m.FilterListings(c, nil))
	assert.Same(t, c, m.FilterListings(c, m.NewQuery()))
}

func TestManagerWithFailingStore(t *testing.T) {
	m := NewManagerWithStore(failingStore{}, nil)

	assert.False(t, m.SaveFilter("any", m.NewQuery().Make("Toyota")))
	assert.Nil(t, m.LoadFilter("any"))
	assert.False(t, m.DeleteFilter("any"))
	assert.Nil(t, m.SavedFilters())
}

type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Put(string, []byte) error    { return errStoreDown }
func (failingStore) Get(string) ([]byte, error)  { return nil, errStoreDown }
func (failingStore) Delete(string) error         { return errStoreDown }
func (failingStore) Names() ([]string, error)    { return nil, errStoreDown }
