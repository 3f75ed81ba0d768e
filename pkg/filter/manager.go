package filter

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

// Store persists serialized expressions keyed by name. The manager only
// ever hands a store the wire form produced by Marshal, and tolerates any
// garbage coming back. types.NamedFilterTable satisfies this interface, so
// a sqlite-backed store plugs in directly; the default store is in-memory.
type Store interface {
	// Put stores an expression under name, replacing any prior entry.
	Put(name string, expression []byte) error

	// Get returns the stored expression, or types.ErrNotFound.
	Get(name string) ([]byte, error)

	// Delete removes the named filter, or returns types.ErrNotFound.
	Delete(name string) error

	// Names returns all stored filter names, sorted.
	Names() ([]string, error)
}

// Manager orchestrates building, applying, and persisting named filters.
// Construct one per application root and pass it to collaborators; there is
// no package-level default instance.
type Manager struct {
	engine *Engine
	store  Store
	log    *zap.Logger
}

// NewManager creates a manager backed by an in-memory filter store.
// A nil logger disables diagnostics.
func NewManager(log *zap.Logger) *Manager {
	return NewManagerWithStore(newMemoryStore(), log)
}

// NewManagerWithStore creates a manager persisting named filters to the
// given store.
func NewManagerWithStore(store Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		engine: NewEngine(log),
		store:  store,
		log:    log,
	}
}

// NewQuery creates an empty query builder.
func (m *Manager) NewQuery() *QueryBuilder {
	return NewQuery()
}

// Engine returns the manager's evaluation engine.
func (m *Manager) Engine() *Engine {
	return m.engine
}

// FilterListings applies a builder's expression to a collection, returning
// the matching subsequence in original order. A nil builder, or one holding
// no expression, returns the collection unchanged.
func (m *Manager) FilterListings(c *types.Collection, q *QueryBuilder) *types.Collection {
	if q == nil || q.Expression() == nil {
		return c
	}
	return m.engine.Apply(c, q.Expression())
}

// SaveFilter serializes the builder's expression and stores it under name,
// replacing any prior filter with that name. Returns false, not an error,
// when the builder holds no expression or the store rejects the write.
func (m *Manager) SaveFilter(name string, q *QueryBuilder) bool {
	if q == nil || q.Expression() == nil {
		m.log.Warn("cannot save empty filter", zap.String("name", name))
		return false
	}
	data, err := Marshal(q.Expression())
	if err != nil {
		m.log.Error("serializing filter failed", zap.String("name", name), zap.Error(err))
		return false
	}
	if err := m.store.Put(name, data); err != nil {
		m.log.Error("storing filter failed", zap.String("name", name), zap.Error(err))
		return false
	}
	m.log.Info("saved filter", zap.String("name", name))
	return true
}

// LoadFilter deserializes a saved filter into a fresh builder. Returns nil
// when the name is unknown or the stored data does not decode; malformed
// stored data never reaches the caller as an error.
func (m *Manager) LoadFilter(name string) *QueryBuilder {
	data, err := m.store.Get(name)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			m.log.Error("reading filter failed", zap.String("name", name), zap.Error(err))
		} else {
			m.log.Warn("filter not found", zap.String("name", name))
		}
		return nil
	}
	expr, err := Unmarshal(data)
	if err != nil {
		m.log.Warn("deserializing filter failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	q := NewQuery()
	q.expr = expr
	return q
}

// DeleteFilter removes a saved filter, reporting whether it existed.
func (m *Manager) DeleteFilter(name string) bool {
	if err := m.store.Delete(name); err != nil {
		m.log.Warn("filter not deleted", zap.String("name", name), zap.Error(err))
		return false
	}
	m.log.Info("deleted filter", zap.String("name", name))
	return true
}

// SavedFilters returns the names of all saved filters, sorted.
func (m *Manager) SavedFilters() []string {
	names, err := m.store.Names()
	if err != nil {
		m.log.Error("listing filters failed", zap.Error(err))
		return nil
	}
	return names
}

// memoryStore is the default in-process Store.
type memoryStore struct {
	filters map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{filters: make(map[string][]byte)}
}

func (s *memoryStore) Put(name string, expression []byte) error {
	s.filters[name] = expression
	return nil
}

func (s *memoryStore) Get(name string) ([]byte, error) {
	data, ok := s.filters[name]
	if !ok {
		return nil, types.ErrNotFound
	}
	return data, nil
}

func (s *memoryStore) Delete(name string) error {
	if _, ok := s.filters[name]; !ok {
		return types.ErrNotFound
	}
	delete(s.filters, name)
	return nil
}

func (s *memoryStore) Names() ([]string, error) {
	names := make([]string, 0, len(s.filters))
	for name := range s.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
