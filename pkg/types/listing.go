package types

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Listing is one aggregated vehicle listing: an immutable id plus a bag of
// multi-source attributes. Listings are created with only an id; attributes
// accumulate incrementally and are superseded, never removed.
//
// A Listing is not safe for concurrent writers. Enrichment pipelines own one
// listing per task (see pkg/enrich); reads are pure and safe alongside
// writers on other listings.
type Listing struct {
	ListingID  string                `json:"listing_id"`
	Attributes map[string]*Attribute `json:"attributes"`
}

// NewListing creates an empty listing with a generated UUID v7 id.
func NewListing() *Listing {
	return NewListingWithID(generateUUID())
}

// NewListingWithID creates an empty listing with the caller's id.
func NewListingWithID(id string) *Listing {
	return &Listing{
		ListingID:  id,
		Attributes: make(map[string]*Attribute),
	}
}

// generateUUID returns a UUID v7, falling back to v4 if v7 generation fails.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// SetAttribute records a value reported by a source, inferring the attribute
// kind from the value's shape when the attribute is new. An existing
// attribute accumulates the source (same-name reports overwrite). Input is
// never rejected: there is no cross-source type checking, by contract.
func (l *Listing) SetAttribute(name string, value any, sourceName string, confidence Confidence) {
	l.SetAttributeKind(name, value, sourceName, confidence, "")
}

// SetAttributeKind is SetAttribute with an explicit kind, used when the
// caller knows better than shape inference (e.g. enum-valued attributes).
// The kind only applies when the attribute is created; later reports never
// retag an existing attribute.
func (l *Listing) SetAttributeKind(name string, value any, sourceName string, confidence Confidence, kind string) {
	if l.Attributes == nil {
		l.Attributes = make(map[string]*Attribute)
	}
	attr, ok := l.Attributes[name]
	if !ok {
		if !validKinds[kind] {
			kind = InferKind(value)
		}
		attr = &Attribute{Name: name, Kind: kind}
		l.Attributes[name] = attr
	}
	attr.AddSource(sourceName, value, confidence)
}

// ComputeAttribute stores a derived value. The attribute is fully replaced
// with a single "computed" source at high confidence; prior externally
// reported sources under the same name are discarded, not merged.
func (l *Listing) ComputeAttribute(name string, value any) {
	l.ComputeAttributeKind(name, value, "")
}

// ComputeAttributeKind is ComputeAttribute with an explicit kind.
func (l *Listing) ComputeAttributeKind(name string, value any, kind string) {
	if l.Attributes == nil {
		l.Attributes = make(map[string]*Attribute)
	}
	if !validKinds[kind] {
		kind = InferKind(value)
	}
	attr := &Attribute{Name: name, Kind: kind, Computed: true}
	attr.AddSource(SourceComputed, value, ConfidenceHigh)
	l.Attributes[name] = attr
}

// GetAttribute returns the resolved value of an attribute, or nil when the
// listing has no such attribute. Never panics.
func (l *Listing) GetAttribute(name string) any {
	return l.GetAttributeDefault(name, nil)
}

// GetAttributeDefault returns the resolved value, or def when absent.
func (l *Listing) GetAttributeDefault(name string, def any) any {
	attr, ok := l.Attributes[name]
	if !ok {
		return def
	}
	v := attr.Value()
	if v == nil {
		return def
	}
	return v
}

// AttributeConfidence returns the confidence of the resolved source for an
// attribute, with ok=false when the attribute is absent.
func (l *Listing) AttributeConfidence(name string) (Confidence, bool) {
	attr, ok := l.Attributes[name]
	if !ok {
		return 0, false
	}
	return attr.ValueConfidence()
}

// HasAttribute reports whether the listing carries the named attribute.
func (l *Listing) HasAttribute(name string) bool {
	_, ok := l.Attributes[name]
	return ok
}

// SourceNames returns the sorted set of all source names that ever reported
// on this listing, across all attributes.
func (l *Listing) SourceNames() []string {
	seen := make(map[string]bool)
	for _, attr := range l.Attributes {
		for _, s := range attr.Sources {
			seen[s.SourceName] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Convenience accessors for the common listing attributes.

// Make returns the resolved make, or "" when absent or non-string.
func (l *Listing) Make() string { return l.stringAttribute("make") }

// Model returns the resolved model, or "".
func (l *Listing) Model() string { return l.stringAttribute("model") }

// Location returns the resolved location, or "".
func (l *Listing) Location() string { return l.stringAttribute("location") }

// Year returns the resolved model year, with ok=false when absent or
// non-numeric.
func (l *Listing) Year() (int, bool) {
	n, ok := NumericValue(l.GetAttribute("year"))
	return int(n), ok
}

// Price returns the resolved price, with ok=false when absent or
// non-numeric.
func (l *Listing) Price() (float64, bool) {
	return NumericValue(l.GetAttribute("price"))
}

// Mileage returns the resolved mileage, with ok=false when absent or
// non-numeric.
func (l *Listing) Mileage() (int, bool) {
	n, ok := NumericValue(l.GetAttribute("mileage"))
	return int(n), ok
}

// Title returns the display title: the title attribute when present,
// otherwise "year make model" assembled from whatever parts exist, or ""
// when none do.
func (l *Listing) Title() string {
	if l.HasAttribute("title") {
		if t, ok := l.GetAttribute("title").(string); ok {
			return t
		}
	}
	var parts []string
	if year, ok := l.Year(); ok {
		parts = append(parts, strconv.Itoa(year))
	}
	if mk := l.Make(); mk != "" {
		parts = append(parts, mk)
	}
	if model := l.Model(); model != "" {
		parts = append(parts, model)
	}
	return strings.Join(parts, " ")
}

func (l *Listing) stringAttribute(name string) string {
	s, _ := l.GetAttribute(name).(string)
	return s
}
