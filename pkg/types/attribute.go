package types

import "time"

// SourceComputed is the synthetic source name used for derived attributes.
const SourceComputed = "computed"

// Source is one provenance record: which collaborator reported a value,
// when, and with what confidence. An attribute holds at most one Source per
// source name; a later report from the same name replaces the earlier one.
type Source struct {
	SourceName string     `json:"source_name"`
	Timestamp  time.Time  `json:"timestamp"`
	Confidence Confidence `json:"confidence"`
	RawValue   any        `json:"raw_value"`
}

// Attribute is one named fact about a listing, potentially reported
// differently by several sources. Sources are kept in insertion order so
// that resolution ties break deterministically. The current value is never
// cached; Value resolves it on each read.
type Attribute struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Sources  []Source `json:"sources"`
	Computed bool     `json:"computed"`
}

// AddSource records a value from one source. If the source name already
// reported on this attribute its record is replaced in place, keeping its
// original position in the tie-break order; otherwise the source is
// appended. Confidence values outside the defined range are normalized to
// medium rather than rejected.
func (a *Attribute) AddSource(sourceName string, value any, confidence Confidence) {
	if !confidence.Valid() {
		confidence = ConfidenceMedium
	}
	src := Source{
		SourceName: sourceName,
		Timestamp:  time.Now().UTC(),
		Confidence: confidence,
		RawValue:   value,
	}
	for i := range a.Sources {
		if a.Sources[i].SourceName == sourceName {
			a.Sources[i] = src
			return
		}
	}
	a.Sources = append(a.Sources, src)
}

// resolve picks the source with the greatest (confidence, timestamp) pair.
// Among equal pairs the earliest-inserted source wins, so the result is
// deterministic for a fixed insertion history.
func (a *Attribute) resolve() (Source, bool) {
	if len(a.Sources) == 0 {
		return Source{}, false
	}
	best := a.Sources[0]
	for _, s := range a.Sources[1:] {
		if s.Confidence > best.Confidence ||
			(s.Confidence == best.Confidence && s.Timestamp.After(best.Timestamp)) {
			best = s
		}
	}
	return best, true
}

// Value returns the resolved current value, or nil when the attribute has
// no sources.
func (a *Attribute) Value() any {
	src, ok := a.resolve()
	if !ok {
		return nil
	}
	return src.RawValue
}

// ValueConfidence returns the confidence of the resolved source.
func (a *Attribute) ValueConfidence() (Confidence, bool) {
	src, ok := a.resolve()
	if !ok {
		return 0, false
	}
	return src.Confidence, true
}

// Source returns the provenance record for a given source name.
func (a *Attribute) Source(sourceName string) (Source, bool) {
	for _, s := range a.Sources {
		if s.SourceName == sourceName {
			return s, true
		}
	}
	return Source{}, false
}

// SourceNames returns the names of all sources that reported on this
// attribute, in insertion order.
func (a *Attribute) SourceNames() []string {
	names := make([]string, len(a.Sources))
	for i, s := range a.Sources {
		names[i] = s.SourceName
	}
	return names
}
