package types

import (
	"errors"
	"reflect"
	"strings"
	"time"
)

// ErrIncomparable is returned by CompareValues when two values have no
// defined ordering (mixed or unordered types).
var ErrIncomparable = errors.New("values are not comparable")

// NumericValue coerces any Go numeric type to float64. JSON decoding and
// source ingestion produce a mix of int, int64, and float64 for the same
// logical attribute, so all comparisons go through this coercion.
// Booleans are not numeric.
func NumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// SequenceValues returns the elements of any slice or array value as []any.
// Strings and byte slices are not treated as sequences.
func SequenceValues(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// CompareValues orders two values: -1, 0, or 1. Numbers compare after
// coercion, strings lexically, times chronologically. Everything else,
// including nil on either side, returns ErrIncomparable.
func CompareValues(a, b any) (int, error) {
	if na, ok := NumericValue(a); ok {
		if nb, ok := NumericValue(b); ok {
			switch {
			case na < nb:
				return -1, nil
			case na > nb:
				return 1, nil
			}
			return 0, nil
		}
		return 0, ErrIncomparable
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb), nil
		}
		return 0, ErrIncomparable
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb), nil
		}
		return 0, ErrIncomparable
	}
	return 0, ErrIncomparable
}

// EqualValues reports loose equality across the value shapes that appear in
// listings: numerics compare after coercion (so 2015 equals 2015.0, which a
// JSON round trip produces), sequences compare elementwise, and everything
// else falls back to deep equality.
func EqualValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if na, ok := NumericValue(a); ok {
		nb, ok := NumericValue(b)
		return ok && na == nb
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if sa, ok := SequenceValues(a); ok {
		sb, ok := SequenceValues(b)
		if !ok || len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !EqualValues(sa[i], sb[i]) {
				return false
			}
		}
		return true
	}
	if ma, ok := a.(map[string]any); ok {
		mb, ok := b.(map[string]any)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !EqualValues(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
