package types

import "time"

// Attribute kinds describe the shape of an attribute's values.
const (
	KindText    = "text"
	KindNumber  = "number"
	KindBoolean = "boolean"
	KindDate    = "date"
	KindList    = "list"
	KindEnum    = "enum"
)

// validKinds is the set of recognized attribute kinds.
var validKinds = map[string]bool{
	KindText:    true,
	KindNumber:  true,
	KindBoolean: true,
	KindDate:    true,
	KindList:    true,
	KindEnum:    true,
}

// ValidKind reports whether kind is one of the Kind constants.
func ValidKind(kind string) bool {
	return validKinds[kind]
}

// InferKind derives an attribute kind from a value's runtime shape.
// Unrecognized shapes default to text; KindEnum is never inferred, only
// assigned explicitly by callers.
func InferKind(value any) string {
	switch value.(type) {
	case bool:
		return KindBoolean
	case string:
		return KindText
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return KindNumber
	case time.Time:
		return KindDate
	}
	if _, ok := SequenceValues(value); ok {
		return KindList
	}
	return KindText
}
