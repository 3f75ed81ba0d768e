package types

import (
	"errors"
	"strings"
)

// Confidence ranks how much a source's report can be trusted. Higher values
// win when sources disagree on the same attribute.
type Confidence int

// Confidence levels, lowest to highest.
const (
	ConfidenceLow      Confidence = 1
	ConfidenceMedium   Confidence = 2
	ConfidenceHigh     Confidence = 3
	ConfidenceVerified Confidence = 4
)

// ErrInvalidConfidence is returned by ParseConfidence for unknown names.
var ErrInvalidConfidence = errors.New("invalid confidence level")

// confidenceNames maps levels to their canonical lowercase names.
var confidenceNames = map[Confidence]string{
	ConfidenceLow:      "low",
	ConfidenceMedium:   "medium",
	ConfidenceHigh:     "high",
	ConfidenceVerified: "verified",
}

// String returns the canonical name, or "unknown" for out-of-range values.
func (c Confidence) String() string {
	if name, ok := confidenceNames[c]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether c is one of the defined levels.
func (c Confidence) Valid() bool {
	_, ok := confidenceNames[c]
	return ok
}

// ParseConfidence maps a name back to its level, ignoring case.
// Returns ErrInvalidConfidence for unrecognized input.
func ParseConfidence(name string) (Confidence, error) {
	name = strings.ToLower(name)
	for level, n := range confidenceNames {
		if n == name {
			return level, nil
		}
	}
	return 0, ErrInvalidConfidence
}
