package filter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

// Engine evaluates filter expressions against listings. It is stateless
// apart from its logger and safe for concurrent use.
//
// The engine never fails on data. Missing fields and comparison type
// mismatches evaluate to non-matches for the listing at hand; construction
// errors in the expression (wrong NOT arity, unknown variants) are logged
// and fail open so a bad filter degrades loudly instead of silently
// shrinking results.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates an engine. A nil logger disables diagnostics.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Apply filters a collection through an expression, returning the matching
// listings as an ordered subsequence of the input. A nil expression returns
// the collection unchanged.
func (e *Engine) Apply(c *types.Collection, expr Expression) *types.Collection {
	if c == nil || expr == nil {
		return c
	}
	result := types.NewCollection()
	for _, l := range c.Listings {
		if e.Evaluate(l, expr) {
			result.Add(l)
		}
	}
	return result
}

// Evaluate reports whether one listing matches an expression.
//
// Compound edge cases, pinned deliberately: an AND with no children is
// vacuously true, and an OR with no children is true as well, not false.
// Callers that strip children from a compound at runtime rely on the empty
// node matching everything.
func (e *Engine) Evaluate(l *types.Listing, expr Expression) bool {
	switch node := expr.(type) {
	case Simple:
		return e.evaluateSimple(l, node)
	case Compound:
		return e.evaluateCompound(l, node)
	default:
		e.log.Warn("unknown filter expression variant", zap.Any("expression", expr))
		return true
	}
}

// evaluateSimple resolves the leaf's field path and applies its operator.
// A field that fails to resolve satisfies IS_NULL, fails IS_NOT_NULL, and
// fails everything else: a missing field never matches a value predicate.
func (e *Engine) evaluateSimple(l *types.Listing, node Simple) bool {
	value, found := resolveField(l, node.Field)
	if !found {
		switch node.Operator {
		case OpIsNull:
			return true
		default:
			return false
		}
	}
	return e.applyOperator(value, node.Operator, node.Value)
}

// resolveField walks a dotted path: the first segment against the listing's
// resolved attributes, subsequent segments as key lookups into mapping
// values.
func resolveField(l *types.Listing, field string) (any, bool) {
	var value any
	for i, part := range strings.Split(field, ".") {
		if i == 0 {
			if !l.HasAttribute(part) {
				return nil, false
			}
			value = l.GetAttribute(part)
			continue
		}
		next, ok := mappingLookup(value, part)
		if !ok {
			return nil, false
		}
		value = next
	}
	return value, true
}

// mappingLookup fetches a key from string-keyed map values of any element
// type.
func mappingLookup(value any, key string) (any, bool) {
	switch m := value.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[string]string:
		v, ok := m[key]
		return v, ok
	case map[string]bool:
		v, ok := m[key]
		return v, ok
	case map[string]float64:
		v, ok := m[key]
		return v, ok
	}
	return nil, false
}

// applyOperator compares a resolved field value against the filter value.
// Incompatible types are a non-match, never an error: input originates from
// scrapers and third-party feeds, and one malformed listing must not abort
// the batch.
func (e *Engine) applyOperator(fieldValue any, op Operator, filterValue any) bool {
	switch op {
	case OpEquals:
		return types.EqualValues(fieldValue, filterValue)

	case OpNotEquals:
		return !types.EqualValues(fieldValue, filterValue)

	case OpGreaterThan:
		return e.ordered(fieldValue, filterValue, func(cmp int) bool { return cmp > 0 })

	case OpLessThan:
		return e.ordered(fieldValue, filterValue, func(cmp int) bool { return cmp < 0 })

	case OpGreaterEqual:
		return e.ordered(fieldValue, filterValue, func(cmp int) bool { return cmp >= 0 })

	case OpLessEqual:
		return e.ordered(fieldValue, filterValue, func(cmp int) bool { return cmp <= 0 })

	case OpContains:
		return e.contains(fieldValue, filterValue)

	case OpStartsWith:
		fs, fok := fieldValue.(string)
		vs, vok := filterValue.(string)
		return fok && vok && strings.HasPrefix(strings.ToLower(fs), strings.ToLower(vs))

	case OpEndsWith:
		fs, fok := fieldValue.(string)
		vs, vok := filterValue.(string)
		return fok && vok && strings.HasSuffix(strings.ToLower(fs), strings.ToLower(vs))

	case OpInList:
		candidates, ok := types.SequenceValues(filterValue)
		if !ok {
			e.log.Warn("IN_LIST filter value is not a list", zap.Any("value", filterValue))
			return false
		}
		for _, candidate := range candidates {
			if types.EqualValues(fieldValue, candidate) {
				return true
			}
		}
		return false

	case OpBetween:
		return e.between(fieldValue, filterValue)

	case OpIsNull:
		return fieldValue == nil

	case OpIsNotNull:
		return fieldValue != nil

	default:
		e.log.Warn("unknown filter operator", zap.String("operator", string(op)))
		return false
	}
}

// ordered applies an ordering predicate; nil field values and incomparable
// pairs are non-matches.
func (e *Engine) ordered(fieldValue, filterValue any, match func(cmp int) bool) bool {
	if fieldValue == nil {
		return false
	}
	cmp, err := types.CompareValues(fieldValue, filterValue)
	if err != nil {
		e.log.Warn("filter comparison failed",
			zap.Any("field_value", fieldValue),
			zap.Any("filter_value", filterValue),
			zap.Error(err))
		return false
	}
	return match(cmp)
}

// contains is case-insensitive substring match for strings and raw
// membership for sequences; anything else is a non-match.
func (e *Engine) contains(fieldValue, filterValue any) bool {
	if fieldValue == nil {
		return false
	}
	if fs, ok := fieldValue.(string); ok {
		vs, ok := filterValue.(string)
		return ok && strings.Contains(strings.ToLower(fs), strings.ToLower(vs))
	}
	if elems, ok := types.SequenceValues(fieldValue); ok {
		for _, elem := range elems {
			if types.EqualValues(elem, filterValue) {
				return true
			}
		}
	}
	return false
}

// between checks min <= field <= max; the filter value carries the
// inclusive bounds as a two-element sequence.
func (e *Engine) between(fieldValue, filterValue any) bool {
	if fieldValue == nil {
		return false
	}
	bounds, ok := types.SequenceValues(filterValue)
	if !ok || len(bounds) != 2 {
		e.log.Warn("BETWEEN filter value is not a [min, max] pair", zap.Any("value", filterValue))
		return false
	}
	lo, err := types.CompareValues(fieldValue, bounds[0])
	if err != nil {
		return false
	}
	hi, err := types.CompareValues(fieldValue, bounds[1])
	if err != nil {
		return false
	}
	return lo >= 0 && hi <= 0
}

// evaluateCompound combines child results. A NOT node with arity other than
// one is a construction error; it is logged and evaluates true rather than
// failing closed. See DESIGN.md before changing this.
func (e *Engine) evaluateCompound(l *types.Listing, node Compound) bool {
	if len(node.Expressions) == 0 {
		return true
	}

	switch node.Operator {
	case LogicalAnd:
		for _, child := range node.Expressions {
			if !e.Evaluate(l, child) {
				return false
			}
		}
		return true

	case LogicalOr:
		for _, child := range node.Expressions {
			if e.Evaluate(l, child) {
				return true
			}
		}
		return false

	case LogicalNot:
		if len(node.Expressions) != 1 {
			e.log.Warn("NOT filter expects exactly one child",
				zap.Int("children", len(node.Expressions)))
			return true
		}
		return !e.Evaluate(l, node.Expressions[0])

	default:
		e.log.Warn("unknown logical operator", zap.String("operator", string(node.Operator)))
		return true
	}
}
