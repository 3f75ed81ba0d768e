// Package filter implements the boolean predicate engine over listing
// collections: a closed expression variant (simple field/operator/value
// leaves, AND/OR/NOT compounds), a fluent query builder, an evaluation
// engine, a lossless JSON wire codec, and a manager for named filters.
//
// The engine never fails on data: missing fields and type mismatches
// evaluate to non-matches, and one malformed listing never aborts filtering
// of the rest of a collection. The only fail-open path (a NOT node with
// arity other than one) is logged.
package filter
