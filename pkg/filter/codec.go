package filter

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wire type discriminators.
const (
	wireTypeSimple   = "simple"
	wireTypeCompound = "compound"
)

// ErrInvalidExpression reports malformed serialized filter data: a missing
// or unknown type discriminator, or an unknown operator. Deserialization
// never panics on bad input; callers treat the error as "no filter".
var ErrInvalidExpression = errors.New("invalid filter expression")

// wireSimple is the serialized form of a Simple leaf.
type wireSimple struct {
	Type     string   `json:"type"`
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// wireCompound is the serialized form of a Compound node.
type wireCompound struct {
	Type        string            `json:"type"`
	Operator    Logical           `json:"operator"`
	Expressions []json.RawMessage `json:"expressions"`
}

// wireProbe decodes just enough of either wire shape to dispatch.
type wireProbe struct {
	Type        string            `json:"type"`
	Field       string            `json:"field"`
	Operator    string            `json:"operator"`
	Value       json.RawMessage   `json:"value"`
	Expressions []json.RawMessage `json:"expressions"`
}

// Marshal serializes an expression tree to its JSON wire form:
//
//	{"type":"simple","field":"price","operator":"BETWEEN","value":[12000,28000]}
//	{"type":"compound","operator":"AND","expressions":[...]}
func Marshal(expr Expression) ([]byte, error) {
	switch e := expr.(type) {
	case Simple:
		return json.Marshal(wireSimple{
			Type:     wireTypeSimple,
			Field:    e.Field,
			Operator: e.Operator,
			Value:    e.Value,
		})
	case Compound:
		children := make([]json.RawMessage, 0, len(e.Expressions))
		for _, child := range e.Expressions {
			data, err := Marshal(child)
			if err != nil {
				return nil, err
			}
			children = append(children, data)
		}
		return json.Marshal(wireCompound{
			Type:        wireTypeCompound,
			Operator:    e.Operator,
			Expressions: children,
		})
	case nil:
		return nil, fmt.Errorf("%w: nil expression", ErrInvalidExpression)
	default:
		return nil, fmt.Errorf("%w: unknown expression type %T", ErrInvalidExpression, expr)
	}
}

// Unmarshal rebuilds an expression tree from its wire form. Stored filters
// come from external stores whose contents this core does not control, so
// malformed input yields ErrInvalidExpression rather than a panic.
// Undecodable children of a compound node are dropped; the node itself
// survives.
func Unmarshal(data []byte) (Expression, error) {
	var probe wireProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	switch probe.Type {
	case wireTypeSimple:
		op := Operator(probe.Operator)
		if !validOperators[op] {
			return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidExpression, probe.Operator)
		}
		var value any
		if len(probe.Value) > 0 {
			if err := json.Unmarshal(probe.Value, &value); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
			}
		}
		return Simple{Field: probe.Field, Operator: op, Value: value}, nil

	case wireTypeCompound:
		op := Logical(probe.Operator)
		if !validLogicals[op] {
			return nil, fmt.Errorf("%w: unknown logical operator %q", ErrInvalidExpression, probe.Operator)
		}
		children := make([]Expression, 0, len(probe.Expressions))
		for _, raw := range probe.Expressions {
			child, err := Unmarshal(raw)
			if err != nil {
				continue
			}
			children = append(children, child)
		}
		return Compound{Operator: op, Expressions: children}, nil

	default:
		return nil, fmt.Errorf("%w: unknown expression type %q", ErrInvalidExpression, probe.Type)
	}
}
