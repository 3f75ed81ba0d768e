package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

func TestMarshalWireShape(t *testing.T) {
	data, err := Marshal(Simple{Field: "price", Operator: OpBetween, Value: []any{12000, 28000}})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "simple", wire["type"])
	assert.Equal(t, "price", wire["field"])
	assert.Equal(t, "BETWEEN", wire["operator"])
	assert.Equal(t, []any{12000.0, 28000.0}, wire["value"])
}

func TestRoundTripEvaluatesIdentically(t *testing.T) {
	expr := Compound{
		Operator: LogicalAnd,
		Expressions: []Expression{
			Simple{Field: "make", Operator: OpEquals, Value: "Toyota"},
			Compound{
				Operator: LogicalNot,
				Expressions: []Expression{
					Simple{Field: "price", Operator: OpGreaterThan, Value: 30000},
				},
			},
			Simple{Field: "year", Operator: OpBetween, Value: []any{2012, 2020}},
		},
	}

	data, err := Marshal(expr)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)

	engine := NewEngine(nil)
	fixtures := []*types.Listing{corolla(), types.NewListingWithID("bare")}
	for _, l := range fixtures {
		assert.Equal(t, engine.Evaluate(l, expr), engine.Evaluate(l, decoded),
			"round trip changed the verdict for %s", l.ListingID)
	}
}

func TestUnmarshalRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{nope"},
		{name: "missing type", data: `{"field":"make","operator":"EQUALS","value":"Toyota"}`},
		{name: "unknown type", data: `{"type":"ternary"}`},
		{name: "unknown operator", data: `{"type":"simple","field":"make","operator":"SOUNDS_LIKE","value":"Toyota"}`},
		{name: "unknown logical operator", data: `{"type":"compound","operator":"XOR","expressions":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Unmarshal([]byte(tt.data))
			assert.Nil(t, expr)
			assert.ErrorIs(t, err, ErrInvalidExpression)
		})
	}
}

func TestUnmarshalDropsBadCompoundChildren(t *testing.T) {
	data := `{"type":"compound","operator":"AND","expressions":[
		{"type":"simple","field":"make","operator":"EQUALS","value":"Toyota"},
		{"type":"simple","field":"year","operator":"SOUNDS_LIKE","value":2015},
		{"type":"simple","field":"price","operator":"LESS_THAN","value":20000}
	]}`

	expr, err := Unmarshal([]byte(data))
	require.NoError(t, err)

	compound, ok := expr.(Compound)
	require.True(t, ok)
	assert.Equal(t, LogicalAnd, compound.Operator)
	// The undecodable child is dropped; its siblings survive.
	require.Len(t, compound.Expressions, 2)
	assert.Equal(t, "make", compound.Expressions[0].(Simple).Field)
	assert.Equal(t, "price", compound.Expressions[1].(Simple).Field)
}

func TestMarshalNilExpression(t *testing.T) {
	_, err := Marshal(nil)
	assert.ErrorIs(t, err, ErrInvalidExpression)
}
