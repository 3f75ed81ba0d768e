package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderLeaf(t *testing.T) {
	q := NewQuery().Field("price").LessEqual(20000)
	expr, ok := q.Expression().(Simple)
	require.True(t, ok)
	assert.Equal(t, "price", expr.Field)
	assert.Equal(t, OpLessEqual, expr.Operator)
	assert.Equal(t, 20000, expr.Value)
}

func TestBuilderAndPrependsHeldExpression(t *testing.T) {
	q := NewQuery().Make("Toyota").And(
		NewQuery().PriceMax(30000),
		NewQuery().YearNewerThan(2012),
	)

	compound, ok := q.Expression().(Compound)
	require.True(t, ok)
	assert.Equal(t, LogicalAnd, compound.Operator)
	require.Len(t, compound.Expressions, 3)

	// The held expression stays first; the arguments follow in order.
	assert.Equal(t, "make", compound.Expressions[0].(Simple).Field)
	assert.Equal(t, "price", compound.Expressions[1].(Simple).Field)
	assert.Equal(t, "year", compound.Expressions[2].(Simple).Field)
}

func TestBuilderCombineEdgeCases(t *testing.T) {
	// Combining with only empty builders changes nothing.
	q := NewQuery().Make("Toyota")
	held := q.Expression()
	q = q.And(NewQuery(), nil)
	assert.Equal(t, held, q.Expression())

	// An empty builder absorbing a single expression takes it verbatim,
	// without wrapping it in a one-child compound.
	q = NewQuery().Or(NewQuery().Make("Honda"))
	_, isSimple := q.Expression().(Simple)
	assert.True(t, isSimple)

	// An empty builder absorbing several wraps them.
	q = NewQuery().Or(NewQuery().Make("Honda"), NewQuery().Make("Mazda"))
	compound, ok := q.Expression().(Compound)
	require.True(t, ok)
	assert.Equal(t, LogicalOr, compound.Operator)
	assert.Len(t, compound.Expressions, 2)
}

func TestBuilderNot(t *testing.T) {
	q := NewQuery().Make("Toyota").Not()
	compound, ok := q.Expression().(Compound)
	require.True(t, ok)
	assert.Equal(t, LogicalNot, compound.Operator)
	require.Len(t, compound.Expressions, 1)

	// Not on an empty builder is a no-op.
	assert.Nil(t, NewQuery().Not().Expression())
}

func TestBuilderFieldReplacesHeldExpression(t *testing.T) {
	// A second leaf on the same builder replaces the first; conjunction
	// requires an explicit And.
	q := NewQuery().Make("Toyota").Model("Corolla")
	expr, ok := q.Expression().(Simple)
	require.True(t, ok)
	assert.Equal(t, "model", expr.Field)
}

func TestDomainShorthands(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *QueryBuilder
		field    string
		operator Operator
		value    any
	}{
		{name: "Make", build: func() *QueryBuilder { return NewQuery().Make("Toyota") }, field: "make", operator: OpEquals, value: "Toyota"},
		{name: "ModelContains", build: func() *QueryBuilder { return NewQuery().ModelContains("rolla") }, field: "model", operator: OpContains, value: "rolla"},
		{name: "PriceBetween", build: func() *QueryBuilder { return NewQuery().PriceBetween(12000, 28000) }, field: "price", operator: OpBetween, value: []any{12000.0, 28000.0}},
		{name: "PriceMin", build: func() *QueryBuilder { return NewQuery().PriceMin(5000) }, field: "price", operator: OpGreaterEqual, value: 5000.0},
		{name: "YearOlderThan", build: func() *QueryBuilder { return NewQuery().YearOlderThan(2010) }, field: "year", operator: OpLessEqual, value: 2010},
		{name: "MileageMax", build: func() *QueryBuilder { return NewQuery().MileageMax(80000) }, field: "mileage", operator: OpLessEqual, value: 80000},
		{name: "Location", build: func() *QueryBuilder { return NewQuery().Location("Wellington") }, field: "location", operator: OpContains, value: "Wellington"},
		{name: "HasFeature", build: func() *QueryBuilder { return NewQuery().HasFeature("heated_seats") }, field: "features.heated_seats", operator: OpEquals, value: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, ok := tt.build().Expression().(Simple)
			require.True(t, ok)
			assert.Equal(t, tt.field, expr.Field)
			assert.Equal(t, tt.operator, expr.Operator)
			assert.Equal(t, tt.value, expr.Value)
		})
	}
}

func TestNewQueryFrom(t *testing.T) {
	inner := Simple{Field: "make", Operator: OpEquals, Value: "Toyota"}
	q := NewQueryFrom(inner).And(NewQuery().PriceMax(20000))

	compound, ok := q.Expression().(Compound)
	require.True(t, ok)
	require.Len(t, compound.Expressions, 2)
	assert.Equal(t, inner, compound.Expressions[0])
}
