// Unit tests for filter evaluation semantics.
package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

// corolla is the workhorse fixture for operator tests.
func corolla() *types.Listing {
	l := types.NewListingWithID("corolla")
	l.SetAttribute("make", "Toyota", "autotrader", types.ConfidenceMedium)
	l.SetAttribute("model", "Corolla", "autotrader", types.ConfidenceMedium)
	l.SetAttribute("year", 2015, "autotrader", types.ConfidenceMedium)
	l.SetAttribute("price", 17950.0, "dealer-api", types.ConfidenceHigh)
	l.SetAttribute("options", []any{"sunroof", "tow bar"}, "autotrader", types.ConfidenceMedium)
	l.SetAttribute("features", map[string]any{"heated_seats": true, "doors": 4.0}, "autotrader", types.ConfidenceMedium)
	return l
}

func TestOperators(t *testing.T) {
	tests := []struct {
		name string
		expr Simple
		want bool
	}{
		{name: "equals match", expr: Simple{Field: "make", Operator: OpEquals, Value: "Toyota"}, want: true},
		{name: "equals mismatch", expr: Simple{Field: "make", Operator: OpEquals, Value: "Honda"}, want: false},
		{name: "equals numeric coercion", expr: Simple{Field: "year", Operator: OpEquals, Value: 2015.0}, want: true},

		{name: "not equals", expr: Simple{Field: "make", Operator: OpNotEquals, Value: "Honda"}, want: true},
		{name: "not equals on match", expr: Simple{Field: "make", Operator: OpNotEquals, Value: "Toyota"}, want: false},

		{name: "greater than", expr: Simple{Field: "year", Operator: OpGreaterThan, Value: 2014}, want: true},
		{name: "greater than equal bound", expr: Simple{Field: "year", Operator: OpGreaterThan, Value: 2015}, want: false},
		{name: "less than", expr: Simple{Field: "price", Operator: OpLessThan, Value: 18000}, want: true},
		{name: "greater equal at bound", expr: Simple{Field: "year", Operator: OpGreaterEqual, Value: 2015}, want: true},
		{name: "less equal at bound", expr: Simple{Field: "price", Operator: OpLessEqual, Value: 17950}, want: true},

		{name: "contains substring is case-insensitive", expr: Simple{Field: "model", Operator: OpContains, Value: "roll"}, want: true},
		{name: "contains no substring", expr: Simple{Field: "model", Operator: OpContains, Value: "civic"}, want: false},
		{name: "contains sequence membership", expr: Simple{Field: "options", Operator: OpContains, Value: "sunroof"}, want: true},
		{name: "contains sequence non-member", expr: Simple{Field: "options", Operator: OpContains, Value: "winch"}, want: false},

		{name: "starts with", expr: Simple{Field: "model", Operator: OpStartsWith, Value: "cor"}, want: true},
		{name: "ends with", expr: Simple{Field: "model", Operator: OpEndsWith, Value: "OLLA"}, want: true},
		{name: "starts with mismatch", expr: Simple{Field: "model", Operator: OpStartsWith, Value: "olla"}, want: false},

		{name: "in list", expr: Simple{Field: "make", Operator: OpInList, Value: []any{"Honda", "Toyota"}}, want: true},
		{name: "in list miss", expr: Simple{Field: "make", Operator: OpInList, Value: []any{"Honda", "Mazda"}}, want: false},
		{name: "in list with non-list value", expr: Simple{Field: "make", Operator: OpInList, Value: "Toyota"}, want: false},

		{name: "between inclusive both ends", expr: Simple{Field: "price", Operator: OpBetween, Value: []any{17950, 18000}}, want: true},
		{name: "between inside", expr: Simple{Field: "year", Operator: OpBetween, Value: []any{2014, 2016}}, want: true},
		{name: "between outside", expr: Simple{Field: "year", Operator: OpBetween, Value: []any{2016, 2020}}, want: false},
		{name: "between malformed bounds", expr: Simple{Field: "year", Operator: OpBetween, Value: []any{2014}}, want: false},

		{name: "is null on present field", expr: Simple{Field: "make", Operator: OpIsNull}, want: false},
		{name: "is not null on present field", expr: Simple{Field: "make", Operator: OpIsNotNull}, want: true},

		{name: "type mismatch is a non-match", expr: Simple{Field: "make", Operator: OpGreaterThan, Value: 5}, want: false},
	}

	engine := NewEngine(nil)
	l := corolla()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Evaluate(l, tt.expr))
		})
	}
}

func TestMissingFieldPolicy(t *testing.T) {
	engine := NewEngine(nil)
	l := corolla()

	// A missing field satisfies IS_NULL and nothing else.
	assert.True(t, engine.Evaluate(l, Simple{Field: "mileage", Operator: OpIsNull}))
	assert.False(t, engine.Evaluate(l, Simple{Field: "mileage", Operator: OpIsNotNull}))
	assert.False(t, engine.Evaluate(l, Simple{Field: "mileage", Operator: OpEquals, Value: nil}))
	assert.False(t, engine.Evaluate(l, Simple{Field: "mileage", Operator: OpLessThan, Value: 100000}))
}

func TestDottedFieldPaths(t *testing.T) {
	engine := NewEngine(nil)
	l := corolla()

	assert.True(t, engine.Evaluate(l, Simple{Field: "features.heated_seats", Operator: OpEquals, Value: true}))
	assert.True(t, engine.Evaluate(l, Simple{Field: "features.doors", Operator: OpEquals, Value: 4}))
	assert.True(t, engine.Evaluate(l, Simple{Field: "features.aircon", Operator: OpIsNull}))
	assert.False(t, engine.Evaluate(l, Simple{Field: "features.aircon", Operator: OpEquals, Value: true}))

	// Dotting through a non-mapping value resolves to nothing.
	assert.True(t, engine.Evaluate(l, Simple{Field: "make.nested", Operator: OpIsNull}))
}

func TestCompoundEvaluation(t *testing.T) {
	engine := NewEngine(nil)
	l := corolla()

	toyota := Simple{Field: "make", Operator: OpEquals, Value: "Toyota"}
	honda := Simple{Field: "make", Operator: OpEquals, Value: "Honda"}
	cheap := Simple{Field: "price", Operator: OpLessThan, Value: 20000}

	tests := []struct {
		name string
		expr Compound
		want bool
	}{
		{name: "and all true", expr: Compound{Operator: LogicalAnd, Expressions: []Expression{toyota, cheap}}, want: true},
		{name: "and one false", expr: Compound{Operator: LogicalAnd, Expressions: []Expression{toyota, honda}}, want: false},
		{name: "or one true", expr: Compound{Operator: LogicalOr, Expressions: []Expression{honda, cheap}}, want: true},
		{name: "or all false", expr: Compound{Operator: LogicalOr, Expressions: []Expression{honda}}, want: false},
		{name: "not inverts", expr: Compound{Operator: LogicalNot, Expressions: []Expression{honda}}, want: true},
		{name: "not on a match", expr: Compound{Operator: LogicalNot, Expressions: []Expression{toyota}}, want: false},

		// Empty compounds match everything, AND and OR alike.
		{name: "empty and is true", expr: Compound{Operator: LogicalAnd}, want: true},
		{name: "empty or is true", expr: Compound{Operator: LogicalOr}, want: true},
		{name: "empty not is true", expr: Compound{Operator: LogicalNot}, want: true},

		// NOT with wrong arity fails open.
		{name: "not with two children is true", expr: Compound{Operator: LogicalNot, Expressions: []Expression{toyota, honda}}, want: true},

		{name: "nested compound", expr: Compound{
			Operator: LogicalAnd,
			Expressions: []Expression{
				Compound{Operator: LogicalOr, Expressions: []Expression{honda, toyota}},
				cheap,
			},
		}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Evaluate(l, tt.expr))
		})
	}
}

func TestNotMatchesListingMissingField(t *testing.T) {
	engine := NewEngine(nil)
	bare := types.NewListingWithID("bare")

	// NOT(make EQUALS Toyota) matches a listing with no make at all: the
	// inner predicate fails on the missing field and NOT inverts it.
	expr := Compound{
		Operator:    LogicalNot,
		Expressions: []Expression{Simple{Field: "make", Operator: OpEquals, Value: "Toyota"}},
	}
	assert.True(t, engine.Evaluate(bare, expr))
	assert.False(t, engine.Evaluate(corolla(), expr))
}

func TestApplyPreservesOrder(t *testing.T) {
	engine := NewEngine(nil)

	mk := func(id string, year int) *types.Listing {
		l := types.NewListingWithID(id)
		l.SetAttribute("year", year, "autotrader", types.ConfidenceMedium)
		return l
	}
	c := types.NewCollection(mk("a", 2012), mk("b", 2018), mk("c", 2015), mk("d", 2020))

	got := engine.Apply(c, Simple{Field: "year", Operator: OpGreaterEqual, Value: 2015})
	ids := make([]string, 0, got.Len())
	for _, l := range got.Listings {
		ids = append(ids, l.ListingID)
	}
	assert.Equal(t, []string{"b", "c", "d"}, ids)

	// A nil expression leaves the collection untouched.
	assert.Same(t, c, engine.Apply(c, nil))
}

func TestApplyPriceRange(t *testing.T) {
	engine := NewEngine(nil)

	mk := func(id string, price float64) *types.Listing {
		l := types.NewListingWithID(id)
		l.SetAttribute("price", price, "autotrader", types.ConfidenceMedium)
		return l
	}
	c := types.NewCollection(
		mk("bargain", 9000),
		mk("low-bound", 12000),
		mk("middle", 19500),
		mk("high-bound", 28000),
		mk("premium", 45000),
	)

	got := engine.Apply(c, Simple{Field: "price", Operator: OpBetween, Value: []any{12000, 28000}})
	ids := make([]string, 0, got.Len())
	for _, l := range got.Listings {
		ids = append(ids, l.ListingID)
	}
	// Both bounds are inclusive and input order is preserved.
	assert.Equal(t, []string{"low-bound", "middle", "high-bound"}, ids)
}
