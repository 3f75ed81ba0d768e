package filter

// QueryBuilder assembles expression trees fluently:
//
//	q := filter.NewQuery().Make("Toyota").And(
//	    filter.NewQuery().PriceMax(30000),
//	)
//
// Builders are mutable and not safe for concurrent use; the expressions they
// produce are immutable values.
type QueryBuilder struct {
	expr Expression
}

// NewQuery creates an empty builder.
func NewQuery() *QueryBuilder {
	return &QueryBuilder{}
}

// NewQueryFrom wraps an existing expression in a builder, so decoded
// expressions can be combined with further criteria.
func NewQueryFrom(expr Expression) *QueryBuilder {
	return &QueryBuilder{expr: expr}
}

// Expression returns the expression built so far, or nil for an empty
// builder.
func (q *QueryBuilder) Expression() Expression {
	return q.expr
}

// Field starts a leaf predicate on the given dotted field path.
func (q *QueryBuilder) Field(name string) *FieldBuilder {
	return &FieldBuilder{query: q, field: name}
}

// And combines this builder with others conjunctively. An expression already
// held by this builder is prepended to the new compound's children, before
// the supplied builders' expressions. The composition is order-sensitive on
// purpose; callers rely on the held expression staying first.
// Builders without an expression contribute nothing; if none contribute,
// the builder is unchanged.
func (q *QueryBuilder) And(others ...*QueryBuilder) *QueryBuilder {
	return q.combine(LogicalAnd, others)
}

// Or combines this builder with others disjunctively, with the same
// prepend ordering as And.
func (q *QueryBuilder) Or(others ...*QueryBuilder) *QueryBuilder {
	return q.combine(LogicalOr, others)
}

func (q *QueryBuilder) combine(op Logical, others []*QueryBuilder) *QueryBuilder {
	var exprs []Expression
	for _, other := range others {
		if other != nil && other.expr != nil {
			exprs = append(exprs, other.expr)
		}
	}
	if len(exprs) == 0 {
		return q
	}

	if q.expr == nil {
		if len(exprs) == 1 {
			q.expr = exprs[0]
		} else {
			q.expr = Compound{Operator: op, Expressions: exprs}
		}
		return q
	}

	q.expr = Compound{Operator: op, Expressions: append([]Expression{q.expr}, exprs...)}
	return q
}

// Not negates the expression built so far. Calling Not on an empty builder
// is a no-op.
func (q *QueryBuilder) Not() *QueryBuilder {
	if q.expr == nil {
		return q
	}
	q.expr = Compound{Operator: LogicalNot, Expressions: []Expression{q.expr}}
	return q
}

// Domain shorthands over Field for the common listing attributes.

// Make filters by exact make.
func (q *QueryBuilder) Make(name string) *QueryBuilder {
	return q.Field("make").Equals(name)
}

// Model filters by exact model.
func (q *QueryBuilder) Model(model string) *QueryBuilder {
	return q.Field("model").Equals(model)
}

// ModelContains filters by model substring.
func (q *QueryBuilder) ModelContains(text string) *QueryBuilder {
	return q.Field("model").Contains(text)
}

// PriceBetween filters by inclusive price range.
func (q *QueryBuilder) PriceBetween(min, max float64) *QueryBuilder {
	return q.Field("price").Between(min, max)
}

// PriceMax filters by maximum price.
func (q *QueryBuilder) PriceMax(max float64) *QueryBuilder {
	return q.Field("price").LessEqual(max)
}

// PriceMin filters by minimum price.
func (q *QueryBuilder) PriceMin(min float64) *QueryBuilder {
	return q.Field("price").GreaterEqual(min)
}

// YearBetween filters by inclusive model-year range.
func (q *QueryBuilder) YearBetween(min, max int) *QueryBuilder {
	return q.Field("year").Between(min, max)
}

// YearNewerThan filters for listings of the given year or newer.
func (q *QueryBuilder) YearNewerThan(year int) *QueryBuilder {
	return q.Field("year").GreaterEqual(year)
}

// YearOlderThan filters for listings of the given year or older.
func (q *QueryBuilder) YearOlderThan(year int) *QueryBuilder {
	return q.Field("year").LessEqual(year)
}

// MileageMax filters by maximum mileage.
func (q *QueryBuilder) MileageMax(max int) *QueryBuilder {
	return q.Field("mileage").LessEqual(max)
}

// Location filters by location substring.
func (q *QueryBuilder) Location(location string) *QueryBuilder {
	return q.Field("location").Contains(location)
}

// HasFeature filters for listings whose features mapping marks the named
// feature true.
func (q *QueryBuilder) HasFeature(feature string) *QueryBuilder {
	return q.Field("features." + feature).Equals(true)
}

// FieldBuilder finishes a leaf predicate for one field. Every operator
// method stores the leaf on the parent builder and returns it.
type FieldBuilder struct {
	query *QueryBuilder
	field string
}

func (f *FieldBuilder) set(op Operator, value any) *QueryBuilder {
	f.query.expr = Simple{Field: f.field, Operator: op, Value: value}
	return f.query
}

// Equals matches values equal to value.
func (f *FieldBuilder) Equals(value any) *QueryBuilder { return f.set(OpEquals, value) }

// NotEquals matches values different from value.
func (f *FieldBuilder) NotEquals(value any) *QueryBuilder { return f.set(OpNotEquals, value) }

// GreaterThan matches values strictly greater than value.
func (f *FieldBuilder) GreaterThan(value any) *QueryBuilder { return f.set(OpGreaterThan, value) }

// LessThan matches values strictly less than value.
func (f *FieldBuilder) LessThan(value any) *QueryBuilder { return f.set(OpLessThan, value) }

// GreaterEqual matches values greater than or equal to value.
func (f *FieldBuilder) GreaterEqual(value any) *QueryBuilder { return f.set(OpGreaterEqual, value) }

// LessEqual matches values less than or equal to value.
func (f *FieldBuilder) LessEqual(value any) *QueryBuilder { return f.set(OpLessEqual, value) }

// Contains matches case-insensitive substrings and sequence members.
func (f *FieldBuilder) Contains(value any) *QueryBuilder { return f.set(OpContains, value) }

// StartsWith matches strings with the given case-insensitive prefix.
func (f *FieldBuilder) StartsWith(value string) *QueryBuilder { return f.set(OpStartsWith, value) }

// EndsWith matches strings with the given case-insensitive suffix.
func (f *FieldBuilder) EndsWith(value string) *QueryBuilder { return f.set(OpEndsWith, value) }

// InList matches values present in the candidate list.
func (f *FieldBuilder) InList(values []any) *QueryBuilder { return f.set(OpInList, values) }

// Between matches values within the inclusive [min, max] range.
func (f *FieldBuilder) Between(min, max any) *QueryBuilder {
	return f.set(OpBetween, []any{min, max})
}

// IsNull matches absent or nil fields.
func (f *FieldBuilder) IsNull() *QueryBuilder { return f.set(OpIsNull, nil) }

// IsNotNull matches present, non-nil fields.
func (f *FieldBuilder) IsNotNull() *QueryBuilder { return f.set(OpIsNotNull, nil) }
