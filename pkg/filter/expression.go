package filter

// Operator names the thirteen comparison operators. The constants double as
// the wire names in serialized expressions.
type Operator string

// Comparison operators.
const (
	OpEquals       Operator = "EQUALS"
	OpNotEquals    Operator = "NOT_EQUALS"
	OpGreaterThan  Operator = "GREATER_THAN"
	OpLessThan     Operator = "LESS_THAN"
	OpGreaterEqual Operator = "GREATER_EQUAL"
	OpLessEqual    Operator = "LESS_EQUAL"
	OpContains     Operator = "CONTAINS"
	OpStartsWith   Operator = "STARTS_WITH"
	OpEndsWith     Operator = "ENDS_WITH"
	OpInList       Operator = "IN_LIST"
	OpBetween      Operator = "BETWEEN"
	OpIsNull       Operator = "IS_NULL"
	OpIsNotNull    Operator = "IS_NOT_NULL"
)

// validOperators is the set of recognized comparison operators.
var validOperators = map[Operator]bool{
	OpEquals:       true,
	OpNotEquals:    true,
	OpGreaterThan:  true,
	OpLessThan:     true,
	OpGreaterEqual: true,
	OpLessEqual:    true,
	OpContains:     true,
	OpStartsWith:   true,
	OpEndsWith:     true,
	OpInList:       true,
	OpBetween:      true,
	OpIsNull:       true,
	OpIsNotNull:    true,
}

// Logical names the operators that combine expressions.
type Logical string

// Logical operators. Not is only meaningful with exactly one child.
const (
	LogicalAnd Logical = "AND"
	LogicalOr  Logical = "OR"
	LogicalNot Logical = "NOT"
)

// validLogicals is the set of recognized logical operators.
var validLogicals = map[Logical]bool{
	LogicalAnd: true,
	LogicalOr:  true,
	LogicalNot: true,
}

// Expression is a boolean predicate tree over a listing: either a Simple
// leaf or a Compound node. The variant is closed; expressions are immutable
// value objects and round-trip losslessly through the JSON codec.
type Expression interface {
	isExpression()
}

// Simple is a leaf predicate: one dotted field path, one operator, one
// comparison value. For OpBetween the value is a two-element sequence
// holding the inclusive bounds; for OpInList it is the candidate list.
type Simple struct {
	Field    string
	Operator Operator
	Value    any
}

// Compound combines child expressions with a logical operator. Children are
// ordered; builders rely on the order.
type Compound struct {
	Operator    Logical
	Expressions []Expression
}

func (Simple) isExpression()   {}
func (Compound) isExpression() {}
