package constraints

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidExpression is returned by Parse for expressions that are not of
// the form "<property> <op> <property>".
var ErrInvalidExpression = errors.New("constraints: invalid expression")

// Operator is a binary comparison relating two property values.
type Operator int

const (
	EQ Operator = iota
	NE
	LT
	LE
	GT
	GE
)

var opStrings = map[Operator]string{
	EQ: "=", NE: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
}

var opLookup = map[string]Operator{
	"=": EQ, "!=": NE, "<": LT, "<=": LE, ">": GT, ">=": GE,
}

func (op Operator) String() string {
	if s, ok := opStrings[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// Reverse returns the operator seen from the other operand, so that
// "a < b" and "b > a" describe the same relation.
func (op Operator) Reverse() Operator {
	switch op {
	case LT:
		return GT
	case LE:
		return GE
	case GT:
		return LT
	case GE:
		return LE
	}
	// Equality and inequality are symmetric.
	return op
}

// Coconstraint relates two distinct properties of the same object.
type Coconstraint struct {
	Left  string
	Op    Operator
	Right string
}

// Parse decodes an expression of the form "prop1 <op> prop2". The two
// property names must differ; a property cannot be constrained against
// itself.
func Parse(expr string) (*Coconstraint, error) {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
	}
	op, ok := opLookup[fields[1]]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operator %q in %q", ErrInvalidExpression, fields[1], expr)
	}
	if fields[0] == fields[2] {
		return nil, fmt.Errorf("%w: %q relates a property to itself", ErrInvalidExpression, expr)
	}
	return &Coconstraint{Left: fields[0], Op: op, Right: fields[2]}, nil
}

// ParseAll decodes a list of expressions, failing on the first bad one.
func ParseAll(exprs []string) ([]*Coconstraint, error) {
	out := make([]*Coconstraint, 0, len(exprs))
	for _, expr := range exprs {
		c, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Mentions reports whether prop is one of the two constrained properties.
func (c *Coconstraint) Mentions(prop string) bool {
	return c.Left == prop || c.Right == prop
}

// Other returns the property name opposite prop, and false when prop is
// not part of the constraint.
func (c *Coconstraint) Other(prop string) (string, bool) {
	switch prop {
	case c.Left:
		return c.Right, true
	case c.Right:
		return c.Left, true
	}
	return "", false
}

func (c *Coconstraint) String() string {
	return c.Left + " " + c.Op.String() + " " + c.Right
}

// Constraint is a Coconstraint projected onto one property once the other
// side's value is known: the value being generated must relate to Value
// through Op.
type Constraint struct {
	Op    Operator
	Value any
}

// ConstraintFor projects the relation onto prop, given the already
// generated value of the opposite property. It returns nil when prop is
// not part of the constraint.
func (c *Coconstraint) ConstraintFor(prop string, otherValue any) *Constraint {
	switch prop {
	case c.Left:
		return &Constraint{Op: c.Op, Value: otherValue}
	case c.Right:
		return &Constraint{Op: c.Op.Reverse(), Value: otherValue}
	}
	return nil
}
