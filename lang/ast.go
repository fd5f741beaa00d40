package lang

// Statement is one top-level, period-terminated construct. The concrete
// types are *VarDeclStatement, *SightingStatement, and *GraphStatement.
type Statement interface {
	stmt()
}

// GraphStatement is an object reference or list, optionally related to a
// nested graph statement. Chains (A rel1 B rel2 C) nest rightward: the
// relationship's Target is itself a GraphStatement.
type GraphStatement struct {
	// Sources holds one ref, or several when parenthesized as a list.
	Sources []*ObjectRef
	// List records whether Sources came from a parenthesized list.
	List bool
	// Rel is the optional outgoing relationship.
	Rel *Relationship

	Line, Column int
}

func (*GraphStatement) stmt() {}

// Relationship is the tail of a graph statement: an edge name, an optional
// multiplicity, and the target graph statement.
type Relationship struct {
	// Count is the number of parallel edges per source/target pair (>= 1).
	Count int
	// Type is the relationship name (e.g. "targets", "uses", "on").
	Type string
	// Target supplies the edge target(s); its own Rel continues a chain.
	Target *GraphStatement

	Line, Column int
}

// ObjectRef names one object occurrence: either an inline typed reference
// (with optional count and property block) or a bare variable use.
type ObjectRef struct {
	// Count is the multiplicity for inline refs (>= 1). Always 1 for
	// variable uses.
	Count int
	// TypeName is set for inline refs; empty for variable uses.
	TypeName string
	// VarName is set for variable uses; empty for inline refs.
	VarName string
	// Block is the optional property block. Nil for variable uses.
	Block *PropertyBlock

	Line, Column int
}

// IsVariable reports whether the ref is a variable use.
func (r *ObjectRef) IsVariable() bool { return r.VarName != "" }

// PropertyBlock is an ordered set of property overrides attached to a ref.
type PropertyBlock struct {
	Entries []*PropertyEntry
}

// PropertyEntry assigns one property. Value is a *StringValue,
// *StringListValue, or *GraphStatement (whose source nodes become the
// property's value).
type PropertyEntry struct {
	Name  string
	Value PropertyValue

	Line, Column int
}

// PropertyValue is the value side of a property assignment.
type PropertyValue interface {
	propValue()
}

// StringValue is a string literal property value.
type StringValue struct {
	Value string
}

func (*StringValue) propValue() {}

// StringListValue is a bracketed list of string literals.
type StringListValue struct {
	Values []string
}

func (*StringListValue) propValue() {}

func (*GraphStatement) propValue() {}

// VarDeclStatement declares one or more variables of a shared type:
//
//	2 m, i { name: "x" } : Malware .
type VarDeclStatement struct {
	Decls []*VarDecl
	// TypeName is the declared object type, shared by all Decls.
	TypeName string

	Line, Column int
}

func (*VarDeclStatement) stmt() {}

// VarDecl is a single declared variable: name, value count, and optional
// property block applied to every held value.
type VarDecl struct {
	Count int
	Name  string
	Block *PropertyBlock

	Line, Column int
}

// SightingStatement is the special ternary sighting form:
//
//	Sighting { where_sighted_refs: i } of Malware .
//
// Of supplies sighting_of_ref; the block carries everything else.
type SightingStatement struct {
	Block *PropertyBlock
	Of    *GraphStatement

	Line, Column int
}

func (*SightingStatement) stmt() {}
