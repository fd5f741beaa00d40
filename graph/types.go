package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph building.
var (
	// ErrUndeclaredVariable indicates a variable use with no declaration.
	ErrUndeclaredVariable = errors.New("graph: undeclared variable")

	// ErrRedeclaredVariable indicates a variable declared more than once.
	ErrRedeclaredVariable = errors.New("graph: variable redeclared")

	// ErrDependencyCycle indicates circular dependencies among variable
	// declarations.
	ErrDependencyCycle = errors.New("graph: circular variable dependencies")

	// ErrSightingConflict indicates sighting_of_ref supplied both via an
	// "of" clause and a property block entry.
	ErrSightingConflict = errors.New("graph: sighting_of_ref given both explicitly and in the property block")
)

// DependencyCycleError names the variables implicated in a dependency cycle,
// in discovery order, with the entry variable repeated at the end.
type DependencyCycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("graph: circular variable dependencies: %s", strings.Join(e.Path, " > "))
}

// Unwrap ties the error into the ErrDependencyCycle sentinel chain.
func (e *DependencyCycleError) Unwrap() error { return ErrDependencyCycle }

// VariableError decorates variable-related sentinels with the variable name
// and its source position.
type VariableError struct {
	Name         string
	Line, Column int
	sentinel     error
}

// Error implements the error interface.
func (e *VariableError) Error() string {
	return fmt.Sprintf("%v: %s (at %d:%d)", e.sentinel, e.Name, e.Line, e.Column)
}

// Unwrap exposes the underlying sentinel for errors.Is.
func (e *VariableError) Unwrap() error { return e.sentinel }

// NodeID is a dense index into the graph's node arena.
type NodeID int

// Node is one to-be-generated object instance.
type Node struct {
	// ID is the node's arena index.
	ID NodeID
	// Type is the language-level type name used for registry lookup
	// (e.g. "Identity", or "sighting" for sighting statements).
	Type string
	// Props is the node's effective property overlay: explicit block
	// entries plus synthesized reference properties, in assignment order.
	// A later assignment of the same name overrides an earlier one.
	Props []Prop
}

// Prop is one property override carried by a node.
type Prop struct {
	Name  string
	Value Value
}

// Value is a property override value: String, StringList, Ref, or RefList.
type Value interface {
	value()
}

// String is a literal string override.
type String string

func (String) value() {}

// StringList is a literal list-of-strings override.
type StringList []string

func (StringList) value() {}

// Ref is a single node reference; it materializes as the referenced
// object's identifier.
type Ref NodeID

func (Ref) value() {}

// RefList is an ordered multi-node reference; it materializes as a list of
// identifiers.
type RefList []NodeID

func (RefList) value() {}

// Edge is one SRO-style relationship instance between two nodes. Parallel
// edges are distinct Edge records.
type Edge struct {
	Source NodeID
	Type   string
	Target NodeID
}

// Graph is the fully expanded build product. Property references from
// block entries point at lower-indexed nodes; references folded in by an
// "on" clause may point forward.
type Graph struct {
	Nodes []*Node
	Edges []Edge
	// Bindings maps each declared variable to the nodes holding its
	// values, in declaration count order.
	Bindings map[string][]NodeID
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) *Node { return g.Nodes[id] }
