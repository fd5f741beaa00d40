// Package graph expands a parsed prototyping-language AST into a concrete
// object-relationship graph.
//
// Build walks the statement sequence in two passes. The first pass collects
// variable declarations, computes each variable's dependency set (the other
// variables referenced inside its property block), and topologically orders
// them; a cyclic dependency is fatal and reported as a *DependencyCycleError
// naming the cycle. Variable nodes are created in dependency order, so a
// node's property block only ever references nodes that already exist. The
// second pass expands the remaining graph statements: every inline object
// reference materializes count-many independent nodes, every variable use
// reuses the declaration's nodes, and each relationship between a source
// expansion of size N and a target expansion of size M with edge count C
// yields exactly N*M*C edges.
//
// Nodes and edges live in an arena: nodes are addressed by dense NodeID
// indices and all cross-references (edges, property values, variable
// bindings) are indices into the node table, never pointers. An "on"
// clause may fold a forward reference into an earlier node, so consumers
// resolve identifiers for the whole arena before chasing references.
//
// The special relationship "on" and the sighting statement do not produce
// edges; they fold their targets into synthesized properties (object_refs,
// sighting_of_ref) on the source node.
//
// Build is all-or-nothing: any error yields no graph.
package graph
