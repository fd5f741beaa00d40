// Package materialize turns an expanded object graph into concrete
// generated objects.
//
// Materialization is two-phase. First every node is generated from its
// type's registry specification, fixing each object's identifier. Then the
// node's property overlay is applied: literal overrides verbatim, node
// references replaced by the referenced objects' identifiers. The split
// means reference direction never constrains generation order, so forward
// references folded in by "on" clauses resolve like any other. Finally
// each graph edge becomes a relationship object with its source_ref,
// target_ref and relationship_type overridden.
//
// Output order is stable: nodes in arena order, then one relationship per
// edge in edge order.
package materialize
