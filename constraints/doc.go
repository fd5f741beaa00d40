// Package constraints models relational value co-constraints between two
// properties of an object specification, such as "created <= modified".
//
// A Coconstraint relates two property names through a comparison operator.
// Once one side has been generated, ConstraintFor projects the binary
// relation onto the other side, yielding a single-value Constraint that a
// semantics hook can honor when producing the second property.
//
// Constraints are advisory: a hook that does not understand them ignores
// them, and generation still succeeds.
package constraints
