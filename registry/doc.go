// Package registry defines the declarative specification format driving
// object generation, and a named, read-only store of specifications.
//
// A specification document is a JSON- or YAML-encoded mapping from name to
// specification. A specification is either a bare literal (shorthand for a
// constant), a {"const": ...} wrapper, or a typed form with "type" one of
// string, number, integer, boolean, null, array, or object. Object forms
// additionally support:
//
//   - "import": name of a base specification merged underneath this one
//   - "properties", "required"/"optional" (field names or property-group names)
//   - "presence-coconstraints": property groups, their symmetric constraint
//     kind (one / all / at-least-one), and asymmetric dependencies
//   - "value-coconstraints": relational expressions such as "created <= modified"
//   - "ref": delegate to another registry entry of the same type
//   - "semantics": name of a pluggable generation hook, with passthrough
//     parameters
//   - "oneOf": alternative sub-specifications, optionally weighted via a
//     sibling "weights" list
//
// Load validates structural rules eagerly: duplicate names, malformed
// property groups (empty, overlapping, unassigned or doubly-assigned
// constraint kinds), required/optional conflicts, grouped properties named
// individually, and dependency key/value overlap are all rejected at load
// time. A length-1 property group is validated, then dropped, so its member
// behaves as an ordinary property. Reference type compatibility is
// deliberately lazy, since a "ref" target may arrive in a later document;
// the generator enforces it on first use.
//
// Builtin returns a registry preloaded with the embedded STIX 2.1 document.
// A loaded registry is immutable from the generator's point of view and may
// be shared read-only across concurrent generation sessions.
package registry
