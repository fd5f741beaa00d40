// Package semantics provides named, pluggable value-generation hooks used
// by specifications via their "semantics" field.
//
// A Dispatcher maps hook names to Func implementations. Each invocation
// receives a Context carrying the session's random source and, optionally,
// a relational constraint projected from a value co-constraint of the
// enclosing object. Honoring the constraint is voluntary: hooks that have
// no meaningful ordering simply ignore it.
//
// RegisterSTIX installs the STIX-flavored hooks (stix-id, stix-timestamp,
// sha-256, sha-512). RegisterFaker installs realistic-data hooks (names,
// emails, URLs, addresses, sentences) backed by gofakeit.
package semantics
