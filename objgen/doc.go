// Package objgen turns registry specifications into randomized values.
//
// A Generator binds a registry, a semantics dispatcher, and a configured
// random source. Generation probes one strategy per specification, in a
// fixed order: constant, semantics hook, reference, weighted alternative
// (oneOf), then the declared type. Every random draw comes from the
// generator's own source, so a fixed seed reproduces identical output.
//
// Object generation resolves presence co-constraints (property groups with
// one / all / at-least-one kinds, plus dependency cascades), applies the
// optional-property probability to everything not forced present, and can
// minimize reference-bearing properties (*_ref, *_refs) to keep generated
// graphs self-contained. Value co-constraints such as "created <= modified"
// are projected onto the second property generated and forwarded to its
// semantics hook.
//
// Generators are not safe for concurrent use; give each goroutine its own.
package objgen
