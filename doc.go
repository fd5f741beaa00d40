// Package stixgen turns terse "prototyping language" sentences into fully
// populated STIX 2.1 object graphs, using randomized, specification-driven
// generation.
//
// A statement like
//
//	2 Malware targets Identity .
//
// is parsed, expanded into an object graph (two malware nodes, one identity
// node, two relationship edges), and every node is filled in with concrete,
// schema-shaped content drawn from a declarative specification registry.
//
// The pipeline is organized as small composable subpackages:
//
//	lang/        lexer and parser for the prototyping language
//	graph/       multiplicity expansion, variables, dependency ordering
//	registry/    named store of generation specifications (import/ref)
//	constraints/ value co-constraint expressions and derived constraints
//	objgen/      the randomized, specification-driven value generator
//	semantics/   pluggable named generation hooks (stix-id, timestamps, fakes)
//	materialize/ walks the graph and produces the final objects
//
// Quick start:
//
//	reg, _ := registry.Builtin()
//	disp := semantics.NewDispatcher()
//	semantics.RegisterSTIX(disp)
//	semantics.RegisterFaker(disp, gofakeit.New(42))
//	gen := objgen.New(reg, disp, objgen.WithSeed(42))
//
//	stmts, _ := lang.Parse("Sighting of Malware .")
//	g, _ := graph.Build(stmts)
//	out, _ := materialize.Materialize(g, gen)
//
// All generation is deterministic for a fixed seed; errors surface as
// package-level sentinels suitable for errors.Is.
package stixgen
