// Package lang implements the lexer and parser for the STIX prototyping
// language: a terse, sentence-like notation for describing object graphs.
//
// A source text is a sequence of statements, each terminated by a period:
//
//	2 Malware targets Identity .
//	g { object_refs: i } : Grouping .
//	2 i : Identity .
//	Sighting of Malware .
//
// Lexical rules:
//
//   - Object type names start uppercase and contain letters and underscores
//     only (Attack_Pattern).
//   - Relationship names are lowercase alphanumerics and hyphens (related-to).
//   - Variable names are lowercase alphanumerics, hyphens and underscores.
//   - Property names are lowercase alphanumerics and underscores.
//   - String literals are double-quoted with backslash escapes.
//   - Counts are positive decimal integers with no leading zero.
//
// Parse produces an ordered []Statement AST; it never partially succeeds.
// All failures are *SyntaxError values wrapping ErrSyntax, carrying the
// 1-based line and column of the offending token.
package lang
