package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stixlab/stixgen/graph"
	"github.com/stixlab/stixgen/lang"
)

// build parses src and expands it, failing the test on any error.
func build(t *testing.T, src string) *graph.Graph {
	t.Helper()
	stmts, err := lang.Parse(src)
	require.NoError(t, err)
	g, err := graph.Build(stmts)
	require.NoError(t, err)

	return g
}

// buildErr parses src and returns the build error.
func buildErr(t *testing.T, src string) error {
	t.Helper()
	stmts, err := lang.Parse(src)
	require.NoError(t, err)
	g, err := graph.Build(stmts)
	require.Error(t, err)
	assert.Nil(t, g)

	return err
}

// typeCounts tallies nodes by type name.
func typeCounts(g *graph.Graph) map[string]int {
	counts := make(map[string]int)
	for _, n := range g.Nodes {
		counts[n.Type]++
	}

	return counts
}

func TestBuild_SingleObject(t *testing.T) {
	g := build(t, "Identity.")
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Identity", g.Nodes[0].Type)
	assert.Empty(t, g.Edges)
}

func TestBuild_CountExpandsToIndependentNodes(t *testing.T) {
	g := build(t, "3 Malware.")
	assert.Len(t, g.Nodes, 3)
	assert.Empty(t, g.Edges)
}

// "2 Identity." and "(Identity Identity)." expand to the same graph shape.
func TestBuild_CountEquivalentToList(t *testing.T) {
	counted := build(t, "2 Identity.")
	listed := build(t, "(Identity Identity).")
	assert.Equal(t, typeCounts(counted), typeCounts(listed))
	assert.Equal(t, len(counted.Edges), len(listed.Edges))
}

func TestBuild_EdgeCountIsCartesianProduct(t *testing.T) {
	// 2 sources x 3 targets x 2 parallel edges = 12.
	g := build(t, "2 Threat_Actor 2 uses 3 Tool.")
	assert.Len(t, g.Nodes, 5)
	require.Len(t, g.Edges, 12)
	for _, e := range g.Edges {
		assert.Equal(t, "uses", e.Type)
		assert.Equal(t, "Threat_Actor", g.Node(e.Source).Type)
		assert.Equal(t, "Tool", g.Node(e.Target).Type)
	}
}

func TestBuild_ChainThreadsIntermediateNodes(t *testing.T) {
	g := build(t, "Campaign uses 2 Malware targets Identity.")
	assert.Equal(t, map[string]int{"Campaign": 1, "Malware": 2, "Identity": 1}, typeCounts(g))

	// 1x2 uses-edges plus 2x1 targets-edges, sharing the Malware nodes.
	require.Len(t, g.Edges, 4)
	byType := make(map[string]int)
	for _, e := range g.Edges {
		byType[e.Type]++
	}
	assert.Equal(t, map[string]int{"uses": 2, "targets": 2}, byType)
}

func TestBuild_VariableNodesAreReused(t *testing.T) {
	g := build(t, "m: Malware. m targets Identity. m targets Location.")
	assert.Equal(t, 1, typeCounts(g)["Malware"])
	require.Len(t, g.Edges, 2)
	assert.Equal(t, g.Edges[0].Source, g.Edges[1].Source)

	require.Contains(t, g.Bindings, "m")
	assert.Len(t, g.Bindings["m"], 1)
}

func TestBuild_CountedVariableBindsAllCopies(t *testing.T) {
	g := build(t, "3 m: Malware. m targets Identity.")
	assert.Len(t, g.Bindings["m"], 3)
	// All three bound nodes relate to the one Identity.
	assert.Len(t, g.Edges, 3)
}

func TestBuild_DeclarationOrderFollowsDependencies(t *testing.T) {
	// g depends on i through its block, so i's node must exist first even
	// though g is declared first.
	g := build(t, "g { created_by_ref: i } : Grouping. i: Identity. g.")
	require.Len(t, g.Nodes, 2)

	gID := g.Bindings["g"][0]
	iID := g.Bindings["i"][0]
	assert.Less(t, int(iID), int(gID))

	require.Len(t, g.Node(gID).Props, 1)
	assert.Equal(t, graph.Ref(iID), g.Node(gID).Props[0].Value)
}

func TestBuild_DependencyCycleFails(t *testing.T) {
	err := buildErr(t, "a { x_ref: b } : Note. b { y_ref: a } : Note.")
	assert.ErrorIs(t, err, graph.ErrDependencyCycle)

	var cerr *graph.DependencyCycleError
	require.ErrorAs(t, err, &cerr)
	assert.GreaterOrEqual(t, len(cerr.Path), 3)
	assert.Equal(t, cerr.Path[0], cerr.Path[len(cerr.Path)-1])
}

func TestBuild_SelfReferenceThroughBlockFails(t *testing.T) {
	err := buildErr(t, "a { created_by_ref: a } : Identity.")
	assert.ErrorIs(t, err, graph.ErrDependencyCycle)
}

func TestBuild_UndeclaredVariableFails(t *testing.T) {
	err := buildErr(t, "m targets Identity.")
	assert.ErrorIs(t, err, graph.ErrUndeclaredVariable)
}

func TestBuild_RedeclaredVariableFails(t *testing.T) {
	err := buildErr(t, "m: Malware. m: Identity.")
	assert.ErrorIs(t, err, graph.ErrRedeclaredVariable)
}

func TestBuild_UnusedVariableStillCreatesNodes(t *testing.T) {
	g := build(t, "2 m: Malware. Identity.")
	assert.Equal(t, 2, typeCounts(g)["Malware"])
	assert.Equal(t, 1, typeCounts(g)["Identity"])
}

func TestBuild_PropertyBlockOverlay(t *testing.T) {
	g := build(t, `Identity { name: "ACME", roles: ["ceo", "vp"] }.`)
	require.Len(t, g.Nodes, 1)

	props := g.Nodes[0].Props
	require.Len(t, props, 2)
	assert.Equal(t, graph.String("ACME"), props[0].Value)
	assert.Equal(t, graph.StringList{"ceo", "vp"}, props[1].Value)
}

func TestBuild_NestedGraphPropertyBecomesRefs(t *testing.T) {
	g := build(t, "Note { object_refs: 2 Indicator }.")
	assert.Equal(t, map[string]int{"Note": 1, "Indicator": 2}, typeCounts(g))

	var note *graph.Node
	for _, n := range g.Nodes {
		if n.Type == "Note" {
			note = n
		}
	}
	require.NotNil(t, note)
	require.Len(t, note.Props, 1)
	refs, ok := note.Props[0].Value.(graph.RefList)
	require.True(t, ok)
	assert.Len(t, refs, 2)
}

// A parenthesized list keeps its list shape even with a single element; only
// a bare ref collapses to a scalar.
func TestBuild_SingleElementListStaysList(t *testing.T) {
	g := build(t, `Note { object_refs: (Identity) }.`)

	var note *graph.Node
	for _, n := range g.Nodes {
		if n.Type == "Note" {
			note = n
		}
	}
	require.NotNil(t, note)
	require.Len(t, note.Props, 1)
	refs, ok := note.Props[0].Value.(graph.RefList)
	require.True(t, ok, "explicit list syntax must produce a RefList, got %T", note.Props[0].Value)
	assert.Len(t, refs, 1)

	g = build(t, `Note { created_by_ref: Identity }.`)
	for _, n := range g.Nodes {
		if n.Type == "Note" {
			note = n
		}
	}
	_, ok = note.Props[0].Value.(graph.Ref)
	assert.True(t, ok, "a bare ref must stay scalar")
}

func TestBuild_OnFoldsObjectRefs(t *testing.T) {
	g := build(t, "Report on (Malware 2 Identity).")
	assert.Empty(t, g.Edges, "'on' must not create relationship objects")
	assert.Equal(t, map[string]int{"Report": 1, "Malware": 1, "Identity": 2}, typeCounts(g))

	report := g.Nodes[0]
	require.Equal(t, "Report", report.Type)
	require.Len(t, report.Props, 1)
	assert.Equal(t, "object_refs", report.Props[0].Name)
	refs, ok := report.Props[0].Value.(graph.RefList)
	require.True(t, ok)
	assert.Len(t, refs, 3)
}

func TestBuild_SightingOf(t *testing.T) {
	g := build(t, "Sighting of Malware.")
	assert.Equal(t, map[string]int{"sighting": 1, "Malware": 1}, typeCounts(g))
	assert.Empty(t, g.Edges)

	var sighting *graph.Node
	for _, n := range g.Nodes {
		if n.Type == "sighting" {
			sighting = n
		}
	}
	require.NotNil(t, sighting)
	require.Len(t, sighting.Props, 1)
	assert.Equal(t, "sighting_of_ref", sighting.Props[0].Name)
	_, isRef := sighting.Props[0].Value.(graph.Ref)
	assert.True(t, isRef)
}

func TestBuild_SightingOfSeveralBecomesRefList(t *testing.T) {
	g := build(t, "Sighting of 2 Indicator.")
	var sighting *graph.Node
	for _, n := range g.Nodes {
		if n.Type == "sighting" {
			sighting = n
		}
	}
	require.NotNil(t, sighting)
	refs, ok := sighting.Props[0].Value.(graph.RefList)
	require.True(t, ok)
	assert.Len(t, refs, 2)
}

func TestBuild_SightingConflictFails(t *testing.T) {
	err := buildErr(t, `Sighting { sighting_of_ref: Malware } of Indicator.`)
	assert.ErrorIs(t, err, graph.ErrSightingConflict)
}

func TestBuild_SightingBlockWithoutOfIsAllowed(t *testing.T) {
	g := build(t, "Sighting { sighting_of_ref: Malware }.")
	assert.Equal(t, 1, typeCounts(g)["sighting"])
}
