package lang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stixlab/stixgen/lang"
)

// parseOne parses a single-statement source and returns that statement.
func parseOne(t *testing.T, src string) lang.Statement {
	t.Helper()
	stmts, err := lang.Parse(src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	return stmts[0]
}

func TestParse_BareObject(t *testing.T) {
	stmt := parseOne(t, "Identity.")
	gs, ok := stmt.(*lang.GraphStatement)
	require.True(t, ok)
	require.Len(t, gs.Sources, 1)
	assert.Equal(t, "Identity", gs.Sources[0].TypeName)
	assert.Equal(t, 1, gs.Sources[0].Count)
	assert.False(t, gs.List)
	assert.Nil(t, gs.Rel)
}

func TestParse_CountedObject(t *testing.T) {
	stmt := parseOne(t, "3 Malware.")
	gs := stmt.(*lang.GraphStatement)
	require.Len(t, gs.Sources, 1)
	assert.Equal(t, 3, gs.Sources[0].Count)
	assert.Equal(t, "Malware", gs.Sources[0].TypeName)
}

func TestParse_Relationship(t *testing.T) {
	stmt := parseOne(t, "2 Threat_Actor uses 3 Tool.")
	gs := stmt.(*lang.GraphStatement)
	require.NotNil(t, gs.Rel)
	assert.Equal(t, "uses", gs.Rel.Type)
	assert.Equal(t, 1, gs.Rel.Count)
	require.Len(t, gs.Rel.Target.Sources, 1)
	assert.Equal(t, "Tool", gs.Rel.Target.Sources[0].TypeName)
	assert.Equal(t, 3, gs.Rel.Target.Sources[0].Count)
}

func TestParse_CountedRelationship(t *testing.T) {
	stmt := parseOne(t, "Identity 2 targets Location.")
	gs := stmt.(*lang.GraphStatement)
	require.NotNil(t, gs.Rel)
	assert.Equal(t, 2, gs.Rel.Count)
	assert.Equal(t, "targets", gs.Rel.Type)
}

func TestParse_Chain_NestsRightward(t *testing.T) {
	stmt := parseOne(t, "Campaign uses Malware targets Identity.")
	gs := stmt.(*lang.GraphStatement)
	require.NotNil(t, gs.Rel)
	assert.Equal(t, "uses", gs.Rel.Type)

	mid := gs.Rel.Target
	assert.Equal(t, "Malware", mid.Sources[0].TypeName)
	require.NotNil(t, mid.Rel)
	assert.Equal(t, "targets", mid.Rel.Type)
	assert.Equal(t, "Identity", mid.Rel.Target.Sources[0].TypeName)
}

func TestParse_ObjectList(t *testing.T) {
	stmt := parseOne(t, "(2 Malware Identity) targets Location.")
	gs := stmt.(*lang.GraphStatement)
	assert.True(t, gs.List)
	require.Len(t, gs.Sources, 2)
	assert.Equal(t, 2, gs.Sources[0].Count)
	assert.Equal(t, "Malware", gs.Sources[0].TypeName)
	assert.Equal(t, "Identity", gs.Sources[1].TypeName)
}

func TestParse_PropertyBlock(t *testing.T) {
	stmt := parseOne(t, `Identity { name: "ACME", roles: ["ceo", "vp"] }.`)
	gs := stmt.(*lang.GraphStatement)
	block := gs.Sources[0].Block
	require.NotNil(t, block)
	require.Len(t, block.Entries, 2)

	assert.Equal(t, "name", block.Entries[0].Name)
	sv, ok := block.Entries[0].Value.(*lang.StringValue)
	require.True(t, ok)
	assert.Equal(t, "ACME", sv.Value)

	lv, ok := block.Entries[1].Value.(*lang.StringListValue)
	require.True(t, ok)
	assert.Equal(t, []string{"ceo", "vp"}, lv.Values)
}

func TestParse_NestedGraphPropertyValue(t *testing.T) {
	stmt := parseOne(t, "Note { object_refs: 2 Indicator }.")
	gs := stmt.(*lang.GraphStatement)
	entry := gs.Sources[0].Block.Entries[0]
	nested, ok := entry.Value.(*lang.GraphStatement)
	require.True(t, ok)
	assert.Equal(t, "Indicator", nested.Sources[0].TypeName)
	assert.Equal(t, 2, nested.Sources[0].Count)
}

func TestParse_VariableDeclaration(t *testing.T) {
	stmt := parseOne(t, `2 m, i { name: "x" } : Malware.`)
	vd, ok := stmt.(*lang.VarDeclStatement)
	require.True(t, ok)
	assert.Equal(t, "Malware", vd.TypeName)
	require.Len(t, vd.Decls, 2)

	assert.Equal(t, "m", vd.Decls[0].Name)
	assert.Equal(t, 2, vd.Decls[0].Count)
	assert.Nil(t, vd.Decls[0].Block)

	assert.Equal(t, "i", vd.Decls[1].Name)
	assert.Equal(t, 1, vd.Decls[1].Count)
	require.NotNil(t, vd.Decls[1].Block)
}

func TestParse_VariableUseInGraphStatement(t *testing.T) {
	stmts, err := lang.Parse("m: Malware. m targets Identity.")
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	gs := stmts[1].(*lang.GraphStatement)
	require.Len(t, gs.Sources, 1)
	assert.True(t, gs.Sources[0].IsVariable())
	assert.Equal(t, "m", gs.Sources[0].VarName)
}

func TestParse_SightingOf(t *testing.T) {
	stmt := parseOne(t, "Sighting of Malware.")
	ss, ok := stmt.(*lang.SightingStatement)
	require.True(t, ok)
	assert.Nil(t, ss.Block)
	require.NotNil(t, ss.Of)
	assert.Equal(t, "Malware", ss.Of.Sources[0].TypeName)
}

func TestParse_SightingWithBlock(t *testing.T) {
	stmt := parseOne(t, `Sighting { summary: "true" } of 2 Indicator.`)
	ss := stmt.(*lang.SightingStatement)
	require.NotNil(t, ss.Block)
	require.Len(t, ss.Block.Entries, 1)
	assert.Equal(t, 2, ss.Of.Sources[0].Count)
}

func TestParse_BareSightingStatement(t *testing.T) {
	stmt := parseOne(t, "Sighting.")
	ss, ok := stmt.(*lang.SightingStatement)
	require.True(t, ok)
	assert.Nil(t, ss.Of)
}

// A counted Sighting is not the ternary form; it parses as an ordinary
// object reference.
func TestParse_CountedSightingIsPlainRef(t *testing.T) {
	stmt := parseOne(t, "2 Sighting.")
	gs, ok := stmt.(*lang.GraphStatement)
	require.True(t, ok)
	assert.Equal(t, "Sighting", gs.Sources[0].TypeName)
	assert.Equal(t, 2, gs.Sources[0].Count)
}

// "Sighting" heading an ordinary relationship reinterprets as a plain ref.
func TestParse_SightingAsRelationshipSource(t *testing.T) {
	stmt := parseOne(t, "Sighting targets Identity.")
	gs, ok := stmt.(*lang.GraphStatement)
	require.True(t, ok)
	assert.Equal(t, "Sighting", gs.Sources[0].TypeName)
	require.NotNil(t, gs.Rel)
	assert.Equal(t, "targets", gs.Rel.Type)
}

func TestParse_OnRelationship(t *testing.T) {
	stmt := parseOne(t, "Report on (Malware Identity).")
	gs := stmt.(*lang.GraphStatement)
	require.NotNil(t, gs.Rel)
	assert.Equal(t, "on", gs.Rel.Type)
	assert.Len(t, gs.Rel.Target.Sources, 2)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"empty input", "   "},
		{"missing period", "Identity"},
		{"zero count", "0 Identity."},
		{"leading zero count", "01 Identity."},
		{"counted on", "Report 2 on Malware."},
		{"count on variable use", "m: Malware. 2 m targets Identity."},
		{"block on variable use", `m: Malware. m { name: "x" } targets Identity.`},
		{"unterminated string", `Identity { name: "x }.`},
		{"unterminated block", `Identity { name: "x" .`},
		{"unterminated list", "(Identity Malware."},
		{"bad relationship name", "Identity Uses Malware."},
		{"stray token", "Identity } ."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lang.Parse(tc.src)
			assert.ErrorIs(t, err, lang.ErrSyntax)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := lang.Parse("Identity\ntargets targets Malware.")
	require.Error(t, err)

	var serr *lang.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 2, serr.Line)
}
