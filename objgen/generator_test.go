package objgen_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stixlab/stixgen/objgen"
	"github.com/stixlab/stixgen/registry"
	"github.com/stixlab/stixgen/semantics"
)

// newGenerator loads doc into a fresh registry and returns a seeded
// generator over it with the STIX semantics installed.
func newGenerator(t *testing.T, doc string, opts ...objgen.Option) *objgen.Generator {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.LoadJSON([]byte(doc)))

	disp := semantics.NewDispatcher()
	semantics.RegisterSTIX(disp)

	opts = append([]objgen.Option{objgen.WithSeed(1)}, opts...)

	return objgen.New(reg, disp, opts...)
}

func TestGenerate_UnknownName(t *testing.T) {
	gen := newGenerator(t, `{}`)
	_, err := gen.Generate("ghost")
	assert.ErrorIs(t, err, registry.ErrUnknownSpec)
}

func TestGenerate_ConstIsVerbatimAndStable(t *testing.T) {
	gen := newGenerator(t, `{"v": {"const": "2.1"}}`)
	for i := 0; i < 5; i++ {
		v, err := gen.Generate("v")
		require.NoError(t, err)
		assert.Equal(t, "2.1", v)
	}
}

func TestGenerate_ConstTypeChecked(t *testing.T) {
	gen := newGenerator(t, `{"v": {"type": "integer", "const": "nope"}}`)
	_, err := gen.Generate("v")
	assert.ErrorIs(t, err, objgen.ErrTypeMismatch)
}

func TestGenerate_ConstCopiesContainers(t *testing.T) {
	gen := newGenerator(t, `{"v": {"const": {"a": [1, 2]}}}`)
	v1, err := gen.Generate("v")
	require.NoError(t, err)
	v2, err := gen.Generate("v")
	require.NoError(t, err)

	v1.(map[string]any)["a"].([]any)[0] = float64(99)
	assert.Equal(t, float64(1), v2.(map[string]any)["a"].([]any)[0],
		"mutating one generated constant must not leak into the next")
}

func TestGenerate_String_DefaultAndSpecLengths(t *testing.T) {
	gen := newGenerator(t, `{
		"free": {"type": "string"},
		"tight": {"type": "string", "minLength": 2, "maxLength": 2}}`)

	for i := 0; i < 50; i++ {
		v, err := gen.Generate("free")
		require.NoError(t, err)
		s := v.(string)
		assert.GreaterOrEqual(t, len(s), 5)
		assert.LessOrEqual(t, len(s), 20)

		v, err = gen.Generate("tight")
		require.NoError(t, err)
		assert.Len(t, v, 2)
	}
}

func TestGenerate_Number_DefaultBounds(t *testing.T) {
	gen := newGenerator(t, `{"n": {"type": "number"}}`)
	for i := 0; i < 100; i++ {
		v, err := gen.Generate("n")
		require.NoError(t, err)
		f := v.(float64)
		assert.GreaterOrEqual(t, f, float64(-1000))
		assert.Less(t, f, float64(1000))
	}
}

func TestGenerate_Integer_InclusiveBounds(t *testing.T) {
	gen := newGenerator(t, `{"n": {"type": "integer", "minimum": 3, "maximum": 5}}`)
	seen := make(map[int64]bool)
	for i := 0; i < 200; i++ {
		v, err := gen.Generate("n")
		require.NoError(t, err)
		n := v.(int64)
		require.GreaterOrEqual(t, n, int64(3))
		require.LessOrEqual(t, n, int64(5))
		seen[n] = true
	}
	assert.Len(t, seen, 3, "all of 3, 4, 5 should occur")
}

func TestGenerate_Integer_ExclusiveBoundsShrink(t *testing.T) {
	// (2, 4) contains exactly one integer.
	gen := newGenerator(t, `{"n": {"type": "integer",
		"exclusiveMinimum": 2, "exclusiveMaximum": 4}}`)
	for i := 0; i < 20; i++ {
		v, err := gen.Generate("n")
		require.NoError(t, err)
		assert.Equal(t, int64(3), v)
	}
}

func TestGenerate_Integer_FractionalBoundsRound(t *testing.T) {
	// [2.2, 3.9] contains exactly one integer.
	gen := newGenerator(t, `{"n": {"type": "integer", "minimum": 2.2, "maximum": 3.9}}`)
	v, err := gen.Generate("n")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestGenerate_Integer_EmptyRange(t *testing.T) {
	gen := newGenerator(t, `{"n": {"type": "integer",
		"exclusiveMinimum": 3, "exclusiveMaximum": 4}}`)
	_, err := gen.Generate("n")
	assert.ErrorIs(t, err, objgen.ErrInvalidSpec)
}

func TestGenerate_Number_ExclusiveLowerBoundRespected(t *testing.T) {
	gen := newGenerator(t, `{"n": {"type": "number",
		"exclusiveMinimum": 0, "maximum": 1}}`)
	for i := 0; i < 100; i++ {
		v, err := gen.Generate("n")
		require.NoError(t, err)
		assert.Greater(t, v.(float64), float64(0))
	}
}

func TestGenerate_BooleanAndNull(t *testing.T) {
	gen := newGenerator(t, `{"b": {"type": "boolean"}, "z": {"type": "null"}}`)

	seen := make(map[bool]bool)
	for i := 0; i < 50; i++ {
		v, err := gen.Generate("b")
		require.NoError(t, err)
		seen[v.(bool)] = true
	}
	assert.Len(t, seen, 2)

	v, err := gen.Generate("z")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGenerate_Array_LengthBounds(t *testing.T) {
	gen := newGenerator(t, `{"a": {"type": "array", "items": {"type": "boolean"},
		"minItems": 2, "maxItems": 4}}`)
	for i := 0; i < 50; i++ {
		v, err := gen.Generate("a")
		require.NoError(t, err)
		items := v.([]any)
		assert.GreaterOrEqual(t, len(items), 2)
		assert.LessOrEqual(t, len(items), 4)
	}
}

func TestGenerate_Array_WithoutItemsFails(t *testing.T) {
	gen := newGenerator(t, `{"a": {"type": "array"}}`)
	_, err := gen.Generate("a")
	assert.ErrorIs(t, err, objgen.ErrInvalidSpec)
}

func TestGenerate_Ref_Delegates(t *testing.T) {
	gen := newGenerator(t, `{
		"alias": {"type": "string", "ref": "target"},
		"target": {"type": "string", "const": "resolved"}}`)
	v, err := gen.Generate("alias")
	require.NoError(t, err)
	assert.Equal(t, "resolved", v)
}

func TestGenerate_Ref_TypeMismatch(t *testing.T) {
	gen := newGenerator(t, `{
		"alias": {"type": "string", "ref": "target"},
		"target": {"type": "boolean"}}`)
	_, err := gen.Generate("alias")
	assert.ErrorIs(t, err, objgen.ErrTypeMismatch)
}

func TestGenerate_Ref_CycleDetected(t *testing.T) {
	gen := newGenerator(t, `{
		"a": {"type": "string", "ref": "b"},
		"b": {"type": "string", "ref": "a"}}`)
	_, err := gen.Generate("a")
	assert.ErrorIs(t, err, objgen.ErrCyclicReference)

	var cerr *objgen.CyclicReferenceError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"a", "b", "a"}, cerr.Stack)
}

func TestGenerate_Import_CycleDetected(t *testing.T) {
	gen := newGenerator(t, `{
		"a": {"type": "object", "import": "b"},
		"b": {"type": "object", "import": "a"}}`)
	_, err := gen.Generate("a")
	assert.ErrorIs(t, err, objgen.ErrCyclicReference)
}

func TestGenerate_OneOf_Uniform(t *testing.T) {
	gen := newGenerator(t, `{"v": {"type": "string", "oneOf": ["x", "y"]}}`)
	seen := make(map[string]int)
	for i := 0; i < 200; i++ {
		v, err := gen.Generate("v")
		require.NoError(t, err)
		seen[v.(string)]++
	}
	assert.Len(t, seen, 2)
}

// With weights 1:2 the second alternative should appear about twice as
// often; over 3000 draws the ratio is well inside [1.5, 2.5].
func TestGenerate_OneOf_WeightedRatio(t *testing.T) {
	gen := newGenerator(t, `{"v": {"type": "string",
		"oneOf": ["rare", "common"], "weights": [1, 2]}}`)
	seen := make(map[string]int)
	for i := 0; i < 3000; i++ {
		v, err := gen.Generate("v")
		require.NoError(t, err)
		seen[v.(string)]++
	}
	require.Positive(t, seen["rare"])
	ratio := float64(seen["common"]) / float64(seen["rare"])
	assert.Greater(t, ratio, 1.5)
	assert.Less(t, ratio, 2.5)
}

func TestGenerate_OneOf_BadWeights(t *testing.T) {
	cases := map[string]string{
		"negative weight": `{"v": {"oneOf": ["x", "y"], "weights": [1, -1]}}`,
		"zero sum":        `{"v": {"oneOf": ["x", "y"], "weights": [0, 0]}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			gen := newGenerator(t, doc)
			_, err := gen.Generate("v")
			assert.ErrorIs(t, err, objgen.ErrInvalidWeights)
		})
	}
}

func TestGenerate_SemanticsResultTypeChecked(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.LoadJSON([]byte(
		`{"v": {"type": "integer", "semantics": "always-string"}}`)))

	disp := semantics.NewDispatcher()
	disp.Register("always-string", func(_ *semantics.Context, _ map[string]any) (any, error) {
		return "oops", nil
	})

	gen := objgen.New(reg, disp, objgen.WithSeed(1))
	_, err := gen.Generate("v")
	assert.ErrorIs(t, err, objgen.ErrSemanticsMismatch)
}

func TestGenerate_NoStrategyFails(t *testing.T) {
	gen := newGenerator(t, `{"v": {}}`)
	_, err := gen.Generate("v")
	assert.ErrorIs(t, err, objgen.ErrInvalidSpec)
}

func TestGenerate_DeterministicUnderSeed(t *testing.T) {
	doc := `{"obj": {"type": "object", "properties": {
		"id": {"type": "string", "semantics": "stix-id", "stix-type": "tool"},
		"n": {"type": "integer", "minimum": 0, "maximum": 1000},
		"s": {"type": "string"},
		"flags": {"type": "array", "items": {"type": "boolean"}}},
		"required": ["id", "n"]}}`

	run := func() []any {
		gen := newGenerator(t, doc, objgen.WithSeed(99))
		var out []any
		for i := 0; i < 10; i++ {
			v, err := gen.Generate("obj")
			require.NoError(t, err)
			out = append(out, v)
		}
		return out
	}
	assert.Equal(t, fmt.Sprintf("%v", run()), fmt.Sprintf("%v", run()))
}
