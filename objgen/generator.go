package objgen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/stixlab/stixgen/constraints"
	"github.com/stixlab/stixgen/registry"
	"github.com/stixlab/stixgen/semantics"
)

// Generator produces randomized values from registry specifications.
type Generator struct {
	reg  *registry.Registry
	disp *semantics.Dispatcher
	cfg  Config
	rnd  *rand.Rand
}

// New builds a generator over reg and disp. Without WithSeed or WithRand
// the session is seeded from the current time.
func New(reg *registry.Registry, disp *semantics.Dispatcher, opts ...Option) *Generator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{reg: reg, disp: disp, cfg: cfg, rnd: cfg.Rand}
}

// Generate produces one value from the specification registered under name.
func (g *Generator) Generate(name string) (any, error) {
	spec, err := g.reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	return g.generate(spec, []string{name}, nil)
}

// GenerateObject is Generate restricted to object-valued specifications.
func (g *Generator) GenerateObject(name string) (map[string]any, error) {
	v, err := g.Generate(name)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q did not produce an object", ErrTypeMismatch, name)
	}
	return obj, nil
}

// GenerateFromSpec produces one value from an unregistered specification,
// typically decoded ad hoc. References inside spec still resolve against
// the generator's registry.
func (g *Generator) GenerateFromSpec(spec *registry.Spec) (any, error) {
	return g.generate(spec, nil, nil)
}

// generate dispatches one specification. stack holds the registry names
// currently being expanded, for cycle detection; c is an advisory value
// constraint forwarded to semantics hooks.
func (g *Generator) generate(s *registry.Spec, stack []string, c *constraints.Constraint) (any, error) {
	switch {
	case s.HasConst:
		if err := checkType(s.Const, s.Type); err != nil {
			return nil, err
		}
		return copyValue(s.Const), nil

	case s.Semantics != "":
		ctx := &semantics.Context{Rand: g.rnd, Constraint: c}
		v, err := g.disp.Generate(s.Semantics, ctx, s.Params)
		if err != nil {
			return nil, err
		}
		if err := checkType(v, s.Type); err != nil {
			return nil, fmt.Errorf("%w: %q produced %T for declared type %q",
				ErrSemanticsMismatch, s.Semantics, v, s.Type)
		}
		return v, nil

	case s.Ref != "":
		return g.generateRef(s, stack, c)

	case len(s.OneOf) > 0:
		alt, err := g.chooseAlternative(s)
		if err != nil {
			return nil, err
		}
		v, err := g.generate(alt, stack, c)
		if err != nil {
			return nil, err
		}
		if err := checkType(v, s.Type); err != nil {
			return nil, err
		}
		return v, nil
	}

	switch s.Type {
	case "string":
		return g.generateString(s), nil
	case "number":
		return g.generateNumber(s)
	case "integer":
		return g.generateInteger(s)
	case "boolean":
		return g.rnd.Intn(2) == 0, nil
	case "null":
		return nil, nil
	case "array":
		return g.generateArray(s, stack)
	case "object":
		return g.generateObject(s, stack)
	case "":
		return nil, fmt.Errorf("%w: no generation strategy", ErrInvalidSpec)
	}
	return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidSpec, s.Type)
}

func (g *Generator) generateRef(s *registry.Spec, stack []string, c *constraints.Constraint) (any, error) {
	for _, name := range stack {
		if name == s.Ref {
			return nil, &CyclicReferenceError{Stack: append(append([]string{}, stack...), s.Ref)}
		}
	}
	target, err := g.reg.Lookup(s.Ref)
	if err != nil {
		return nil, err
	}
	if s.Type != "" && target.Type != "" && s.Type != target.Type {
		return nil, fmt.Errorf("%w: ref %q declares %q, target declares %q",
			ErrTypeMismatch, s.Ref, s.Type, target.Type)
	}
	v, err := g.generate(target, append(stack, s.Ref), c)
	if err != nil {
		return nil, err
	}
	if err := checkType(v, s.Type); err != nil {
		return nil, fmt.Errorf("ref %q: %w", s.Ref, err)
	}
	return v, nil
}

// chooseAlternative picks one oneOf branch, uniformly or by weight.
func (g *Generator) chooseAlternative(s *registry.Spec) (*registry.Spec, error) {
	if s.Weights == nil {
		return s.OneOf[g.rnd.Intn(len(s.OneOf))], nil
	}
	if len(s.Weights) != len(s.OneOf) {
		return nil, fmt.Errorf("%w: %d weights for %d alternatives",
			ErrInvalidWeights, len(s.Weights), len(s.OneOf))
	}
	var total float64
	for i, w := range s.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weights[%d] = %v", ErrInvalidWeights, i, w)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
	}
	pick := g.rnd.Float64() * total
	for i, w := range s.Weights {
		pick -= w
		if pick < 0 {
			return s.OneOf[i], nil
		}
	}
	return s.OneOf[len(s.OneOf)-1], nil
}

func (g *Generator) generateString(s *registry.Spec) string {
	min, max := g.cfg.StringLengthMin, g.cfg.StringLengthMax
	if s.MinLength != nil {
		min = *s.MinLength
	}
	if s.MaxLength != nil {
		max = *s.MaxLength
	}
	n := min
	if max > min {
		n += g.rnd.Intn(max - min + 1)
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = g.cfg.StringChars[g.rnd.Intn(len(g.cfg.StringChars))]
	}
	return string(buf)
}

func (g *Generator) generateNumber(s *registry.Spec) (float64, error) {
	lo, hi, loOpen, hiOpen := g.numericBounds(s)
	if lo > hi || (lo == hi && (loOpen || hiOpen)) {
		return 0, fmt.Errorf("%w: empty numeric range (%v, %v)", ErrInvalidSpec, lo, hi)
	}
	v := lo + g.rnd.Float64()*(hi-lo)
	// Float64 covers [0, 1): the lower endpoint is reachable, the upper
	// is not. Nudge an excluded endpoint inward.
	if loOpen && v == lo {
		v = math.Nextafter(lo, hi)
	}
	return v, nil
}

func (g *Generator) generateInteger(s *registry.Spec) (int64, error) {
	lo, hi, loOpen, hiOpen := g.numericBounds(s)
	loInt := int64(math.Ceil(lo))
	if loOpen && lo == math.Trunc(lo) {
		loInt = int64(lo) + 1
	}
	hiInt := int64(math.Floor(hi))
	if hiOpen && hi == math.Trunc(hi) {
		hiInt = int64(hi) - 1
	}
	if loInt > hiInt {
		return 0, fmt.Errorf("%w: no integers in range (%v, %v)", ErrInvalidSpec, lo, hi)
	}
	return loInt + g.rnd.Int63n(hiInt-loInt+1), nil
}

func (g *Generator) numericBounds(s *registry.Spec) (lo, hi float64, loOpen, hiOpen bool) {
	lo, hi = g.cfg.NumberMin, g.cfg.NumberMax
	switch {
	case s.Minimum != nil:
		lo = *s.Minimum
	case s.ExclusiveMinimum != nil:
		lo, loOpen = *s.ExclusiveMinimum, true
	}
	switch {
	case s.Maximum != nil:
		hi = *s.Maximum
	case s.ExclusiveMaximum != nil:
		hi, hiOpen = *s.ExclusiveMaximum, true
	}
	return lo, hi, loOpen, hiOpen
}

func (g *Generator) generateArray(s *registry.Spec, stack []string) (any, error) {
	if s.Items == nil {
		return nil, fmt.Errorf("%w: array without \"items\"", ErrInvalidSpec)
	}
	min, max := g.cfg.ArrayLengthMin, g.cfg.ArrayLengthMax
	if s.MinItems != nil {
		min, max = *s.MinItems, *s.MaxItems
	}
	n := min
	if max > min {
		n += g.rnd.Intn(max - min + 1)
	}
	out := make([]any, n)
	for i := range out {
		v, err := g.generate(s.Items, stack, nil)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// checkType verifies v against a declared type name. An empty declaration
// accepts anything.
func checkType(v any, declared string) error {
	if declared == "" {
		return nil
	}
	switch declared {
	case "null":
		if v == nil {
			return nil
		}
	case "boolean":
		if _, ok := v.(bool); ok {
			return nil
		}
	case "string":
		if _, ok := v.(string); ok {
			return nil
		}
	case "number":
		if isNumeric(v) {
			return nil
		}
	case "integer":
		if f, ok := asFloat(v); ok && f == math.Trunc(f) {
			return nil
		}
	case "array":
		if _, ok := v.([]any); ok {
			return nil
		}
	case "object":
		if _, ok := v.(map[string]any); ok {
			return nil
		}
	default:
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidSpec, declared)
	}
	return fmt.Errorf("%w: %T value for declared type %q", ErrTypeMismatch, v, declared)
}

func isNumeric(v any) bool {
	_, ok := asFloat(v)
	return ok
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// copyValue deep-copies constants so callers can overlay and mutate
// generated objects without aliasing registry state.
func copyValue(v any) any {
	switch c := v.(type) {
	case []any:
		out := make([]any, len(c))
		for i, e := range c {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, e := range c {
			out[k] = copyValue(e)
		}
		return out
	}
	return v
}
