package semantics

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/stixlab/stixgen/constraints"
)

var (
	// ErrUnknownSemantic is returned when no hook is registered under the
	// requested name.
	ErrUnknownSemantic = errors.New("semantics: unknown semantic")

	// ErrBadParams is returned by hooks handed parameters they cannot
	// interpret.
	ErrBadParams = errors.New("semantics: bad parameters")
)

// Context carries per-invocation state into a hook.
type Context struct {
	// Rand is the generation session's random source. Hooks draw from it
	// exclusively so a fixed seed reproduces identical output.
	Rand *rand.Rand

	// Constraint, when non-nil, relates the value being generated to an
	// already generated sibling property. Hooks may ignore it.
	Constraint *constraints.Constraint
}

// Func produces one value. The params map holds every field of the
// originating specification besides "type" and "semantics".
type Func func(ctx *Context, params map[string]any) (any, error)

// Dispatcher routes semantics names to registered hooks.
type Dispatcher struct {
	hooks map[string]Func
}

// NewDispatcher returns a dispatcher with no hooks registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{hooks: make(map[string]Func)}
}

// Register binds name to fn, replacing any previous binding.
func (d *Dispatcher) Register(name string, fn Func) {
	d.hooks[name] = fn
}

// Has reports whether a hook is registered under name.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.hooks[name]
	return ok
}

// Names returns the registered hook names in sorted order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.hooks))
	for name := range d.hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate invokes the hook registered under name.
func (d *Dispatcher) Generate(name string, ctx *Context, params map[string]any) (any, error) {
	fn, ok := d.hooks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSemantic, name)
	}
	return fn(ctx, params)
}
