package objgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stixlab/stixgen/constraints"
	"github.com/stixlab/stixgen/registry"
)

// generateObject assembles one object value: import base first, then the
// spec's own properties chosen per presence co-constraints and overlaid on
// top of the base.
func (g *Generator) generateObject(s *registry.Spec, stack []string) (any, error) {
	obj := make(map[string]any)
	if s.Import != "" {
		base, err := g.generateImport(s, stack)
		if err != nil {
			return nil, err
		}
		obj = base
	}

	include, err := g.selectProperties(s)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(include))
	for name := range include {
		names = append(names, name)
	}
	sort.Strings(names)

	ccs, err := constraints.ParseAll(s.ValueCoconstraints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	// Co-constraints range only over the specification's own properties, never
	// over imported-only ones.
	for _, cc := range ccs {
		for _, prop := range []string{cc.Left, cc.Right} {
			if _, ok := s.Properties[prop]; !ok {
				return nil, fmt.Errorf("%w: %q in %q", ErrInvalidReference, prop, cc)
			}
		}
	}

	own := make(map[string]any, len(names))
	for _, name := range names {
		c := projectConstraint(ccs, name, own)
		v, err := g.generate(s.Properties[name], stack, c)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		own[name] = v
	}
	for name, v := range own {
		obj[name] = v
	}
	return obj, nil
}

func (g *Generator) generateImport(s *registry.Spec, stack []string) (map[string]any, error) {
	for _, name := range stack {
		if name == s.Import {
			return nil, &CyclicReferenceError{Stack: append(append([]string{}, stack...), s.Import)}
		}
	}
	base, err := g.reg.Lookup(s.Import)
	if err != nil {
		return nil, err
	}
	v, err := g.generate(base, append(stack, s.Import), nil)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: import %q did not produce an object", ErrTypeMismatch, s.Import)
	}
	return obj, nil
}

// projectConstraint finds a value co-constraint mentioning prop whose
// opposite side has already been generated, and projects it onto prop.
func projectConstraint(ccs []*constraints.Coconstraint, prop string, own map[string]any) *constraints.Constraint {
	for _, cc := range ccs {
		other, ok := cc.Other(prop)
		if !ok {
			continue
		}
		if v, done := own[other]; done {
			return cc.ConstraintFor(prop, v)
		}
	}
	return nil
}

// selectProperties decides which of the specification's own properties appear in
// the generated object, honoring group constraint kinds, the optional
// probability, reference minimization, and dependency cascades.
func (g *Generator) selectProperties(s *registry.Spec) (map[string]bool, error) {
	include := make(map[string]bool)
	memberOf := make(map[string]string)
	var groups map[string][]string
	kinds := make(map[string]string)
	var deps map[string][]string
	if p := s.Presence; p != nil {
		groups = p.Groups
		deps = p.Dependencies
		for gname, members := range groups {
			for _, m := range members {
				memberOf[m] = gname
			}
		}
		for _, gname := range p.One {
			kinds[gname] = "one"
		}
		for _, gname := range p.All {
			kinds[gname] = "all"
		}
		for _, gname := range p.AtLeastOne {
			kinds[gname] = "at-least-one"
		}
	}

	// 1. Ungrouped properties, by required/optional status.
	for _, name := range s.PropOrder {
		if _, grouped := memberOf[name]; grouped {
			continue
		}
		switch {
		case g.isRequired(s, name):
			include[name] = true
		case g.cfg.MinimizeRefProperties && isRefName(name):
			// Optional reference properties stay out.
		case g.rnd.Float64() < g.cfg.OptionalPropertyProbability:
			include[name] = true
		}
	}

	// 2. Groups, by constraint kind and required/optional status.
	groupNames := make([]string, 0, len(groups))
	for gname := range groups {
		groupNames = append(groupNames, gname)
	}
	sort.Strings(groupNames)
	for _, gname := range groupNames {
		required := g.isRequired(s, gname)
		if !required {
			if g.cfg.MinimizeRefProperties && allRefs(groups[gname]) {
				continue
			}
			if g.rnd.Float64() >= g.cfg.OptionalPropertyProbability {
				continue
			}
		}
		for _, m := range g.pickMembers(kinds[gname], groups[gname]) {
			include[m] = true
		}
	}

	// 3. Dependency cascade, to a fixpoint.
	present := func(name string) bool {
		if include[name] {
			return true
		}
		for _, m := range groups[name] {
			if include[m] {
				return true
			}
		}
		return false
	}
	depKeys := make([]string, 0, len(deps))
	for key := range deps {
		depKeys = append(depKeys, key)
	}
	sort.Strings(depKeys)
	for changed := true; changed; {
		changed = false
		for _, key := range depKeys {
			if !present(key) {
				continue
			}
			for _, dep := range deps[key] {
				if present(dep) {
					continue
				}
				if members, isGroup := groups[dep]; isGroup {
					for _, m := range g.pickMembers(kinds[dep], members) {
						include[m] = true
					}
				} else {
					include[dep] = true
				}
				changed = true
			}
		}
	}
	return include, nil
}

// isRequired resolves the required/optional status of a property or group
// name. With a "required" list, unlisted names are optional; with an
// "optional" list, unlisted names are required; with neither, everything
// is required.
func (g *Generator) isRequired(s *registry.Spec, name string) bool {
	switch {
	case s.HasRequired:
		for _, r := range s.Required {
			if r == name {
				return true
			}
		}
		return false
	case s.HasOptional:
		for _, o := range s.Optional {
			if o == name {
				return false
			}
		}
		return true
	}
	return true
}

// pickMembers selects which members of a present group appear, per the
// group's constraint kind. Reference minimization narrows the candidate
// pool when non-reference members exist.
func (g *Generator) pickMembers(kind string, members []string) []string {
	if kind == "all" {
		return members
	}
	nonRef := make([]string, 0, len(members))
	for _, m := range members {
		if !isRefName(m) {
			nonRef = append(nonRef, m)
		}
	}
	pool := members
	if g.cfg.MinimizeRefProperties && len(nonRef) > 0 {
		pool = nonRef
	}
	first := pool[g.rnd.Intn(len(pool))]
	if kind == "one" {
		return []string{first}
	}
	// at-least-one: one mandatory member, the others join with the
	// optional-property probability. Under minimization the candidates
	// exclude reference members, so an all-reference group yields exactly
	// one pick.
	rest := members
	if g.cfg.MinimizeRefProperties {
		rest = nonRef
	}
	picked := []string{first}
	for _, m := range rest {
		if m != first && g.rnd.Float64() < g.cfg.OptionalPropertyProbability {
			picked = append(picked, m)
		}
	}
	sort.Strings(picked)
	return picked
}

// isRefName reports whether a property name is a STIX reference property.
func isRefName(name string) bool {
	return strings.HasSuffix(name, "_ref") || strings.HasSuffix(name, "_refs")
}

func allRefs(members []string) bool {
	for _, m := range members {
		if !isRefName(m) {
			return false
		}
	}
	return true
}
