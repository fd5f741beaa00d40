package registry

import (
	"fmt"
	"sort"
)

// Registry is a named store of specifications. Load it once up front, then
// share it read-only across generation sessions.
type Registry struct {
	specs map[string]*Spec
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// Load validates doc and merges it into the registry. A name already
// present in the registry is rejected with ErrDuplicateSpec; structural
// violations are rejected with ErrInvalidSpec. On error the registry is
// left unchanged.
func (r *Registry) Load(doc map[string]*Spec) error {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, exists := r.specs[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateSpec, name)
		}
		if err := validateSpec(doc[name], name); err != nil {
			return err
		}
	}
	for _, name := range names {
		r.specs[name] = doc[name]
	}
	return nil
}

// LoadJSON decodes a JSON document and loads it.
func (r *Registry) LoadJSON(data []byte) error {
	doc, err := ParseJSON(data)
	if err != nil {
		return err
	}
	return r.Load(doc)
}

// LoadYAML decodes a YAML document and loads it.
func (r *Registry) LoadYAML(data []byte) error {
	doc, err := ParseYAML(data)
	if err != nil {
		return err
	}
	return r.Load(doc)
}

// Lookup returns the specification registered under name, or an error
// wrapping ErrUnknownSpec.
func (r *Registry) Lookup(name string) (*Spec, error) {
	s, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpec, name)
	}
	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validateSpec applies structural rules recursively. Reference targets are
// deliberately not resolved here: a "ref" may point at an entry loaded by a
// later document.
func validateSpec(s *Spec, path string) error {
	if err := validateBounds(s, path); err != nil {
		return err
	}
	if s.Weights != nil && len(s.OneOf) == 0 {
		return invalidSpecf("%s: \"weights\" without \"oneOf\"", path)
	}
	for i, alt := range s.OneOf {
		if err := validateSpec(alt, fmt.Sprintf("%s.oneOf[%d]", path, i)); err != nil {
			return err
		}
	}
	if s.Items != nil {
		if err := validateSpec(s.Items, path+".items"); err != nil {
			return err
		}
	}
	for _, name := range s.PropOrder {
		if err := validateSpec(s.Properties[name], path+".properties."+name); err != nil {
			return err
		}
	}
	return validatePresence(s, path)
}

func validateBounds(s *Spec, path string) error {
	if s.Minimum != nil && s.ExclusiveMinimum != nil {
		return invalidSpecf("%s: \"minimum\" and \"exclusiveMinimum\" are mutually exclusive", path)
	}
	if s.Maximum != nil && s.ExclusiveMaximum != nil {
		return invalidSpecf("%s: \"maximum\" and \"exclusiveMaximum\" are mutually exclusive", path)
	}
	hasMin := s.Minimum != nil || s.ExclusiveMinimum != nil
	hasMax := s.Maximum != nil || s.ExclusiveMaximum != nil
	if hasMin != hasMax {
		return invalidSpecf("%s: numeric bounds must be given as a pair", path)
	}
	if (s.MinItems == nil) != (s.MaxItems == nil) {
		return invalidSpecf("%s: \"minItems\" and \"maxItems\" must be given as a pair", path)
	}
	if s.MinItems != nil && (*s.MinItems < 0 || *s.MinItems > *s.MaxItems) {
		return invalidSpecf("%s: invalid item count bounds [%d, %d]", path, *s.MinItems, *s.MaxItems)
	}
	if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
		return invalidSpecf("%s: minLength exceeds maxLength", path)
	}
	return nil
}

func validatePresence(s *Spec, path string) error {
	if s.HasRequired && s.HasOptional {
		return invalidSpecf("%s: \"required\" and \"optional\" are mutually exclusive", path)
	}

	memberOf := make(map[string]string)
	if p := s.Presence; p != nil {
		// 1. Groups must be non-empty, pairwise disjoint, distinct from
		//    property names, and contain only defined properties.
		groupNames := make([]string, 0, len(p.Groups))
		for gname := range p.Groups {
			groupNames = append(groupNames, gname)
		}
		sort.Strings(groupNames)
		for _, gname := range groupNames {
			members := p.Groups[gname]
			if len(members) == 0 {
				return invalidSpecf("%s: property group %q is empty", path, gname)
			}
			if _, isProp := s.Properties[gname]; isProp {
				return invalidSpecf("%s: property group %q collides with a property name", path, gname)
			}
			for _, member := range members {
				if _, ok := s.Properties[member]; !ok {
					return invalidSpecf("%s: group %q names undefined property %q", path, gname, member)
				}
				if other, dup := memberOf[member]; dup {
					return invalidSpecf("%s: property %q belongs to groups %q and %q", path, member, other, gname)
				}
				memberOf[member] = gname
			}
		}

		// 2. Every group carries exactly one symmetric constraint kind, and
		//    constraint lists name only defined groups.
		assigned := make(map[string]string)
		for _, kc := range []struct {
			kind string
			list []string
		}{
			{"one", p.One}, {"all", p.All}, {"at-least-one", p.AtLeastOne},
		} {
			kind, list := kc.kind, kc.list
			for _, gname := range list {
				if _, ok := p.Groups[gname]; !ok {
					return invalidSpecf("%s: constraint %q names undefined group %q", path, kind, gname)
				}
				if other, dup := assigned[gname]; dup {
					return invalidSpecf("%s: group %q assigned both %q and %q", path, gname, other, kind)
				}
				assigned[gname] = kind
			}
		}
		for _, gname := range groupNames {
			if _, ok := assigned[gname]; !ok {
				return invalidSpecf("%s: group %q has no constraint kind", path, gname)
			}
		}

		// 3. A length-1 group passes the checks above but then dissolves:
		//    its member behaves as an ordinary ungrouped property from here
		//    on, and the group name stops being addressable.
		for _, gname := range groupNames {
			members := p.Groups[gname]
			if len(members) != 1 {
				continue
			}
			delete(p.Groups, gname)
			delete(memberOf, members[0])
			p.One = withoutName(p.One, gname)
			p.All = withoutName(p.All, gname)
			p.AtLeastOne = withoutName(p.AtLeastOne, gname)
		}

		// 4. Dependency keys and values are disjoint sets of known names,
		//    none of which may be a grouped property: those are only
		//    reachable through their group.
		inValues := make(map[string]bool)
		depKeys := make([]string, 0, len(p.Dependencies))
		for key := range p.Dependencies {
			depKeys = append(depKeys, key)
		}
		sort.Strings(depKeys)
		for _, key := range depKeys {
			for _, val := range p.Dependencies[key] {
				if !knownName(s, val) {
					return invalidSpecf("%s: dependency on undefined name %q", path, val)
				}
				if gname, grouped := memberOf[val]; grouped {
					return invalidSpecf("%s: dependency names %q individually, but it belongs to group %q", path, val, gname)
				}
				inValues[val] = true
			}
		}
		for _, key := range depKeys {
			if !knownName(s, key) {
				return invalidSpecf("%s: dependency key %q is undefined", path, key)
			}
			if gname, grouped := memberOf[key]; grouped {
				return invalidSpecf("%s: dependency key %q belongs to group %q", path, key, gname)
			}
			if inValues[key] {
				return invalidSpecf("%s: name %q is both a dependency key and value", path, key)
			}
		}
	}

	// 5. Required and optional lists name only defined, individually
	//    addressable names.
	for _, listName := range []string{"required", "optional"} {
		list := s.Required
		if listName == "optional" {
			list = s.Optional
		}
		for _, name := range list {
			if !knownName(s, name) {
				return invalidSpecf("%s: %s names undefined %q", path, listName, name)
			}
			if gname, grouped := memberOf[name]; grouped {
				return invalidSpecf("%s: %s names %q, already in group %q", path, listName, name, gname)
			}
		}
	}
	return nil
}

// withoutName filters name out of list in place.
func withoutName(list []string, name string) []string {
	out := list[:0]
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// knownName reports whether name is a property or a property group of s.
func knownName(s *Spec, name string) bool {
	if _, ok := s.Properties[name]; ok {
		return true
	}
	if s.Presence != nil {
		if _, ok := s.Presence.Groups[name]; ok {
			return true
		}
	}
	return false
}
