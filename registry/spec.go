package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

// Presence captures the presence co-constraints of an object specification:
// named property groups, the symmetric constraint kind assigned to each
// group, and asymmetric dependencies between properties or groups.
type Presence struct {
	// Groups maps a group name to the property names it contains.
	Groups map[string][]string

	// One, All and AtLeastOne each list group names bound to that
	// constraint kind. Every group appears in exactly one of the three.
	One        []string
	All        []string
	AtLeastOne []string

	// Dependencies maps a property or group name to the properties or
	// groups whose presence it forces. Keys and values never overlap.
	Dependencies map[string][]string
}

// Spec is one decoded specification. Exactly one generation strategy applies
// per spec, probed in a fixed order: Const, Semantics, Ref, OneOf, then the
// declared Type.
type Spec struct {
	// Const holds a literal value to produce verbatim. HasConst
	// distinguishes an explicit null constant from an absent one.
	Const    any
	HasConst bool

	// Type is the declared value type: string, number, integer, boolean,
	// null, array, or object. It doubles as the expected type check for
	// Const, Semantics, Ref and OneOf strategies.
	Type string

	// Semantics names a registered generation hook. Params carries every
	// other field of the specification through to the hook untouched.
	Semantics string
	Params    map[string]any

	// Ref delegates generation to another registry entry.
	Ref string

	// OneOf lists alternative sub-specifications. Weights, when non-nil,
	// biases the choice; its length must match OneOf.
	OneOf   []*Spec
	Weights []float64

	// String bounds.
	MinLength *int
	MaxLength *int

	// Numeric bounds. Minimum and ExclusiveMinimum are mutually
	// exclusive, as are the maxima. A lower bound requires an upper
	// bound and vice versa.
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64

	// Array shape. MinItems and MaxItems come as a pair.
	Items    *Spec
	MinItems *int
	MaxItems *int

	// Object shape. PropOrder lists property names in a deterministic
	// (sorted) order so generation is reproducible under a fixed seed.
	Import     string
	Properties map[string]*Spec
	PropOrder  []string

	// Required and Optional partition property and group names by
	// presence. At most one of the two is given; HasRequired/HasOptional
	// distinguish an explicit empty list from an absent field.
	Required    []string
	HasRequired bool
	Optional    []string
	HasOptional bool

	// ValueCoconstraints holds relational expressions such as
	// "created <= modified", forwarded to semantics hooks at generation.
	ValueCoconstraints []string

	Presence *Presence
}

// ParseJSON decodes a JSON specification document into a name-to-spec map.
func ParseJSON(data []byte) (map[string]*Spec, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidSpecf("decode json: %v", err)
	}
	return decodeDocument(raw)
}

// ParseYAML decodes a YAML specification document into a name-to-spec map.
func ParseYAML(data []byte) (map[string]*Spec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, invalidSpecf("decode yaml: %v", err)
	}
	return decodeDocument(raw)
}

func decodeDocument(raw map[string]any) (map[string]*Spec, error) {
	doc := make(map[string]*Spec, len(raw))
	for name, v := range raw {
		spec, err := decodeSpec(v, name)
		if err != nil {
			return nil, err
		}
		doc[name] = spec
	}
	return doc, nil
}

// decodeSpec turns one decoded JSON/YAML value into a Spec. The path
// argument locates the value inside the document for error messages.
func decodeSpec(v any, path string) (*Spec, error) {
	m, ok := v.(map[string]any)
	if !ok {
		// Bare literal: shorthand for a constant spec.
		return &Spec{Const: normalizeConst(v), HasConst: true}, nil
	}

	s := &Spec{}
	if c, ok := m["const"]; ok {
		s.Const = normalizeConst(c)
		s.HasConst = true
	}
	if t, ok := m["type"]; ok {
		ts, ok := t.(string)
		if !ok {
			return nil, invalidSpecf("%s: \"type\" must be a string", path)
		}
		s.Type = ts
	}
	if sem, ok := m["semantics"]; ok {
		ss, ok := sem.(string)
		if !ok {
			return nil, invalidSpecf("%s: \"semantics\" must be a string", path)
		}
		s.Semantics = ss
		s.Params = make(map[string]any, len(m)-2)
		for k, pv := range m {
			if k == "type" || k == "semantics" {
				continue
			}
			s.Params[k] = pv
		}
	}
	if ref, ok := m["ref"]; ok {
		rs, ok := ref.(string)
		if !ok {
			return nil, invalidSpecf("%s: \"ref\" must be a string", path)
		}
		s.Ref = rs
	}
	if err := decodeOneOf(m, s, path); err != nil {
		return nil, err
	}
	if err := decodeScalars(m, s, path); err != nil {
		return nil, err
	}
	if err := decodeArray(m, s, path); err != nil {
		return nil, err
	}
	if err := decodeObject(m, s, path); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeOneOf(m map[string]any, s *Spec, path string) error {
	raw, ok := m["oneOf"]
	if !ok {
		if _, stray := m["weights"]; stray {
			return invalidSpecf("%s: \"weights\" without \"oneOf\"", path)
		}
		return nil
	}
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return invalidSpecf("%s: \"oneOf\" must be a non-empty list", path)
	}
	s.OneOf = make([]*Spec, len(list))
	for i, alt := range list {
		sub, err := decodeSpec(alt, fmt.Sprintf("%s.oneOf[%d]", path, i))
		if err != nil {
			return err
		}
		s.OneOf[i] = sub
	}
	if wRaw, ok := m["weights"]; ok {
		wList, ok := wRaw.([]any)
		if !ok {
			return invalidSpecf("%s: \"weights\" must be a list", path)
		}
		s.Weights = make([]float64, len(wList))
		for i, w := range wList {
			f, ok := toFloat(w)
			if !ok {
				return invalidSpecf("%s: weights[%d] is not a number", path, i)
			}
			s.Weights[i] = f
		}
	}
	return nil
}

func decodeScalars(m map[string]any, s *Spec, path string) error {
	var err error
	if s.MinLength, err = intField(m, "minLength", path); err != nil {
		return err
	}
	if s.MaxLength, err = intField(m, "maxLength", path); err != nil {
		return err
	}
	if s.Minimum, err = floatField(m, "minimum", path); err != nil {
		return err
	}
	if s.Maximum, err = floatField(m, "maximum", path); err != nil {
		return err
	}
	if s.ExclusiveMinimum, err = floatField(m, "exclusiveMinimum", path); err != nil {
		return err
	}
	if s.ExclusiveMaximum, err = floatField(m, "exclusiveMaximum", path); err != nil {
		return err
	}
	return nil
}

func decodeArray(m map[string]any, s *Spec, path string) error {
	if items, ok := m["items"]; ok {
		sub, err := decodeSpec(items, path+".items")
		if err != nil {
			return err
		}
		s.Items = sub
	}
	var err error
	if s.MinItems, err = intField(m, "minItems", path); err != nil {
		return err
	}
	if s.MaxItems, err = intField(m, "maxItems", path); err != nil {
		return err
	}
	return nil
}

func decodeObject(m map[string]any, s *Spec, path string) error {
	if imp, ok := m["import"]; ok {
		is, ok := imp.(string)
		if !ok {
			return invalidSpecf("%s: \"import\" must be a string", path)
		}
		s.Import = is
	}
	if props, ok := m["properties"]; ok {
		pm, ok := props.(map[string]any)
		if !ok {
			return invalidSpecf("%s: \"properties\" must be a mapping", path)
		}
		s.Properties = make(map[string]*Spec, len(pm))
		s.PropOrder = make([]string, 0, len(pm))
		for name, pv := range pm {
			sub, err := decodeSpec(pv, path+".properties."+name)
			if err != nil {
				return err
			}
			s.Properties[name] = sub
			s.PropOrder = append(s.PropOrder, name)
		}
		sort.Strings(s.PropOrder)
	}
	var err error
	if s.Required, s.HasRequired, err = stringList(m, "required", path); err != nil {
		return err
	}
	if s.Optional, s.HasOptional, err = stringList(m, "optional", path); err != nil {
		return err
	}
	if s.ValueCoconstraints, _, err = stringList(m, "value-coconstraints", path); err != nil {
		return err
	}
	return decodePresence(m, s, path)
}

func decodePresence(m map[string]any, s *Spec, path string) error {
	raw, ok := m["presence-coconstraints"]
	if !ok {
		return nil
	}
	pm, ok := raw.(map[string]any)
	if !ok {
		return invalidSpecf("%s: \"presence-coconstraints\" must be a mapping", path)
	}
	p := &Presence{}
	if groups, ok := pm["property-groups"]; ok {
		gm, ok := groups.(map[string]any)
		if !ok {
			return invalidSpecf("%s: \"property-groups\" must be a mapping", path)
		}
		p.Groups = make(map[string][]string, len(gm))
		for gname, gv := range gm {
			members, _, err := anyStringList(gv, path+".property-groups."+gname)
			if err != nil {
				return err
			}
			p.Groups[gname] = members
		}
	}
	var err error
	if p.One, _, err = stringList(pm, "one", path); err != nil {
		return err
	}
	if p.All, _, err = stringList(pm, "all", path); err != nil {
		return err
	}
	if p.AtLeastOne, _, err = stringList(pm, "at-least-one", path); err != nil {
		return err
	}
	if deps, ok := pm["dependencies"]; ok {
		dm, ok := deps.(map[string]any)
		if !ok {
			return invalidSpecf("%s: \"dependencies\" must be a mapping", path)
		}
		p.Dependencies = make(map[string][]string, len(dm))
		for key, dv := range dm {
			vals, _, err := anyStringList(dv, path+".dependencies."+key)
			if err != nil {
				return err
			}
			p.Dependencies[key] = vals
		}
	}
	s.Presence = p
	return nil
}

func intField(m map[string]any, key, path string) (*int, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return nil, invalidSpecf("%s: %q must be an integer", path, key)
	}
	n := int(f)
	return &n, nil
}

func floatField(m map[string]any, key, path string) (*float64, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil, invalidSpecf("%s: %q must be a number", path, key)
	}
	return &f, nil
}

func stringList(m map[string]any, key, path string) ([]string, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	return anyStringList(v, path+"."+key)
}

func anyStringList(v any, path string) ([]string, bool, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, false, invalidSpecf("%s: must be a list of strings", path)
	}
	out := make([]string, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, false, invalidSpecf("%s[%d]: must be a string", path, i)
		}
		out[i] = s
	}
	return out, true, nil
}

// toFloat widens any numeric representation produced by the JSON or YAML
// decoders to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// normalizeConst rewrites YAML-decoded integer constants so constants
// compare and serialize uniformly regardless of the source encoding.
func normalizeConst(v any) any {
	switch c := v.(type) {
	case int:
		return float64(c)
	case int64:
		return float64(c)
	case uint64:
		return float64(c)
	case float32:
		return float64(c)
	case []any:
		out := make([]any, len(c))
		for i, e := range c {
			out[i] = normalizeConst(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, e := range c {
			out[k] = normalizeConst(e)
		}
		return out
	}
	return v
}
