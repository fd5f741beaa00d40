package graph

import (
	"github.com/stixlab/stixgen/lang"
)

// sightingType is the registry name used for sighting statements. It is
// lowercase because the language reserves the capitalized form for its own
// special syntax.
const sightingType = "sighting"

// builder holds mutable state during one Build run.
type builder struct {
	nodes    []*Node
	edges    []Edge
	decls    map[string]*declInfo
	bindings map[string][]NodeID
}

// Build expands a parsed statement sequence into an object graph. It is
// all-or-nothing: any variable, dependency, or sighting error aborts the
// build and no partial graph is returned.
func Build(stmts []lang.Statement) (*Graph, error) {
	decls, err := collectDeclarations(stmts)
	if err != nil {
		return nil, err
	}

	order, err := sortVariables(decls)
	if err != nil {
		return nil, err
	}

	b := &builder{
		decls:    decls,
		bindings: make(map[string][]NodeID, len(decls)),
	}

	// Create variable nodes in dependency order, so property blocks only
	// ever resolve to already-created nodes. Declared-but-unused variables
	// still generate nodes, once.
	for _, name := range order {
		if err = b.declareVariable(name); err != nil {
			return nil, err
		}
	}

	// Expand the remaining statements.
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *lang.VarDeclStatement:
			// Handled above.
		case *lang.GraphStatement:
			if _, err = b.evalGraph(s); err != nil {
				return nil, err
			}
		case *lang.SightingStatement:
			if err = b.evalSighting(s); err != nil {
				return nil, err
			}
		}
	}

	return &Graph{Nodes: b.nodes, Edges: b.edges, Bindings: b.bindings}, nil
}

// newNode appends a node to the arena and returns its id.
func (b *builder) newNode(typeName string, props []Prop) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, &Node{ID: id, Type: typeName, Props: props})

	return id
}

// declareVariable creates the nodes holding the named variable's values.
// All count copies share one resolved property overlay, so they reference
// the same dependency nodes.
func (b *builder) declareVariable(name string) error {
	info := b.decls[name]

	props, err := b.resolveBlock(info.decl.Block)
	if err != nil {
		return err
	}

	ids := make([]NodeID, 0, info.decl.Count)
	for i := 0; i < info.decl.Count; i++ {
		ids = append(ids, b.newNode(info.typeName, props))
	}
	b.bindings[name] = ids

	return nil
}

// evalGraph expands one graph statement and returns the source expansion's
// node ids. Chains recurse through Rel.Target; the target statement's own
// sources thread through as this statement's relationship targets.
func (b *builder) evalGraph(stmt *lang.GraphStatement) ([]NodeID, error) {
	sources, err := b.evalRefs(stmt.Sources)
	if err != nil {
		return nil, err
	}

	if stmt.Rel == nil {
		return sources, nil
	}

	targets, err := b.evalGraph(stmt.Rel.Target)
	if err != nil {
		return nil, err
	}

	if stmt.Rel.Type == "on" {
		// Embedded relationship: all targets fold into each source's
		// object_refs instead of producing edges.
		for _, src := range sources {
			b.nodes[src].Props = append(b.nodes[src].Props, Prop{
				Name:  "object_refs",
				Value: RefList(targets),
			})
		}

		return sources, nil
	}

	// Cartesian product with parallel-edge multiplicity: N*M*C edges.
	for _, src := range sources {
		for _, tgt := range targets {
			for i := 0; i < stmt.Rel.Count; i++ {
				b.edges = append(b.edges, Edge{Source: src, Type: stmt.Rel.Type, Target: tgt})
			}
		}
	}

	return sources, nil
}

// evalRefs expands an endpoint: each inline ref materializes count nodes,
// each variable use resolves to the declaration's nodes.
func (b *builder) evalRefs(refs []*lang.ObjectRef) ([]NodeID, error) {
	var ids []NodeID
	for _, ref := range refs {
		if ref.IsVariable() {
			bound, ok := b.bindings[ref.VarName]
			if !ok {
				return nil, &VariableError{
					Name:     ref.VarName,
					Line:     ref.Line,
					Column:   ref.Column,
					sentinel: ErrUndeclaredVariable,
				}
			}
			ids = append(ids, bound...)
			continue
		}

		props, err := b.resolveBlock(ref.Block)
		if err != nil {
			return nil, err
		}
		for i := 0; i < ref.Count; i++ {
			ids = append(ids, b.newNode(ref.TypeName, props))
		}
	}

	return ids, nil
}

// refValue keeps the surface shape of a nested graph statement: a bare ref
// expanding to exactly one node collapses to a scalar Ref, while an explicit
// parenthesized list stays a RefList even with a single element.
func refValue(stmt *lang.GraphStatement, ids []NodeID) Value {
	if stmt.List || len(ids) != 1 {
		return RefList(ids)
	}

	return Ref(ids[0])
}

// resolveBlock converts a property block AST into a node property overlay.
// Nested graph statements are expanded on the spot; their source nodes
// become the property value, scalar or list per refValue.
func (b *builder) resolveBlock(block *lang.PropertyBlock) ([]Prop, error) {
	if block == nil {
		return nil, nil
	}

	props := make([]Prop, 0, len(block.Entries))
	for _, entry := range block.Entries {
		var value Value
		switch v := entry.Value.(type) {
		case *lang.StringValue:
			value = String(v.Value)
		case *lang.StringListValue:
			value = StringList(v.Values)
		case *lang.GraphStatement:
			ids, err := b.evalGraph(v)
			if err != nil {
				return nil, err
			}
			value = refValue(v, ids)
		}
		props = append(props, Prop{Name: entry.Name, Value: value})
	}

	return props, nil
}

// evalSighting expands the special sighting statement into a sighting node
// whose sighting_of_ref is folded from the "of" clause.
func (b *builder) evalSighting(stmt *lang.SightingStatement) error {
	props, err := b.resolveBlock(stmt.Block)
	if err != nil {
		return err
	}

	if stmt.Of != nil {
		for _, p := range props {
			if p.Name == "sighting_of_ref" {
				return ErrSightingConflict
			}
		}

		ids, err := b.evalGraph(stmt.Of)
		if err != nil {
			return err
		}
		props = append(props, Prop{Name: "sighting_of_ref", Value: refValue(stmt.Of, ids)})
	}

	b.newNode(sightingType, props)

	return nil
}
