package materialize

import (
	"errors"
	"fmt"

	"github.com/stixlab/stixgen/graph"
	"github.com/stixlab/stixgen/objgen"
)

// ErrMissingID is returned when a generated object carries no string "id",
// leaving nothing for references to point at.
var ErrMissingID = errors.New("materialize: generated object has no id")

// relationshipSpec names the registry entry backing graph edges.
const relationshipSpec = "relationship"

// Result is the materialized form of a graph.
type Result struct {
	// Objects holds one generated object per node, in arena order,
	// followed by one relationship object per edge, in edge order.
	Objects []map[string]any

	// Bindings maps each prototyping-language variable to the
	// identifiers of the objects it produced.
	Bindings map[string][]string
}

// Materialize generates a concrete object for every node and edge of g.
func Materialize(g *graph.Graph, gen *objgen.Generator) (*Result, error) {
	objects := make([]map[string]any, len(g.Nodes))
	ids := make([]string, len(g.Nodes))

	// Phase 1: generate every node object and fix its identifier.
	for i, node := range g.Nodes {
		obj, err := gen.GenerateObject(node.Type)
		if err != nil {
			return nil, fmt.Errorf("materialize: node %d (%s): %w", i, node.Type, err)
		}
		id, ok := obj["id"].(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("%w: node %d (%s)", ErrMissingID, i, node.Type)
		}
		objects[i] = obj
		ids[i] = id
	}

	// Phase 2: apply property overlays, resolving references to ids.
	for i, node := range g.Nodes {
		for _, prop := range node.Props {
			objects[i][prop.Name] = resolveValue(prop.Value, ids)
		}
	}

	// Edges become relationship objects.
	result := &Result{Objects: objects}
	for _, edge := range g.Edges {
		rel, err := gen.GenerateObject(relationshipSpec)
		if err != nil {
			return nil, fmt.Errorf("materialize: edge %s: %w", edge.Type, err)
		}
		rel["relationship_type"] = edge.Type
		rel["source_ref"] = ids[edge.Source]
		rel["target_ref"] = ids[edge.Target]
		result.Objects = append(result.Objects, rel)
	}

	result.Bindings = make(map[string][]string, len(g.Bindings))
	for name, nodeIDs := range g.Bindings {
		bound := make([]string, len(nodeIDs))
		for i, id := range nodeIDs {
			bound[i] = ids[id]
		}
		result.Bindings[name] = bound
	}
	return result, nil
}

func resolveValue(v graph.Value, ids []string) any {
	switch val := v.(type) {
	case graph.String:
		return string(val)
	case graph.StringList:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case graph.Ref:
		return ids[val]
	case graph.RefList:
		out := make([]any, len(val))
		for i, id := range val {
			out[i] = ids[id]
		}
		return out
	}
	return nil
}
