package graph

import (
	"sort"

	"github.com/stixlab/stixgen/lang"
)

// declInfo records everything known about one declared variable before any
// nodes are created for it.
type declInfo struct {
	typeName string
	decl     *lang.VarDecl
	deps     []string // variables referenced inside the property block
}

// collectDeclarations scans all statements for variable declarations and
// builds the variable table, rejecting duplicate declarations.
func collectDeclarations(stmts []lang.Statement) (map[string]*declInfo, error) {
	decls := make(map[string]*declInfo)
	for _, stmt := range stmts {
		vd, ok := stmt.(*lang.VarDeclStatement)
		if !ok {
			continue
		}
		for _, d := range vd.Decls {
			if _, dup := decls[d.Name]; dup {
				return nil, &VariableError{Name: d.Name, Line: d.Line, Column: d.Column, sentinel: ErrRedeclaredVariable}
			}
			decls[d.Name] = &declInfo{
				typeName: vd.TypeName,
				decl:     d,
				deps:     blockVariables(d.Block),
			}
		}
	}

	return decls, nil
}

// blockVariables returns the sorted, de-duplicated set of variable names
// referenced anywhere inside a property block.
func blockVariables(block *lang.PropertyBlock) []string {
	if block == nil {
		return nil
	}

	seen := make(map[string]struct{})
	for _, entry := range block.Entries {
		if stmt, ok := entry.Value.(*lang.GraphStatement); ok {
			statementVariables(stmt, seen)
		}
	}
	if len(seen) == 0 {
		return nil
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// statementVariables accumulates variable uses reachable from stmt,
// including uses nested in property blocks and chained relationships.
func statementVariables(stmt *lang.GraphStatement, seen map[string]struct{}) {
	for _, ref := range stmt.Sources {
		if ref.IsVariable() {
			seen[ref.VarName] = struct{}{}
			continue
		}
		if ref.Block != nil {
			for _, entry := range ref.Block.Entries {
				if nested, ok := entry.Value.(*lang.GraphStatement); ok {
					statementVariables(nested, seen)
				}
			}
		}
	}
	if stmt.Rel != nil {
		statementVariables(stmt.Rel.Target, seen)
	}
}

// Visitation states for the dependency sort.
const (
	white = iota // not visited
	gray         // on the current search path
	black        // fully processed
)

// sortVariables topologically orders the declared variables so that every
// variable appears after all variables its property block references.
// Dependencies on undeclared names are ignored here; they surface as
// ErrUndeclaredVariable when the block is resolved. A cycle terminates the
// sort with a *DependencyCycleError naming the implicated variables.
func sortVariables(decls map[string]*declInfo) ([]string, error) {
	// Deterministic entry order keeps builds reproducible.
	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	state := make(map[string]int, len(decls))
	order := make([]string, 0, len(decls))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case black:
			return nil
		case gray:
			// Back-edge: slice the current path from the first
			// occurrence of name to expose the cycle.
			for i, v := range path {
				if v == name {
					cycle := append(append([]string(nil), path[i:]...), name)
					return &DependencyCycleError{Path: cycle}
				}
			}
			return &DependencyCycleError{Path: []string{name, name}}
		}

		state[name] = gray
		path = append(path, name)

		for _, dep := range decls[name].deps {
			if _, declared := decls[dep]; !declared {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[name] = black
		order = append(order, name)

		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return order, nil
}
