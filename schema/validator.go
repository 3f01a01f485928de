package schema

import (
	"fmt"

	"github.com/ezachrisen/amino/errs"
)

// KnownTypeNamer is satisfied by a registry of custom scalar types (the
// types package's Registry), consulted when a Ref type does not name a
// struct declared in the same schema.
type KnownTypeNamer interface {
	HasType(name string) bool
}

// Validate checks an AST for self-consistency: no duplicate top-level or
// struct-local names, every Ref type resolves to either a struct declared
// in ast or a name known to customTypes, and no struct participates in a
// reference cycle. customTypes may be nil, in which case any Ref not
// matching a struct name is rejected.
func Validate(ast *AST, customTypes KnownTypeNamer) error {
	if err := checkDuplicateNames(ast); err != nil {
		return err
	}
	if err := checkTypeReferences(ast, customTypes); err != nil {
		return err
	}
	if err := checkStructCycles(ast); err != nil {
		return err
	}
	return nil
}

func checkDuplicateNames(ast *AST) error {
	seen := map[string]bool{}
	for _, f := range ast.Fields {
		if seen[f.Name] {
			return errs.SchemaValidationError("duplicate top-level field", errs.WithField(f.Name))
		}
		seen[f.Name] = true
	}
	structNames := map[string]bool{}
	for _, s := range ast.Structs {
		if seen[s.Name] || structNames[s.Name] {
			return errs.SchemaValidationError("duplicate struct name", errs.WithField(s.Name))
		}
		structNames[s.Name] = true
		seen[s.Name] = true

		fieldNames := map[string]bool{}
		for _, f := range s.Fields {
			if fieldNames[f.Name] {
				return errs.SchemaValidationError(
					"duplicate field in struct",
					errs.WithField(s.Name+"."+f.Name),
				)
			}
			fieldNames[f.Name] = true
		}
	}
	for _, fn := range ast.Functions {
		if seen[fn.Name] {
			return errs.SchemaValidationError("duplicate function name", errs.WithField(fn.Name))
		}
		seen[fn.Name] = true

		paramNames := map[string]bool{}
		for _, p := range fn.Params {
			if paramNames[p.Name] {
				return errs.SchemaValidationError(
					"duplicate parameter in function",
					errs.WithField(fn.Name+"."+p.Name),
				)
			}
			paramNames[p.Name] = true
		}
	}
	return nil
}

func checkTypeReferences(ast *AST, customTypes KnownTypeNamer) error {
	resolves := func(t Type) bool {
		if t.Kind != KindRef {
			return true
		}
		if _, ok := ast.StructByName(t.RefName); ok {
			return true
		}
		return customTypes != nil && customTypes.HasType(t.RefName)
	}

	var checkType func(t Type, where string) error
	checkType = func(t Type, where string) error {
		switch t.Kind {
		case KindList:
			for _, e := range t.Elems {
				if err := checkType(e, where); err != nil {
					return err
				}
			}
			return nil
		case KindRef:
			if !resolves(t) {
				return errs.SchemaValidationError(
					"unresolved type reference",
					errs.WithField(where), errs.WithExpected("struct or registered type"), errs.WithGot(t.RefName),
				)
			}
			return nil
		default:
			return nil
		}
	}

	for _, f := range ast.Fields {
		if err := checkType(f.Type, f.Name); err != nil {
			return err
		}
	}
	for _, s := range ast.Structs {
		for _, f := range s.Fields {
			if err := checkType(f.Type, s.Name+"."+f.Name); err != nil {
				return err
			}
		}
	}
	for _, fn := range ast.Functions {
		for _, p := range fn.Params {
			if err := checkType(p.Type, fn.Name+"."+p.Name); err != nil {
				return err
			}
		}
		if err := checkType(fn.ReturnType, fn.Name+".return"); err != nil {
			return err
		}
	}
	return nil
}

// checkStructCycles detects reference cycles among struct definitions
// using DFS with a "currently visiting" set, per struct, over the edges
// struct -> struct named by any field (directly, or nested inside a
// List[...] union).
func checkStructCycles(ast *AST) error {
	byName := map[string]StructDefinition{}
	for _, s := range ast.Structs {
		byName[s.Name] = s
	}

	structRefs := func(s StructDefinition) []string {
		var refs []string
		var collect func(t Type)
		collect = func(t Type) {
			switch t.Kind {
			case KindList:
				for _, e := range t.Elems {
					collect(e)
				}
			case KindRef:
				if _, ok := byName[t.RefName]; ok {
					refs = append(refs, t.RefName)
				}
			}
		}
		for _, f := range s.Fields {
			collect(f.Type)
		}
		return refs
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}
	path := []string{}

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errs.SchemaValidationError(
				"struct reference cycle",
				errs.WithField(fmt.Sprintf("%s -> %s", joinPath(path), name)),
			)
		}
		state[name] = visiting
		path = append(path, name)
		for _, ref := range structRefs(byName[name]) {
			if err := visit(ref); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}

	for _, s := range ast.Structs {
		if err := visit(s.Name); err != nil {
			return err
		}
	}
	return nil
}

func joinPath(path []string) string {
	s := ""
	for i, p := range path {
		if i > 0 {
			s += " -> "
		}
		s += p
	}
	return s
}
