package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Registry is a validated schema, indexed for O(1) dotted-path field
// lookup. Build one with NewRegistry; the zero value is not usable.
type Registry struct {
	ast        *AST
	custom     KnownTypeNamer
	customName []string
	structs    map[string]StructDefinition
	fields     map[string]FieldDefinition
}

// NewRegistry validates ast against customTypes and, on success, indexes
// it for dotted-path lookup. customTypes may be nil.
func NewRegistry(ast *AST, customTypes KnownTypeNamer) (*Registry, error) {
	if err := Validate(ast, customTypes); err != nil {
		return nil, err
	}
	r := &Registry{
		ast:     ast,
		custom:  customTypes,
		structs: map[string]StructDefinition{},
		fields:  map[string]FieldDefinition{},
	}
	for _, s := range ast.Structs {
		r.structs[s.Name] = s
	}
	r.index()
	return r, nil
}

func (r *Registry) index() {
	for _, f := range r.ast.Fields {
		r.fields[f.Name] = f
		if s, ok := r.structs[f.Type.RefName]; ok && f.Type.Kind == KindRef {
			r.indexStruct(f.Name, s)
		}
	}
}

func (r *Registry) indexStruct(prefix string, s StructDefinition) {
	for _, f := range s.Fields {
		key := prefix + "." + f.Name
		r.fields[key] = f
		if nested, ok := r.structs[f.Type.RefName]; ok && f.Type.Kind == KindRef {
			r.indexStruct(key, nested)
		}
	}
}

// GetField resolves a dotted path (e.g. "applicant.address.country") to
// its field definition. The second return value is false if no field at
// that path exists.
func (r *Registry) GetField(path string) (FieldDefinition, bool) {
	f, ok := r.fields[path]
	return f, ok
}

// StructDefinition returns the named struct definition, if declared.
func (r *Registry) StructDefinition(name string) (StructDefinition, bool) {
	s, ok := r.structs[name]
	return s, ok
}

// AST returns the registry's underlying, already-validated AST.
func (r *Registry) AST() *AST { return r.ast }

// KnownTypeNames returns every type name resolvable in this schema: the
// four primitives, every declared struct, and every custom type known to
// the registry's type namer.
func (r *Registry) KnownTypeNames() []string {
	names := []string{string(KindInt), string(KindFloat), string(KindStr), string(KindBool)}
	for name := range r.structs {
		names = append(names, name)
	}
	names = append(names, r.customName...)
	if lister, ok := r.custom.(interface{ Names() []string }); ok {
		names = append(names, lister.Names()...)
	}
	sort.Strings(names)
	return names
}

// ExportSchema re-serializes the registry's AST back into schema text.
// The output is parseable by Parse and produces an AST equal (field for
// field) to the one the registry was built from; it is not guaranteed to
// be byte-identical to whatever text originally produced that AST
// (whitespace, comments, and field ordering such as struct-before-field
// are normalized away).
func (r *Registry) ExportSchema() string {
	var lines []string
	for _, s := range r.ast.Structs {
		var parts []string
		for _, f := range s.Fields {
			parts = append(parts, formatField(f))
		}
		lines = append(lines, fmt.Sprintf("struct %s {%s}", s.Name, strings.Join(parts, ", ")))
	}
	for _, f := range r.ast.Fields {
		lines = append(lines, formatField(f))
	}
	for _, fn := range r.ast.Functions {
		var params []string
		for _, p := range fn.Params {
			q := ""
			if p.Optional {
				q = "?"
			}
			params = append(params, fmt.Sprintf("%s: %s%s", p.Name, p.Type.Name(), q))
		}
		lines = append(lines, fmt.Sprintf("%s: (%s) -> %s", fn.Name, strings.Join(params, ", "), fn.ReturnType.Name()))
	}
	return strings.Join(lines, "\n")
}

func formatField(f FieldDefinition) string {
	q := ""
	if f.Optional {
		q = "?"
	}
	c := ""
	if len(f.Constraints) > 0 {
		keys := make([]string, 0, len(f.Constraints))
		for k := range f.Constraints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, formatConstraintValue(f.Constraints[k]))
		}
		c = " {" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%s: %s%s%s", f.Name, f.Type.Name(), q, c)
}

func formatConstraintValue(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatConstraintValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case float64:
		// Keep a decimal point so the value re-parses as a float.
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprintf("%v", val)
	}
}
