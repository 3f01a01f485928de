package schema

// FieldDefinition is a single named, typed field, declared either at the
// top level of a schema or inside a struct body.
type FieldDefinition struct {
	Name        string
	Type        Type
	Optional    bool
	Constraints map[string]any
}

// StructDefinition is a named, ordered collection of fields.
type StructDefinition struct {
	Name   string
	Fields []FieldDefinition
}

// Param is one named, typed parameter of a function signature.
type Param struct {
	Name     string
	Type     Type
	Optional bool
}

// FunctionSignature declares a callable's parameter list and return type.
// The schema never supplies the function's implementation; that is
// provided to the engine separately (see the root package's
// Engine.AddFunction).
type FunctionSignature struct {
	Name       string
	Params     []Param
	ReturnType Type
}

// AST is the parsed, not-yet-validated representation of schema text.
type AST struct {
	Fields    []FieldDefinition
	Structs   []StructDefinition
	Functions []FunctionSignature
}

// FieldByName returns the top-level field with the given name, if any.
func (a *AST) FieldByName(name string) (FieldDefinition, bool) {
	for _, f := range a.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// StructByName returns the struct definition with the given name, if any.
func (a *AST) StructByName(name string) (StructDefinition, bool) {
	for _, s := range a.Structs {
		if s.Name == name {
			return s, true
		}
	}
	return StructDefinition{}, false
}

// FunctionByName returns the declared function signature with the given
// name, if any.
func (a *AST) FunctionByName(name string) (FunctionSignature, bool) {
	for _, fn := range a.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return FunctionSignature{}, false
}

// FieldByName returns the field with the given name within the struct.
func (s *StructDefinition) FieldByName(name string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}
