package schema

import (
	"strconv"

	"github.com/ezachrisen/amino/errs"
)

// Parse tokenizes and parses schema text into an AST. It does not validate
// cross-references (duplicate names, unresolved types, struct cycles);
// see Validate for that.
func Parse(content string) (*AST, error) {
	toks, err := lex(content)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parse()
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token  { return p.toks[p.pos] }
func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.peek()
	if t.kind != k {
		return token{}, errs.SchemaParseError(
			"expected "+what,
			errs.WithGot(t.text), errs.WithLine(t.line),
		)
	}
	return p.advance(), nil
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tNewline {
		p.advance()
	}
}

func (p *parser) parse() (*AST, error) {
	ast := &AST{}
	p.skipNewlines()
	for p.peek().kind != tEOF {
		switch {
		case p.peek().kind == tIdent && p.peek().text == "struct":
			s, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			ast.Structs = append(ast.Structs, s)
		case p.peek().kind == tIdent && p.peekAt(1).kind == tColon && p.peekAt(2).kind == tLParen:
			f, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			ast.Functions = append(ast.Functions, f)
		default:
			f, err := p.parseField()
			if err != nil {
				return nil, err
			}
			ast.Fields = append(ast.Fields, f)
		}
		if err := p.endOfEntry(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	return ast, nil
}

// endOfEntry requires the current position to be a newline or EOF,
// terminating a top-level entry.
func (p *parser) endOfEntry() error {
	t := p.peek()
	if t.kind == tNewline || t.kind == tEOF {
		return nil
	}
	return errs.SchemaParseError(
		"expected end of declaration",
		errs.WithGot(t.text), errs.WithLine(t.line),
	)
}

func (p *parser) parseField() (FieldDefinition, error) {
	name, err := p.expect(tIdent, "field name")
	if err != nil {
		return FieldDefinition{}, err
	}
	if _, err := p.expect(tColon, "':'"); err != nil {
		return FieldDefinition{}, err
	}
	typ, err := p.parseTypeExpr()
	if err != nil {
		return FieldDefinition{}, err
	}
	optional := false
	if p.peek().kind == tQuestion {
		p.advance()
		optional = true
	}
	constraints := map[string]any{}
	if p.peek().kind == tLBrace {
		constraints, err = p.parseConstraintBlock()
		if err != nil {
			return FieldDefinition{}, err
		}
	}
	return FieldDefinition{Name: name.text, Type: typ, Optional: optional, Constraints: constraints}, nil
}

func (p *parser) parseStruct() (StructDefinition, error) {
	p.advance() // 'struct'
	name, err := p.expect(tIdent, "struct name")
	if err != nil {
		return StructDefinition{}, err
	}
	if _, err := p.expect(tLBrace, "'{'"); err != nil {
		return StructDefinition{}, err
	}
	p.skipNewlines()

	var fields []FieldDefinition
	for p.peek().kind != tRBrace {
		f, err := p.parseField()
		if err != nil {
			return StructDefinition{}, err
		}
		fields = append(fields, f)

		// Fields separate by ',' or newline, mixed freely; consume any
		// run of either before the next field or the closing brace.
		sawSeparator := false
		for p.peek().kind == tComma || p.peek().kind == tNewline {
			p.advance()
			sawSeparator = true
		}
		if p.peek().kind != tRBrace && !sawSeparator {
			return StructDefinition{}, errs.SchemaParseError(
				"expected ',' or newline between struct fields",
				errs.WithGot(p.peek().text), errs.WithLine(p.peek().line),
			)
		}
	}
	if _, err := p.expect(tRBrace, "'}'"); err != nil {
		return StructDefinition{}, err
	}
	return StructDefinition{Name: name.text, Fields: fields}, nil
}

func (p *parser) parseFunction() (FunctionSignature, error) {
	name, err := p.expect(tIdent, "function name")
	if err != nil {
		return FunctionSignature{}, err
	}
	if _, err := p.expect(tColon, "':'"); err != nil {
		return FunctionSignature{}, err
	}
	if _, err := p.expect(tLParen, "'('"); err != nil {
		return FunctionSignature{}, err
	}

	var params []Param
	for p.peek().kind != tRParen {
		pname, err := p.expect(tIdent, "parameter name")
		if err != nil {
			return FunctionSignature{}, err
		}
		if _, err := p.expect(tColon, "':'"); err != nil {
			return FunctionSignature{}, err
		}
		ptyp, err := p.parseTypeExpr()
		if err != nil {
			return FunctionSignature{}, err
		}
		popt := false
		if p.peek().kind == tQuestion {
			p.advance()
			popt = true
		}
		params = append(params, Param{Name: pname.text, Type: ptyp, Optional: popt})
		if p.peek().kind == tComma {
			p.advance()
		} else if p.peek().kind != tRParen {
			return FunctionSignature{}, errs.SchemaParseError(
				"expected ',' or ')' in parameter list",
				errs.WithGot(p.peek().text), errs.WithLine(p.peek().line),
			)
		}
	}
	if _, err := p.expect(tRParen, "')'"); err != nil {
		return FunctionSignature{}, err
	}
	if _, err := p.expect(tArrow, "'->'"); err != nil {
		return FunctionSignature{}, err
	}
	ret, err := p.parseTypeExpr()
	if err != nil {
		return FunctionSignature{}, err
	}
	return FunctionSignature{Name: name.text, Params: params, ReturnType: ret}, nil
}

// parseTypeExpr parses `primitive | 'List' '[' type_union ']' | identifier`.
// type_union (a '|'-separated list of type_exprs) is only legal inside
// List[...]; a bare union at top level is rejected by construction since
// this function is never called again recursively after a non-List
// identifier.
func (p *parser) parseTypeExpr() (Type, error) {
	tok, err := p.expect(tIdent, "type")
	if err != nil {
		return Type{}, err
	}
	switch tok.text {
	case "Int":
		return Int(), nil
	case "Float":
		return Float(), nil
	case "Str":
		return Str(), nil
	case "Bool":
		return Bool(), nil
	case "List":
		if _, err := p.expect(tLBracket, "'['"); err != nil {
			return Type{}, err
		}
		var elems []Type
		for {
			e, err := p.parseTypeExpr()
			if err != nil {
				return Type{}, err
			}
			elems = append(elems, e)
			if p.peek().kind == tPipe {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(tRBracket, "']'"); err != nil {
			return Type{}, err
		}
		return List(elems...), nil
	default:
		return Ref(tok.text), nil
	}
}

func (p *parser) parseConstraintBlock() (map[string]any, error) {
	p.advance() // '{'
	constraints := map[string]any{}
	for p.peek().kind != tRBrace {
		key, err := p.expect(tIdent, "constraint key")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tColon, "':'"); err != nil {
			return nil, err
		}
		val, err := p.parseConstraintValue()
		if err != nil {
			return nil, err
		}
		constraints[key.text] = val
		if p.peek().kind == tComma {
			p.advance()
		} else if p.peek().kind != tRBrace {
			return nil, errs.SchemaParseError(
				"expected ',' or '}' in constraint block",
				errs.WithGot(p.peek().text), errs.WithLine(p.peek().line),
			)
		}
	}
	if _, err := p.expect(tRBrace, "'}'"); err != nil {
		return nil, err
	}
	return constraints, nil
}

func (p *parser) parseConstraintValue() (any, error) {
	t := p.peek()
	switch t.kind {
	case tFloat:
		p.advance()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, errs.SchemaParseError("invalid float literal", errs.WithGot(t.text), errs.WithLine(t.line))
		}
		return f, nil
	case tInt:
		p.advance()
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, errs.SchemaParseError("invalid integer literal", errs.WithGot(t.text), errs.WithLine(t.line))
		}
		return n, nil
	case tString:
		p.advance()
		return t.text, nil
	case tIdent:
		if t.text == "true" || t.text == "false" {
			p.advance()
			return t.text == "true", nil
		}
		return nil, errs.SchemaParseError("invalid constraint value", errs.WithGot(t.text), errs.WithLine(t.line))
	case tLBracket:
		p.advance()
		var items []any
		for p.peek().kind != tRBracket {
			v, err := p.parseConstraintValue()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
			if p.peek().kind == tComma {
				p.advance()
			} else if p.peek().kind != tRBracket {
				return nil, errs.SchemaParseError(
					"expected ',' or ']' in constraint list",
					errs.WithGot(p.peek().text), errs.WithLine(p.peek().line),
				)
			}
		}
		p.advance() // ']'
		return items, nil
	default:
		return nil, errs.SchemaParseError("invalid constraint value", errs.WithGot(t.text), errs.WithLine(t.line))
	}
}
