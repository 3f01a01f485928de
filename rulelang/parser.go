package rulelang

import (
	"fmt"
	"strconv"

	"github.com/ezachrisen/amino/errs"
	"github.com/ezachrisen/amino/operators"
	"github.com/ezachrisen/amino/schema"
)

// Mode governs how the parser (and, downstream, the compiler) reacts to
// a type mismatch: no operator resolving for an operand-type tuple, or a
// function call whose argument types disagree with its declared
// signature.
type Mode string

const (
	Strict Mode = "strict"
	Loose  Mode = "loose"
)

// Parse tokenizes and Pratt-parses rule text into a type-resolved AST.
// schemaReg resolves variable and function-call types; opReg drives
// operator dispatch and binding power. In Loose mode, type mismatches
// degrade to warnings (returned alongside the AST) rather than failing
// outright: an unresolved operator yields an "Any"-typed node, and a
// function call with mismatched argument types keeps its declared return
// type.
func Parse(content string, schemaReg *schema.Registry, opReg *operators.Registry, mode Mode) (*AST, []string, error) {
	toks, err := lex(content, opReg)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{toks: toks, schema: schemaReg, ops: opReg, mode: mode}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, nil, err
	}
	if p.peek().kind != tEOF {
		return nil, nil, errs.RuleParseError("unexpected trailing input", errs.WithGot(p.peek().text))
	}
	return &AST{Root: root, ReturnType: root.TypeName()}, p.warnings, nil
}

type parser struct {
	toks     []token
	pos      int
	schema   *schema.Registry
	ops      *operators.Registry
	mode     Mode
	warnings []string
}

func (p *parser) peek() token { return p.toks[p.pos] }

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

func (p *parser) isSymbol(text string) bool {
	t := p.peek()
	return t.kind == tSymbol && t.text == text
}

func (p *parser) expectSymbol(text string) error {
	if !p.isSymbol(text) {
		return errs.RuleParseError("expected '"+text+"'", errs.WithGot(p.peek().text))
	}
	p.advance()
	return nil
}

// currentOperatorToken reports the operator token starting at the
// current position, and how many raw tokens it spans: 2 for the "not
// in" pair, 1 otherwise. It returns ("", 0) if the current position does
// not start a registered operator token.
func (p *parser) currentOperatorToken() (string, int) {
	t := p.peek()
	switch t.kind {
	case tIdent:
		if t.text == "not" && p.peekAt(1).kind == tIdent && p.peekAt(1).text == "in" {
			return "not in", 2
		}
		if p.ops.IsKeyword(t.text) {
			return t.text, 1
		}
		return "", 0
	case tSymbol:
		if p.ops.IsSymbol(t.text) {
			return t.text, 1
		}
		return "", 0
	default:
		return "", 0
	}
}

func (p *parser) advanceN(n int) {
	for i := 0; i < n; i++ {
		p.advance()
	}
}

// parseExpr is the Pratt loop: parse a prefix expression via nud, then
// repeatedly fold in infix operators whose binding power exceeds minBP.
// An operator of any other fixity (prefix or postfix) ends the loop.
func (p *parser) parseExpr(minBP int) (Node, error) {
	left, err := p.nud()
	if err != nil {
		return nil, err
	}
	for {
		tok, width := p.currentOperatorToken()
		if tok == "" {
			break
		}
		bp, ok := p.ops.GetBindingPower(tok)
		if !ok || bp <= minBP {
			break
		}
		fixity, _ := p.ops.GetFixity(tok)
		if fixity != operators.Infix {
			break
		}
		p.advanceN(width)
		left, err = p.led(tok, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) nud() (Node, error) {
	if tok, width := p.currentOperatorToken(); width > 0 {
		if fixity, ok := p.ops.GetFixity(tok); ok && fixity == operators.Prefix {
			p.advanceN(width)
			bp, _ := p.ops.GetBindingPower(tok)
			operand, err := p.parseExpr(bp)
			if err != nil {
				return nil, err
			}
			return p.buildUnary(tok, operand)
		}
	}

	t := p.peek()
	switch {
	case t.kind == tSymbol && t.text == "(":
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return inner, nil

	case t.kind == tSymbol && t.text == "[":
		return p.parseListLiteral()

	case t.kind == tFloat:
		p.advance()
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, errs.RuleParseError("invalid float literal", errs.WithGot(t.text))
		}
		return &Literal{Value: v, Type: "Float"}, nil

	case t.kind == tInt:
		p.advance()
		v, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, errs.RuleParseError("invalid integer literal", errs.WithGot(t.text))
		}
		return &Literal{Value: v, Type: "Int"}, nil

	case t.kind == tString:
		p.advance()
		return &Literal{Value: t.text, Type: "Str"}, nil

	case t.kind == tIdent && (t.text == "true" || t.text == "false"):
		p.advance()
		return &Literal{Value: t.text == "true", Type: "Bool"}, nil

	case t.kind == tIdent:
		return p.parseIdentOrCall()

	default:
		return nil, errs.RuleParseError("unexpected token", errs.WithGot(t.text))
	}
}

func (p *parser) parseIdentOrCall() (Node, error) {
	name := p.advance().text
	if p.isSymbol("(") {
		return p.parseFunctionCall(name)
	}
	dotted := name
	for p.isSymbol(".") {
		p.advance()
		part := p.peek()
		if part.kind != tIdent {
			return nil, errs.RuleParseError("expected field name after '.'", errs.WithGot(part.text))
		}
		p.advance()
		dotted += "." + part.text
	}
	field, ok := p.schema.GetField(dotted)
	if !ok {
		return nil, errs.RuleParseError("Unknown field", errs.WithField(dotted))
	}
	return &Variable{DottedName: dotted, Type: field.Type.Name()}, nil
}

func (p *parser) parseFunctionCall(name string) (Node, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var args []Node
	for !p.isSymbol(")") {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.isSymbol(",") {
			p.advance()
		} else if !p.isSymbol(")") {
			return nil, errs.RuleParseError("expected ',' or ')' in argument list", errs.WithGot(p.peek().text))
		}
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}

	returnType := "Any"
	if sig, ok := p.schema.AST().FunctionByName(name); ok {
		returnType = sig.ReturnType.Name()
		if err := p.checkCallArgs(name, sig, args); err != nil {
			return nil, err
		}
	}
	return &FunctionCall{Name: name, Args: args, Type: returnType}, nil
}

func (p *parser) checkCallArgs(name string, sig schema.FunctionSignature, args []Node) error {
	for i, param := range sig.Params {
		if i >= len(args) {
			if param.Optional {
				continue
			}
			return p.mismatch(fmt.Sprintf("call to %q missing required argument %q", name, param.Name), param.Type.Name(), "")
		}
		if args[i].TypeName() != param.Type.Name() && args[i].TypeName() != "Any" {
			if err := p.mismatch(
				fmt.Sprintf("call to %q argument %q type mismatch", name, param.Name),
				param.Type.Name(), args[i].TypeName(),
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseListLiteral() (Node, error) {
	p.advance() // '['
	var items []Node
	for !p.isSymbol("]") {
		item, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.isSymbol(",") {
			p.advance()
		} else if !p.isSymbol("]") {
			return nil, errs.RuleParseError("expected ',' or ']' in list literal", errs.WithGot(p.peek().text))
		}
	}
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	return &ListLiteral{Items: items, Type: "List"}, nil
}

func (p *parser) buildUnary(token string, operand Node) (Node, error) {
	// "not" is implemented by the compiler with an explicit closure, the
	// same way "and"/"or" are; its operator definition carries no Fn.
	if token == "not" {
		if operand.TypeName() != "Bool" {
			if err := p.mismatch("operand to 'not' must be Bool", "Bool", operand.TypeName()); err != nil {
				return nil, err
			}
			return &UnaryOp{Token: token, Operand: operand, Type: "Any"}, nil
		}
		return &UnaryOp{Token: token, Operand: operand, Type: "Bool"}, nil
	}

	def, ok := p.ops.LookupByTypes(token, []string{operand.TypeName()})
	if !ok {
		if err := p.mismatch(
			fmt.Sprintf("no operator %q resolves", token), "", operand.TypeName(),
		); err != nil {
			return nil, err
		}
		return &UnaryOp{Token: token, Operand: operand, Type: "Any"}, nil
	}
	return &UnaryOp{Token: token, Operand: operand, Type: def.ReturnType, Fn: def.Fn}, nil
}

func (p *parser) led(token string, left Node) (Node, error) {
	bp, _ := p.ops.GetBindingPower(token)
	rbp := bp
	if assoc, ok := p.ops.GetAssociativity(token); ok && assoc == operators.Right {
		rbp = bp - 1
	}
	right, err := p.parseExpr(rbp)
	if err != nil {
		return nil, err
	}

	if token == "and" || token == "or" {
		if left.TypeName() != "Bool" || right.TypeName() != "Bool" {
			if err := p.mismatch(
				fmt.Sprintf("operands to %q must be Bool", token),
				"Bool", left.TypeName()+","+right.TypeName(),
			); err != nil {
				return nil, err
			}
			return &BinaryOp{Token: token, Left: left, Right: right, Type: "Any"}, nil
		}
		return &BinaryOp{Token: token, Left: left, Right: right, Type: "Bool"}, nil
	}

	def, ok := p.ops.LookupByTypes(token, []string{left.TypeName(), right.TypeName()})
	if !ok {
		if err := p.mismatch(
			fmt.Sprintf("no operator %q resolves", token),
			"", left.TypeName()+","+right.TypeName(),
		); err != nil {
			return nil, err
		}
		return &BinaryOp{Token: token, Left: left, Right: right, Type: "Any"}, nil
	}
	return &BinaryOp{Token: token, Left: left, Right: right, Type: def.ReturnType, Fn: def.Fn}, nil
}

// mismatch applies rules_mode to a type-mismatch condition detected
// during parsing: strict raises TypeMismatchError, loose appends a
// warning and lets the caller fall back to an Any-typed node.
func (p *parser) mismatch(message, expected, got string) error {
	if p.mode == Strict {
		return errs.TypeMismatchError(message, errs.WithExpected(expected), errs.WithGot(got))
	}
	p.warnings = append(p.warnings, fmt.Sprintf("%s (expected %s, got %s)", message, expected, got))
	return nil
}
