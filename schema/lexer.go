package schema

import (
	"strings"

	"github.com/ezachrisen/amino/errs"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tNewline
	tIdent
	tColon
	tComma
	tLBrace
	tRBrace
	tLParen
	tRParen
	tArrow
	tPipe
	tLBracket
	tRBracket
	tQuestion
	tInt
	tFloat
	tString
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lex tokenizes schema text. Whitespace is insignificant except for
// newlines, which terminate top-level and struct-body entries; '#' starts
// a comment that runs to end of line.
func lex(content string) ([]token, error) {
	var toks []token
	line := 1
	i := 0
	n := len(content)

	emit := func(k tokenKind, text string) {
		toks = append(toks, token{kind: k, text: text, line: line})
	}

	for i < n {
		c := content[i]

		switch {
		case c == '\n':
			emit(tNewline, "\n")
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < n && content[i] != '\n' {
				i++
			}
		case c == ':':
			emit(tColon, ":")
			i++
		case c == ',':
			emit(tComma, ",")
			i++
		case c == '{':
			emit(tLBrace, "{")
			i++
		case c == '}':
			emit(tRBrace, "}")
			i++
		case c == '(':
			emit(tLParen, "(")
			i++
		case c == ')':
			emit(tRParen, ")")
			i++
		case c == '[':
			emit(tLBracket, "[")
			i++
		case c == ']':
			emit(tRBracket, "]")
			i++
		case c == '|':
			emit(tPipe, "|")
			i++
		case c == '?':
			emit(tQuestion, "?")
			i++
		case c == '-' && i+1 < n && isDigit(content[i+1]):
			j := i + 1
			for j < n && isDigit(content[j]) {
				j++
			}
			isFloat := false
			if j < n && content[j] == '.' && j+1 < n && isDigit(content[j+1]) {
				isFloat = true
				j++
				for j < n && isDigit(content[j]) {
					j++
				}
			}
			if isFloat {
				emit(tFloat, content[i:j])
			} else {
				emit(tInt, content[i:j])
			}
			i = j
		case c == '-' && i+1 < n && content[i+1] == '>':
			emit(tArrow, "->")
			i += 2
		case isDigit(c):
			j := i
			for j < n && isDigit(content[j]) {
				j++
			}
			isFloat := false
			if j < n && content[j] == '.' && j+1 < n && isDigit(content[j+1]) {
				isFloat = true
				j++
				for j < n && isDigit(content[j]) {
					j++
				}
			}
			if isFloat {
				emit(tFloat, content[i:j])
			} else {
				emit(tInt, content[i:j])
			}
			i = j
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			var sb strings.Builder
			for j < n && content[j] != quote {
				if content[j] == '\\' && j+1 < n {
					j++
				}
				sb.WriteByte(content[j])
				j++
			}
			if j >= n {
				return nil, errs.SchemaParseError("unterminated string literal",
					errs.WithGot(sb.String()), errs.WithLine(line))
			}
			emit(tString, sb.String())
			i = j + 1
		case isIdentStart(c):
			j := i
			for j < n && isIdentPart(content[j]) {
				j++
			}
			emit(tIdent, content[i:j])
			i = j
		default:
			return nil, errs.SchemaParseError(
				"unexpected character",
				errs.WithGot(string(c)), errs.WithLine(line),
			)
		}
	}
	emit(tEOF, "")
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
