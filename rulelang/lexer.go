package rulelang

import (
	"sort"
	"strings"

	"github.com/ezachrisen/amino/errs"
	"github.com/ezachrisen/amino/operators"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tIdent
	tInt
	tFloat
	tString
	tSymbol
)

type token struct {
	kind tokenKind
	text string
}

// structuralSymbols is the fixed symbol set present regardless of which
// operators are registered: grouping, list, and argument punctuation
// plus the comparison symbols. The comparison symbols tokenize even when
// the preset registers no comparison operator (as with "minimal"); the
// parser then treats them as unknown operators.
var structuralSymbols = []string{"(", ")", "[", "]", ",", ".", ">=", "<=", "!=", ">", "<", "="}

// lex tokenizes rule text. It is whitespace-insensitive within a line;
// symbolic tokens are matched longest-first against the union of
// structuralSymbols and reg's registered symbols, so a custom operator
// registered with a novel symbol tokenizes correctly without changes
// here.
func lex(content string, reg *operators.Registry) ([]token, error) {
	candidates := dedupeSorted(append(append([]string{}, structuralSymbols...), reg.AllSymbols()...))

	var toks []token
	i := 0
	n := len(content)

	for i < n {
		c := content[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'':
			j := i + 1
			var sb strings.Builder
			for j < n && content[j] != '\'' {
				if content[j] == '\\' && j+1 < n {
					j++
				}
				sb.WriteByte(content[j])
				j++
			}
			if j >= n {
				return nil, errs.RuleParseError("unterminated string literal", errs.WithGot(sb.String()))
			}
			toks = append(toks, token{kind: tString, text: sb.String()})
			i = j + 1
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
				toks = append(toks, token{kind: tFloat, text: content[i:j]})
			} else {
				toks = append(toks, token{kind: tInt, text: content[i:j]})
			}
			i = j
		case isIdentStart(c):
			j := i
			for j < n && isIdentPart(content[j]) {
				j++
			}
			toks = append(toks, token{kind: tIdent, text: content[i:j]})
			i = j
		default:
			matched := ""
			for _, s := range candidates {
				if strings.HasPrefix(content[i:], s) {
					matched = s
					break
				}
			}
			if matched == "" {
				return nil, errs.RuleParseError("unexpected character", errs.WithGot(string(c)))
			}
			toks = append(toks, token{kind: tSymbol, text: matched})
			i += len(matched)
		}
	}
	toks = append(toks, token{kind: tEOF})
	return toks, nil
}

// dedupeSorted returns the unique members of items, ordered longest
// string first, so a longest-match scan picks ">=" over ">".
func dedupeSorted(items []string) []string {
	seen := map[string]bool{}
	var uniq []string
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			uniq = append(uniq, s)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return len(uniq[i]) > len(uniq[j]) })
	return uniq
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
