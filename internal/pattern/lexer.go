package pattern

import (
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokDollar
	tokBang
	tokBacktick
	tokEllipsis
	tokIdent  // kind names, nil, _ and _name
	tokSymbol // :name
	tokString // "text"
	tokInt    // 42, -1
	tokPred   // #name
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of pattern"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokDollar:
		return "'$'"
	case tokBang:
		return "'!'"
	case tokBacktick:
		return "'`'"
	case tokEllipsis:
		return "'...'"
	case tokIdent:
		return "identifier"
	case tokSymbol:
		return "symbol"
	case tokString:
		return "string"
	case tokInt:
		return "integer"
	case tokPred:
		return "predicate"
	default:
		return "token"
	}
}

type token struct {
	kind tokenKind
	text string // decoded value for symbols, strings and predicates
	pos  int
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '?' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '{', '}':
		return true
	}
	return false
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i})
			i++
		case c == '{':
			toks = append(toks, token{kind: tokLBrace, pos: i})
			i++
		case c == '}':
			toks = append(toks, token{kind: tokRBrace, pos: i})
			i++
		case c == '$':
			toks = append(toks, token{kind: tokDollar, pos: i})
			i++
		case c == '!':
			toks = append(toks, token{kind: tokBang, pos: i})
			i++
		case c == '`':
			toks = append(toks, token{kind: tokBacktick, pos: i})
			i++
		case strings.HasPrefix(src[i:], "..."):
			toks = append(toks, token{kind: tokEllipsis, pos: i})
			i += 3
		case c == ':':
			start := i
			i++
			for i < len(src) && !isDelimiter(src[i]) {
				i++
			}
			if i == start+1 {
				return nil, errorAt(src, start, "empty symbol")
			}
			toks = append(toks, token{kind: tokSymbol, text: src[start+1 : i], pos: start})
		case c == '#':
			start := i
			i++
			for i < len(src) && isIdentByte(src[i]) {
				i++
			}
			if i == start+1 {
				return nil, errorAt(src, start, "empty predicate name")
			}
			toks = append(toks, token{kind: tokPred, text: src[start+1 : i], pos: start})
		case c == '"':
			start := i
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(src) {
				return nil, errorAt(src, start, "unterminated string")
			}
			i++
			text, err := strconv.Unquote(src[start:i])
			if err != nil {
				return nil, errorAt(src, start, "invalid string literal")
			}
			toks = append(toks, token{kind: tokString, text: text, pos: start})
		case c == '-' || (c >= '0' && c <= '9'):
			start := i
			i++
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			if src[start:i] == "-" {
				return nil, errorAt(src, start, "expected digits after '-'")
			}
			toks = append(toks, token{kind: tokInt, text: src[start:i], pos: start})
		case isIdentByte(c):
			start := i
			for i < len(src) && isIdentByte(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			return nil, errorAt(src, i, "unexpected character "+strconv.QuoteRune(rune(c)))
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}
