package pbgraph

import (
	"unicode"

	"github.com/dl7eng/atomnet/internal/lex"
	"github.com/pkg/errors"
)

// Token types for the pin-expression grammar: port_name[index] or
// port_name[index]->interconnect_name. Grounded on the corpus's own
// lexer-driven pin-expression grammar (port/bus-range/connection tokens).
const (
	tokIdent lex.Type = iota
	tokInt
	tokBracketOpen
	tokBracketClose
	tokArrow
	tokRaw
)

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == -1:
		l.Emit(lex.EOF, "end of input")
		return nil
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
		return lexInit
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case r == '[':
		l.Emit(tokBracketOpen, "[")
		return lexInit
	case r == ']':
		l.Emit(tokBracketClose, "]")
		return lexInit
	case '0' <= r && r <= '9':
		return lexNumber
	case r == '-':
		if l.HasPrefix(">") {
			l.Next()
			l.Emit(tokArrow, "->")
			return lexInit
		}
		l.Emit(tokRaw, string(r))
		return nil
	default:
		l.Emit(tokRaw, string(r))
		return nil
	}
}

func lexIdent(l *lex.Lexer) lex.StateFn {
	start := l.Current()
	buf := []rune{start}
	for {
		r := l.Next()
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			buf = append(buf, r)
			continue
		}
		if r != -1 {
			l.Backup()
		}
		break
	}
	l.Emit(tokIdent, string(buf))
	return lexInit
}

func lexNumber(l *lex.Lexer) lex.StateFn {
	n := int(l.Current() - '0')
	for {
		r := l.Next()
		if '0' <= r && r <= '9' {
			n = n*10 + int(r-'0')
			continue
		}
		if r != -1 {
			l.Backup()
		}
		break
	}
	l.Emit(tokInt, n)
	return lexInit
}

// PinExpr is a parsed cluster-internal pin-name expression: either
// "port[index]" (a top-level boundary pin or connection source) or
// "port[index]->interconnect" (an internal pin naming its upstream driver).
type PinExpr struct {
	Port         string
	Index        int
	Interconnect string // "" if no "->interconnect" suffix was present
}

// ParsePinExpr parses a pin_name->interconnect_name token (or a plain
// pin_name[index] token when no interconnect suffix is present) against
// the architectural pin graph's expression grammar.
func ParsePinExpr(s string) (PinExpr, error) {
	l := lex.New(s, lexInit)

	i := l.Lex()
	if i.Type != tokIdent {
		return PinExpr{}, errors.Errorf("pin expression %q: expected port name", s)
	}
	expr := PinExpr{Port: i.Value.(string)}

	i = l.Lex()
	if i.Type != tokBracketOpen {
		return PinExpr{}, errors.Errorf("pin expression %q: expected '[' after port name", s)
	}
	i = l.Lex()
	if i.Type != tokInt {
		return PinExpr{}, errors.Errorf("pin expression %q: expected index", s)
	}
	expr.Index = i.Value.(int)

	i = l.Lex()
	if i.Type != tokBracketClose {
		return PinExpr{}, errors.Errorf("pin expression %q: expected ']'", s)
	}

	i = l.Lex()
	switch i.Type {
	case lex.EOF:
		return expr, nil
	case tokArrow:
	default:
		return PinExpr{}, errors.Errorf("pin expression %q: unexpected trailing %v", s, i)
	}

	i = l.Lex()
	if i.Type != tokIdent {
		return PinExpr{}, errors.Errorf("pin expression %q: expected interconnect name after '->'", s)
	}
	expr.Interconnect = i.Value.(string)

	i = l.Lex()
	if i.Type != lex.EOF {
		return PinExpr{}, errors.Errorf("pin expression %q: unexpected trailing %v", s, i)
	}
	return expr, nil
}
