package tmpl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tkEOF tokenKind = iota
	tkNum
	tkStr
	tkIdent
	tkOp
)

type token struct {
	kind tokenKind
	text string
	val  any
	pos  int
}

// two-character operators are matched before single ones
var operators = []string{"==", "!=", "<=", ">=", "(", ")", "[", "]", "{", "}", ",", ":", ".",
	"+", "-", "*", "/", "%", "<", ">", "="}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(src[i]) || (src[i] == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j, val, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tkNum, text: src[i:j], val: val, pos: i})
			i = j
		case r == '"' || r == '\'':
			j, s, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tkStr, text: src[i:j], val: s, pos: i})
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i
			for j < len(src) {
				r, size := utf8.DecodeRuneInString(src[j:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				j += size
			}
			toks = append(toks, token{kind: tkIdent, text: src[i:j], pos: i})
			i = j
		default:
			matched := false
			for _, op := range operators {
				if strings.HasPrefix(src[i:], op) {
					toks = append(toks, token{kind: tkOp, text: op, pos: i})
					i += len(op)
					matched = true
					break
				}
			}
			if !matched {
				return nil, fmt.Errorf("%w: unexpected %q at %d in %q", ErrSyntax, r, i, src)
			}
		}
	}
	toks = append(toks, token{kind: tkEOF, pos: len(src)})
	return toks, nil
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func lexNumber(src string, i int) (int, any, error) {
	j := i
	float := false
loop:
	for j < len(src) {
		c := src[j]
		switch {
		case isDigit(c):
		case c == '.' && !float && j+1 < len(src) && isDigit(src[j+1]):
			float = true
		case (c == 'e' || c == 'E') && j+1 < len(src) && (isDigit(src[j+1]) || src[j+1] == '-' || src[j+1] == '+'):
			float = true
			j++
		default:
			break loop
		}
		j++
	}
	text := src[i:j]
	if !float {
		n, err := strconv.Atoi(text)
		if err == nil {
			return j, n, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: bad number %q", ErrSyntax, text)
	}
	return j, f, nil
}

func lexString(src string, i int) (int, string, error) {
	quote := src[i]
	var b strings.Builder
	j := i + 1
	for j < len(src) {
		c := src[j]
		switch {
		case c == quote:
			return j + 1, b.String(), nil
		case c == '\\' && j+1 < len(src):
			j++
			switch src[j] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'u':
				if j+4 < len(src) {
					if n, err := strconv.ParseUint(src[j+1:j+5], 16, 32); err == nil {
						b.WriteRune(rune(n))
						j += 4
						break
					}
				}
				b.WriteString(`\u`)
			default:
				b.WriteByte(src[j])
			}
			j++
		default:
			b.WriteByte(c)
			j++
		}
	}
	return 0, "", fmt.Errorf("%w: unterminated string at %d", ErrSyntax, i)
}
