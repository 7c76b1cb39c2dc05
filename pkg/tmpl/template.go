// Package tmpl renders the small template language narratives are stored
// in. It understands
//
//	{{ expr }}                  output
//	{% set name = expr %}       binding
//	{% if expr %} … {% else %} … {% end %}
//	{# comment #}
//
// Expressions cover literals, lists and dicts, attribute and item access
// (df.columns[0], df["name"].iloc[-1], fh_args['_sort'][0]), calls into
// bound namespaces (G.plural(x)), str methods, arithmetic, comparisons and
// the boolean operators.
package tmpl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSyntax is returned for malformed templates and expressions.
	ErrSyntax = errors.New("tmpl: syntax error")
	// ErrUndefined is returned for unknown names, attributes and methods.
	ErrUndefined = errors.New("tmpl: undefined")
	// ErrType is returned when an operation does not apply to its operands.
	ErrType = errors.New("tmpl: type error")
	// ErrIndex is returned for out of range positions and missing keys.
	ErrIndex = errors.New("tmpl: index error")
)

type node interface{}

type textNode struct{ text string }

type outputNode struct{ x expr }

type setNode struct {
	name string
	x    expr
}

type ifNode struct {
	cond     expr
	then, el []node
}

// Template is a parsed template, safe for concurrent Execute calls.
type Template struct {
	src   string
	nodes []node
}

// Renderer parses and executes templates. The zero value trims the newline
// following a statement or comment tag and the newline preceding
// {% else %} and {% end %}.
type Renderer struct {
	// KeepNewlines disables newline trimming around tags.
	KeepNewlines bool
}

// New returns a Renderer with default settings.
func New() *Renderer {
	return &Renderer{}
}

// Render parses src and executes it against vars.
func (r *Renderer) Render(src string, vars map[string]any) (string, error) {
	t, err := r.Parse(src)
	if err != nil {
		return "", err
	}
	return t.Execute(vars)
}

// Eval evaluates a single expression against vars.
func (r *Renderer) Eval(src string, vars map[string]any) (any, error) {
	x, err := parseExpr(src)
	if err != nil {
		return nil, err
	}
	return x.eval(newScope(vars))
}

// Execute renders the template against vars.
func (t *Template) Execute(vars map[string]any) (string, error) {
	var b strings.Builder
	if err := execNodes(&b, t.nodes, newScope(vars)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func execNodes(b *strings.Builder, nodes []node, s *scope) error {
	for _, n := range nodes {
		switch x := n.(type) {
		case textNode:
			b.WriteString(x.text)
		case outputNode:
			v, err := x.x.eval(s)
			if err != nil {
				return err
			}
			b.WriteString(Format(v))
		case setNode:
			v, err := x.x.eval(s)
			if err != nil {
				return err
			}
			s.locals[x.name] = v
		case ifNode:
			c, err := x.cond.eval(s)
			if err != nil {
				return err
			}
			branch := x.el
			if Truthy(c) {
				branch = x.then
			}
			if err := execNodes(b, branch, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// ============================================================================
// Template parsing
// ============================================================================

type frameKind int

const (
	frameRoot frameKind = iota
	frameThen
	frameElse
)

type blockFrame struct {
	kind  frameKind
	node  *ifNode
	nodes []node
}

// Parse compiles src.
func (r *Renderer) Parse(src string) (*Template, error) {
	stack := []*blockFrame{{kind: frameRoot}}
	top := func() *blockFrame { return stack[len(stack)-1] }
	trim := !r.KeepNewlines

	i := 0
	for i < len(src) {
		open := nextTag(src, i)
		if open < 0 {
			top().nodes = append(top().nodes, textNode{src[i:]})
			break
		}
		if open > i {
			top().nodes = append(top().nodes, textNode{src[i:open]})
		}

		kind := src[open : open+2]
		var closer string
		switch kind {
		case "{{":
			closer = "}}"
		case "{%":
			closer = "%}"
		default:
			closer = "#}"
		}
		end := findClose(src, open+2, closer)
		if end < 0 {
			return nil, fmt.Errorf("%w: unclosed %q at %d", ErrSyntax, kind, open)
		}
		body := strings.TrimSpace(src[open+2 : end])
		i = end + 2

		switch kind {
		case "{{":
			x, err := parseExpr(body)
			if err != nil {
				return nil, err
			}
			top().nodes = append(top().nodes, outputNode{x})
			continue
		case "{#":
			// comment
		case "{%":
			word, rest := splitWord(body)
			switch word {
			case "set":
				name, value, ok := strings.Cut(rest, "=")
				name = strings.TrimSpace(name)
				if !ok || !isIdent(name) {
					return nil, fmt.Errorf("%w: bad set statement %q", ErrSyntax, body)
				}
				x, err := parseExpr(value)
				if err != nil {
					return nil, err
				}
				top().nodes = append(top().nodes, setNode{name: name, x: x})
			case "if":
				x, err := parseExpr(rest)
				if err != nil {
					return nil, err
				}
				n := &ifNode{cond: x}
				stack = append(stack, &blockFrame{kind: frameThen, node: n})
			case "else":
				f := top()
				if f.kind != frameThen {
					return nil, fmt.Errorf("%w: else without if at %d", ErrSyntax, open)
				}
				if trim {
					trimTrailingNewline(f.nodes)
				}
				f.node.then = f.nodes
				f.kind, f.nodes = frameElse, nil
			case "end", "endif":
				f := top()
				if f.kind == frameRoot {
					return nil, fmt.Errorf("%w: end without if at %d", ErrSyntax, open)
				}
				if trim {
					trimTrailingNewline(f.nodes)
				}
				if f.kind == frameThen {
					f.node.then = f.nodes
				} else {
					f.node.el = f.nodes
				}
				stack = stack[:len(stack)-1]
				top().nodes = append(top().nodes, *f.node)
			default:
				return nil, fmt.Errorf("%w: unknown statement %q", ErrSyntax, word)
			}
		}
		if trim && i < len(src) && src[i] == '\n' {
			i++
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: missing {%% end %%}", ErrSyntax)
	}
	return &Template{src: src, nodes: stack[0].nodes}, nil
}

func nextTag(src string, from int) int {
	for i := from; i+1 < len(src); i++ {
		if src[i] == '{' && (src[i+1] == '{' || src[i+1] == '%' || src[i+1] == '#') {
			return i
		}
	}
	return -1
}

// findClose locates closer outside of string literals and nested braces.
func findClose(src string, from int, closer string) int {
	if closer == "#}" {
		if j := strings.Index(src[from:], closer); j >= 0 {
			return from + j
		}
		return -1
	}
	depth := 0
	var quote byte
	for i := from; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			quote = c
		case depth == 0 && strings.HasPrefix(src[i:], closer):
			return i
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	return -1
}

func trimTrailingNewline(nodes []node) {
	if len(nodes) == 0 {
		return
	}
	if t, ok := nodes[len(nodes)-1].(textNode); ok && strings.HasSuffix(t.text, "\n") {
		nodes[len(nodes)-1] = textNode{strings.TrimSuffix(t.text, "\n")}
	}
}

func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, ""
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		if !isLetter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}
