// Package pylit parses the restricted literal syntax used by result files:
// a single `name = <literal>` assignment where the literal is built from
// dicts, lists, tuples, sets, strings, numbers, True, False and None.
//
// Nothing is evaluated. The parser is a plain recursive descent over the
// bytes of the file and produces:
//
//	dict        -> map[string]any (non-string keys use their canonical text)
//	list, tuple -> []any
//	set         -> []any
//	string      -> string
//	number      -> float64
//	True/False  -> bool
//	None        -> nil
package pylit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("pylit: syntax error")

const maxDepth = 256

// SyntaxError locates a parse failure.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pylit: %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// ParseAssignment parses `name = literal` followed only by whitespace and
// comments, returning the bound name and value.
func ParseAssignment(src []byte) (string, any, error) {
	p := &parser{src: src}
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return "", nil, p.errorf("expected assignment target")
	}
	p.skipSpace()
	if !p.consume('=') {
		return "", nil, p.errorf("expected '=' after %q", name)
	}
	v, err := p.value(0)
	if err != nil {
		return "", nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return "", nil, p.errorf("unexpected %q after literal", p.peek())
	}
	return name, v, nil
}

// Parse parses a bare literal.
func Parse(src []byte) (any, error) {
	p := &parser{src: src}
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after literal", p.peek())
	}
	return v, nil
}

type parser struct {
	src []byte
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...any) error {
	line, col := 1, 1
	for i := 0; i < p.pos && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace skips whitespace, line continuations and # comments.
func (p *parser) skipSpace() {
	for !p.eof() {
		switch c := p.src[p.pos]; c {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		case '\\':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n' {
				p.pos += 2
				continue
			}
			return
		case '#':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) ident() string {
	if p.eof() || !isIdentStart(p.src[p.pos]) {
		return ""
	}
	start := p.pos
	for !p.eof() && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *parser) value(depth int) (any, error) {
	if depth > maxDepth {
		return nil, p.errorf("nesting deeper than %d", maxDepth)
	}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '{':
		return p.braces(depth)
	case c == '[':
		p.pos++
		return p.sequence(']', depth)
	case c == '(':
		p.pos++
		return p.parens(depth)
	case c == '\'' || c == '"':
		return p.str()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case isIdentStart(c):
		start := p.pos
		switch id := p.ident(); id {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		case "inf":
			return math.Inf(1), nil
		case "nan":
			return math.NaN(), nil
		case "u", "U":
			if q := p.peek(); q == '\'' || q == '"' {
				return p.str()
			}
			p.pos = start
			return nil, p.errorf("unsupported name %q", id)
		default:
			p.pos = start
			return nil, p.errorf("unsupported name %q", id)
		}
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

// sequence parses comma-separated values up to close. The opening
// delimiter has already been consumed.
func (p *parser) sequence(close byte, depth int) ([]any, error) {
	out := []any{}
	for {
		p.skipSpace()
		if p.consume(close) {
			return out, nil
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(close) {
			return out, nil
		}
		return nil, p.errorf("expected ',' or %q", close)
	}
}

// parens handles both tuples and a parenthesised single value.
func (p *parser) parens(depth int) (any, error) {
	p.skipSpace()
	if p.consume(')') {
		return []any{}, nil
	}
	first, err := p.value(depth + 1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.consume(')') {
		return first, nil
	}
	if !p.consume(',') {
		return nil, p.errorf("expected ',' or ')'")
	}
	rest, err := p.sequence(')', depth)
	if err != nil {
		return nil, err
	}
	return append([]any{first}, rest...), nil
}

// braces parses a dict or a set.
func (p *parser) braces(depth int) (any, error) {
	p.pos++
	p.skipSpace()
	if p.consume('}') {
		return map[string]any{}, nil
	}
	first, err := p.value(depth + 1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.consume(':') {
		p.skipSpace()
		if p.consume('}') {
			return []any{first}, nil
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ':', ',' or '}'")
		}
		rest, err := p.sequence('}', depth)
		if err != nil {
			return nil, err
		}
		return append([]any{first}, rest...), nil
	}

	out := make(map[string]any)
	key := first
	for {
		k, err := keyString(key)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out[k] = v
		p.skipSpace()
		if p.consume('}') {
			return out, nil
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ',' or '}'")
		}
		p.skipSpace()
		if p.consume('}') {
			return out, nil
		}
		key, err = p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, p.errorf("expected ':' after dict key")
		}
	}
}

func keyString(k any) (string, error) {
	switch v := k.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case nil:
		return "None", nil
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			s, err := keyString(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	default:
		return "", fmt.Errorf("unhashable dict key of type %T", k)
	}
}

func (p *parser) number() (any, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
		p.skipSpace()
		if isIdentStart(p.peek()) {
			id := p.ident()
			switch id {
			case "inf":
				if p.src[start] == '-' {
					return math.Inf(-1), nil
				}
				return math.Inf(1), nil
			case "nan":
				return math.NaN(), nil
			}
			p.pos = start
			return nil, p.errorf("unsupported name %q after sign", id)
		}
	}
	digits := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '_' {
			p.pos++
			continue
		}
		if (c == 'e' || c == 'E') && p.pos > digits {
			p.pos++
			if n := p.peek(); n == '+' || n == '-' {
				p.pos++
			}
			continue
		}
		break
	}
	if p.pos == digits {
		p.pos = start
		return nil, p.errorf("malformed number")
	}
	text := strings.ReplaceAll(string(p.src[digits:p.pos]), "_", "")
	// Legacy long-integer suffix, as in 12L.
	if c := p.peek(); c == 'L' || c == 'l' {
		p.pos++
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("malformed number %q", text)
	}
	if p.src[start] == '-' {
		f = -f
	}
	return f, nil
}

func (p *parser) str() (any, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return nil, p.errorf("newline in string")
		case c == '\\':
			p.pos++
			if err := p.escape(&b); err != nil {
				return nil, err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) escape(b *strings.Builder) error {
	if p.eof() {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\n':
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '0':
		b.WriteByte(0)
	case 'x':
		return p.hexRune(b, 2)
	case 'u':
		return p.hexRune(b, 4)
	case 'U':
		return p.hexRune(b, 8)
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) hexRune(b *strings.Builder, n int) error {
	if p.pos+n > len(p.src) {
		return p.errorf("truncated escape")
	}
	v, err := strconv.ParseUint(string(p.src[p.pos:p.pos+n]), 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return p.errorf("invalid escape")
	}
	p.pos += n
	b.WriteRune(rune(v))
	return nil
}
