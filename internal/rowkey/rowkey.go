package rowkey

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

type termKind int

const (
	termColumn termKind = iota
	termLiteral
	termMD5
)

type term struct {
	kind     termKind
	value    string
	children []term
}

// Expression is a parsed row key expression. It is immutable and safe to share.
//
// Terms are joined with '+'. A term is a column name, a single quoted literal or md5(...)
// over more terms:
//
//	id
//	tenant + '_' + id
//	md5(tenant + id) + '_' + id
type Expression struct {
	source  string
	terms   []term
	columns []string
}

// Parse parses expr once. Blank expressions and malformed syntax are rejected.
func Parse(expr string) (*Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpression
	}

	p := &parser{input: []rune(expr)}
	terms, err := p.parseTerms(false)
	if err != nil {
		return nil, err
	}

	e := &Expression{
		source: expr,
		terms:  terms,
	}
	e.columns = collectColumns(terms, nil)
	return e, nil
}

// String returns the expression as it was written.
func (e *Expression) String() string {
	return e.source
}

// Columns returns every column referenced by the expression in order of appearance.
func (e *Expression) Columns() []string {
	out := make([]string, len(e.columns))
	copy(out, e.columns)
	return out
}

// Evaluate builds the row key for row. An empty string means no key could be built: a
// referenced column is absent or nil, or the result is blank.
func (e *Expression) Evaluate(row map[string]any) string {
	key, ok := evaluate(e.terms, row)
	if !ok || strings.TrimSpace(key) == "" {
		return ""
	}
	return key
}

func evaluate(terms []term, row map[string]any) (string, bool) {
	var b strings.Builder
	for _, t := range terms {
		switch t.kind {
		case termLiteral:
			b.WriteString(t.value)
		case termColumn:
			v, ok := row[t.value]
			if !ok || v == nil {
				return "", false
			}
			b.WriteString(StringValue(v))
		case termMD5:
			inner, ok := evaluate(t.children, row)
			if !ok {
				return "", false
			}
			sum := md5.Sum([]byte(inner))
			b.WriteString(hex.EncodeToString(sum[:]))
		}
	}
	return b.String(), true
}

func collectColumns(terms []term, seen []string) []string {
	for _, t := range terms {
		switch t.kind {
		case termColumn:
			seen = append(seen, t.value)
		case termMD5:
			seen = collectColumns(t.children, seen)
		}
	}
	return seen
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) done() bool {
	return p.pos >= len(p.input)
}

// parseTerms reads terms until the end of input, or until ')' when nested.
func (p *parser) parseTerms(nested bool) ([]term, error) {
	var terms []term
	for {
		p.skipSpace()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)

		p.skipSpace()
		if p.done() {
			if nested {
				return nil, newError(ErrUnbalanced, "missing ')'")
			}
			return terms, nil
		}

		switch p.input[p.pos] {
		case '+':
			p.pos++
		case ')':
			if !nested {
				return nil, newError(ErrUnbalanced, "unexpected ')' at %d", p.pos)
			}
			p.pos++
			return terms, nil
		default:
			return nil, newError(ErrEmptyTerm, "expected '+' at %d", p.pos)
		}
	}
}

func (p *parser) parseTerm() (term, error) {
	if p.done() {
		return term{}, newError(ErrEmptyTerm, "at %d", p.pos)
	}

	if p.input[p.pos] == '\'' {
		start := p.pos
		p.pos++
		end := p.pos
		for end < len(p.input) && p.input[end] != '\'' {
			end++
		}
		if end >= len(p.input) {
			return term{}, newError(ErrUnterminatedLiteral, "starting at %d", start)
		}
		lit := string(p.input[p.pos:end])
		p.pos = end + 1
		return term{kind: termLiteral, value: lit}, nil
	}

	start := p.pos
	for p.pos < len(p.input) && !isBoundary(p.input[p.pos]) {
		p.pos++
	}
	name := string(p.input[start:p.pos])
	if name == "" {
		return term{}, newError(ErrEmptyTerm, "at %d", start)
	}

	// a name followed by '(' is a function call
	p.skipSpace()
	if !p.done() && p.input[p.pos] == '(' {
		if !strings.EqualFold(name, "md5") {
			return term{}, newError(ErrUnknownFunction, "%s", name)
		}
		p.pos++
		children, err := p.parseTerms(true)
		if err != nil {
			return term{}, err
		}
		return term{kind: termMD5, value: name, children: children}, nil
	}

	return term{kind: termColumn, value: name}, nil
}

func isBoundary(r rune) bool {
	return r == '+' || r == '(' || r == ')' || r == '\'' || unicode.IsSpace(r)
}
