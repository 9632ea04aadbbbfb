// Package quads reads and writes the line-oriented quad format used to seed
// a store:
//
//	# comment
//	<urn:Lassie> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <urn:Dog> .
//	<urn:John> <urn:childOf> <urn:Mary> <urn:family> .
//	<urn:Lassie> <urn:name> "Lassie"@en .
//
// IRIs are interned without their angle brackets. Literals keep their quotes
// (and any language tag or datatype suffix) so they never collide with an
// IRI of the same spelling. Blank nodes (_:b1) are taken verbatim.
package quads

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/roach88/proof/internal/ir"
)

// Line is one parsed quad. Graph is empty when the line names no graph.
type Line struct {
	Subject   string `json:"subject" yaml:"subject"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    string `json:"object" yaml:"object"`
	Graph     string `json:"graph,omitempty" yaml:"graph,omitempty"`
	Num       int    `json:"-" yaml:"-"`
}

// String renders the line back in the input format.
func (l Line) String() string {
	parts := []string{Format(l.Subject), Format(l.Predicate), Format(l.Object)}
	if l.Graph != "" {
		parts = append(parts, Format(l.Graph))
	}
	return strings.Join(parts, " ") + " ."
}

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line    int
	Col     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Col, e.Message)
}

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// Parse reads every quad from r. Blank lines and # comments are skipped.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for num := 1; scanner.Scan(); num++ {
		line, ok, err := ParseLine(scanner.Text(), num)
		if err != nil {
			return nil, err
		}
		if ok {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read quads")
	}
	return lines, nil
}

// ParseLine parses one line. ok is false for blank and comment lines.
func ParseLine(text string, num int) (line Line, ok bool, err error) {
	lx := &lexer{src: text, line: num}

	var terms []string
	terminated := false
	for {
		lx.skipSpace()
		if lx.done() || lx.peek() == '#' {
			break
		}
		if terminated {
			return Line{}, false, lx.errorf("unexpected input after '.'")
		}
		if lx.peek() == '.' {
			lx.pos++
			terminated = true
			continue
		}
		term, err := lx.term()
		if err != nil {
			return Line{}, false, err
		}
		terms = append(terms, term)
	}

	if len(terms) == 0 && !terminated {
		return Line{}, false, nil
	}
	if !terminated {
		return Line{}, false, lx.errorf("missing terminating '.'")
	}
	if len(terms) < 3 || len(terms) > 4 {
		return Line{}, false, &SyntaxError{Line: num, Col: 1, Message: fmt.Sprintf("expected 3 or 4 terms, got %d", len(terms))}
	}
	if isLiteral(terms[0]) || isLiteral(terms[1]) {
		return Line{}, false, &SyntaxError{Line: num, Col: 1, Message: "literals are only allowed in object position"}
	}

	line = Line{Subject: terms[0], Predicate: terms[1], Object: terms[2], Num: num}
	if len(terms) == 4 {
		if isLiteral(terms[3]) {
			return Line{}, false, &SyntaxError{Line: num, Col: 1, Message: "graph must be an IRI"}
		}
		line.Graph = terms[3]
	}
	return line, true, nil
}

// ParseTerm reads a single term given on its own, e.g. a command-line
// argument. Unlike the file format it also accepts a bare IRI.
func ParseTerm(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty term")
	}
	if s[0] != '<' && s[0] != '"' {
		return s, nil
	}
	lx := &lexer{src: s, line: 1}
	term, err := lx.term()
	if err != nil {
		return "", err
	}
	if !lx.done() {
		return "", lx.errorf("unexpected input after term")
	}
	return term, nil
}

// Format renders an interned value as a term.
func Format(value string) string {
	if isLiteral(value) || strings.HasPrefix(value, "_:") {
		return value
	}
	return "<" + value + ">"
}

func isLiteral(term string) bool {
	return strings.HasPrefix(term, `"`)
}

type lexer struct {
	src  string
	pos  int
	line int
}

func (l *lexer) done() bool { return l.pos >= len(l.src) }

func (l *lexer) peek() byte { return l.src[l.pos] }

func (l *lexer) skipSpace() {
	for !l.done() && (l.peek() == ' ' || l.peek() == '\t' || l.peek() == '\r') {
		l.pos++
	}
}

func (l *lexer) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: l.line, Col: l.pos + 1, Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) term() (string, error) {
	switch c := l.peek(); {
	case c == '<':
		return l.iri()
	case c == '"':
		return l.literal()
	case strings.HasPrefix(l.src[l.pos:], "_:"):
		return l.blank()
	default:
		return "", l.errorf("unexpected character %q", c)
	}
}

func (l *lexer) iri() (string, error) {
	start := l.pos + 1
	end := strings.IndexByte(l.src[start:], '>')
	if end < 0 {
		return "", l.errorf("unterminated IRI")
	}
	value := l.src[start : start+end]
	if value == "" {
		return "", l.errorf("empty IRI")
	}
	if strings.ContainsAny(value, " \t<\"") {
		return "", l.errorf("invalid character in IRI %q", value)
	}
	l.pos = start + end + 1
	return value, nil
}

func (l *lexer) literal() (string, error) {
	var b strings.Builder
	b.WriteByte('"')
	l.pos++
	for {
		if l.done() {
			return "", l.errorf("unterminated literal")
		}
		c := l.peek()
		l.pos++
		if c == '"' {
			break
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if l.done() {
			return "", l.errorf("unterminated escape")
		}
		esc := l.peek()
		l.pos++
		switch esc {
		case '"', '\\':
			b.WriteByte(esc)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", l.errorf("unknown escape \\%c", esc)
		}
	}
	b.WriteByte('"')

	// Language tag or datatype stays part of the literal's identity.
	switch {
	case !l.done() && l.peek() == '@':
		start := l.pos
		l.pos++
		for !l.done() && isLangChar(l.peek()) {
			l.pos++
		}
		if l.pos == start+1 {
			return "", l.errorf("empty language tag")
		}
		b.WriteString(l.src[start:l.pos])
	case strings.HasPrefix(l.src[l.pos:], "^^"):
		l.pos += 2
		if l.done() || l.peek() != '<' {
			return "", l.errorf("datatype must be an IRI")
		}
		dt, err := l.iri()
		if err != nil {
			return "", err
		}
		b.WriteString("^^<" + dt + ">")
	}
	return b.String(), nil
}

func (l *lexer) blank() (string, error) {
	start := l.pos
	l.pos += 2
	for !l.done() && !strings.ContainsRune(" \t\r", rune(l.peek())) {
		l.pos++
	}
	if l.pos == start+2 {
		return "", l.errorf("empty blank node label")
	}
	return l.src[start:l.pos], nil
}

func isLangChar(c byte) bool {
	return c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Writer is the store surface Load needs.
type Writer interface {
	Intern(ctx context.Context, value string) (ir.ID, error)
	Put(ctx context.Context, st ir.Statement) error
}

// Load interns and writes lines. A line without a graph goes to the
// explicit default graph. Lines addressed to the implicit graph are written
// as inferred, everything else as explicit.
func Load(ctx context.Context, w Writer, lines []Line) (int, error) {
	for i, line := range lines {
		q, err := intern(ctx, w, line)
		if err != nil {
			return i, errors.Wrapf(err, "line %d", line.Num)
		}
		status := ir.StatusExplicit
		if q.Context == ir.ImplicitGraph {
			status = ir.StatusInferred
		}
		if err := w.Put(ctx, ir.Statement{Quad: q, Status: status}); err != nil {
			return i, errors.Wrapf(err, "line %d", line.Num)
		}
	}
	return len(lines), nil
}

func intern(ctx context.Context, w Writer, line Line) (ir.Quad, error) {
	var ids [4]ir.ID
	for i, value := range [3]string{line.Subject, line.Predicate, line.Object} {
		id, err := w.Intern(ctx, value)
		if err != nil {
			return ir.Quad{}, err
		}
		ids[i] = id
	}
	ids[3] = ir.ExplicitGraph
	if line.Graph != "" {
		id, err := w.Intern(ctx, line.Graph)
		if err != nil {
			return ir.Quad{}, err
		}
		ids[3] = id
	}
	return ir.NewQuad(ids[0], ids[1], ids[2], ids[3]), nil
}

// Lookup is the read-only store surface Resolve needs.
type Lookup interface {
	TermID(ctx context.Context, value string) (ir.ID, bool, error)
}

// Resolve maps a line onto existing term IDs without interning anything.
// If the store has never seen one of the terms the zero Quad is returned,
// which is invalid. A line without a graph resolves to ir.NoContext.
func Resolve(ctx context.Context, lk Lookup, line Line) (ir.Quad, error) {
	var ids [4]ir.ID
	for i, value := range [4]string{line.Subject, line.Predicate, line.Object, line.Graph} {
		if value == "" {
			continue
		}
		id, ok, err := lk.TermID(ctx, value)
		if err != nil {
			return ir.Quad{}, errors.Wrapf(err, "lookup %s", Format(value))
		}
		if !ok {
			return ir.Quad{}, nil
		}
		ids[i] = id
	}
	return ir.NewQuad(ids[0], ids[1], ids[2], ids[3]), nil
}

// Render is the store surface Name needs.
type Render interface {
	Resolve(ctx context.Context, id ir.ID) (string, error)
}

// Name renders id as a term.
func Name(ctx context.Context, r Render, id ir.ID) (string, error) {
	value, err := r.Resolve(ctx, id)
	if err != nil {
		return "", err
	}
	return Format(value), nil
}

// Names renders every position of q. The context is left out when it is
// ir.NoContext.
func Names(ctx context.Context, r Render, q ir.Quad) ([]string, error) {
	out := make([]string, 0, 4)
	for i, id := range q.Values() {
		if i == 3 && id == ir.NoContext {
			break
		}
		name, err := Name(ctx, r, id)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}
