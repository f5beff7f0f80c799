// Package parser implements the textual surface syntax: a single-pass
// recursive-descent scanner that turns source text into an encode.Node tree
// (parser.go), and a canonical printer that turns a Node or a live decode
// cursor back into text (printer.go).
//
// The grammar:
//
//	sexp    ::= atom | list
//	atom    ::= symbol | string | number
//	list    ::= '(' sexp* ')'
//	symbol  ::= [A-Za-z_?!+\-*/.][A-Za-z0-9_?!+\-*/.\-]*
//	string  ::= '"' ( '\\' [ntr\\"] | any-char-except-"-and-\\ )* '"'
//	number  ::= integer | float
//
// Whitespace separates tokens; ';' starts a line comment terminated by
// newline. The token "nil" denotes the empty list.
//
// parser deliberately depends on encode (plus decode and nav for the cursor
// printer), never on the root sexp package, so that Parse can be called from
// sexp.Parse without an import cycle: the
// root package materializes the returned Node into its own Value tree.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/sexpcore/sexp/encode"
	"github.com/sexpcore/sexp/errs"
	"github.com/sexpcore/sexp/format"
)

// node is the parser's own minimal encode.Node implementation -- it never
// needs to be anything richer, since its only job is to be handed to an
// encode.Writer or materialized by the caller.
type node struct {
	kind  encode.Kind
	sym   string
	str   string
	i     int64
	f     float64
	elems []encode.Node
}

func (n *node) Kind() encode.Kind       { return n.kind }
func (n *node) Symbol() string          { return n.sym }
func (n *node) Str() string             { return n.str }
func (n *node) Int() int64              { return n.i }
func (n *node) Float() float64          { return n.f }
func (n *node) Elements() []encode.Node { return n.elems }

var nilNode encode.Node = &node{kind: encode.KindNil}

// Parse scans text as a single sexp value and returns it as an encode.Node.
// Trailing non-whitespace/non-comment content after the value is an error.
func Parse(text string) (encode.Node, error) {
	p := &scanner{buf: []byte(text)}

	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}

	p.skipSpaceAndComments()
	if p.pos != len(p.buf) {
		return nil, errs.ErrTrailingGarbage
	}

	return v, nil
}

type scanner struct {
	buf []byte
	pos int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == '"' || c == ';'
}

func (p *scanner) skipSpaceAndComments() {
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if c == ';' {
			for p.pos < len(p.buf) && p.buf[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if isSpace(c) {
			p.pos++
			continue
		}
		break
	}
}

func (p *scanner) parseValue(depth int) (encode.Node, error) {
	if depth > format.MaxDepth {
		return nil, errs.ErrDepthExceeded
	}

	p.skipSpaceAndComments()
	if p.pos >= len(p.buf) {
		return nil, errs.ErrEmptyToken
	}

	switch p.buf[p.pos] {
	case '(':
		return p.parseList(depth)
	case '"':
		return p.parseString()
	case ')':
		return nil, errs.ErrEmptyToken
	default:
		return p.parseAtom()
	}
}

func (p *scanner) parseList(depth int) (encode.Node, error) {
	p.pos++ // consume '('

	var elems []encode.Node

	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.buf) {
			return nil, errs.ErrUnterminatedList
		}
		if p.buf[p.pos] == ')' {
			p.pos++
			break
		}

		v, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}

	if len(elems) == 0 {
		return nilNode, nil
	}

	return &node{kind: encode.KindList, elems: elems}, nil
}

func (p *scanner) parseString() (encode.Node, error) {
	p.pos++ // consume opening quote

	var sb strings.Builder

	for {
		if p.pos >= len(p.buf) {
			return nil, errs.ErrUnterminatedString
		}

		c := p.buf[p.pos]
		if c == '"' {
			p.pos++
			break
		}

		if c == '\\' {
			p.pos++
			if p.pos >= len(p.buf) {
				return nil, errs.ErrUnterminatedString
			}

			switch p.buf[p.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				return nil, errs.ErrBadEscape
			}
			p.pos++
			continue
		}

		sb.WriteByte(c)
		p.pos++
	}

	return &node{kind: encode.KindString, str: sb.String()}, nil
}

func (p *scanner) parseAtom() (encode.Node, error) {
	start := p.pos
	for p.pos < len(p.buf) && !isDelimiter(p.buf[p.pos]) {
		p.pos++
	}

	tok := string(p.buf[start:p.pos])
	if tok == "" {
		return nil, errs.ErrEmptyToken
	}

	switch tok {
	case "nil":
		return nilNode, nil
	case "nan":
		return &node{kind: encode.KindFloat, f: math.NaN()}, nil
	case "inf":
		return &node{kind: encode.KindFloat, f: math.Inf(1)}, nil
	case "-inf":
		return &node{kind: encode.KindFloat, f: math.Inf(-1)}, nil
	}

	if isNum, hasDot := classifyNumeric(tok); isNum {
		if hasDot {
			if f, err := strconv.ParseFloat(tok, 64); err == nil {
				return &node{kind: encode.KindFloat, f: f}, nil
			}
		} else if iv, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return &node{kind: encode.KindInteger, i: iv}, nil
		}
	}

	return &node{kind: encode.KindSymbol, sym: tok}, nil
}

// classifyNumeric mirrors the reference tokenizer's character-class scan: a
// token is numeric if it consists of digits with at most one leading sign,
// at most one '.', and at most one exponent marker 'e'/'E' (after a digit,
// optionally followed by a sign, with no '.' after it), and contains at
// least one digit. hasDot reports a '.' or an exponent, i.e. a float
// literal. Anything else (including a malformed near-number like "1.2.3")
// falls back to symbol.
func classifyNumeric(tok string) (isNumber, hasDot bool) {
	isNumber = true
	hasDigit := false
	hasExp := false

	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c == '-' || c == '+':
			if i != 0 && tok[i-1] != 'e' && tok[i-1] != 'E' {
				isNumber = false
			}
		case c == '.':
			if hasDot {
				isNumber = false
			}
			hasDot = true
		case (c == 'e' || c == 'E') && hasDigit && !hasExp:
			hasExp = true
			hasDot = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			isNumber = false
		}
	}

	return isNumber && hasDigit, hasDot
}
