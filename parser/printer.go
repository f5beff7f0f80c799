package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/encode"
	"github.com/sexpcore/sexp/nav"
)

// PrintNode renders an in-memory encode.Node tree as canonical text. Output
// is deterministic: floats print with 17 significant digits (enough to
// round-trip any float64 exactly), NaN/+Inf/-Inf print as the literals
// nan/inf/-inf, and strings are quoted with the same escape set the parser
// accepts.
func PrintNode(n encode.Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n encode.Node) {
	switch n.Kind() {
	case encode.KindNil:
		sb.WriteString("nil")
	case encode.KindSymbol:
		sb.WriteString(n.Symbol())
	case encode.KindString:
		writeString(sb, n.Str())
	case encode.KindInteger:
		sb.WriteString(strconv.FormatInt(n.Int(), 10))
	case encode.KindFloat:
		writeFloat(sb, n.Float())
	case encode.KindList:
		elems := n.Elements()
		sb.WriteByte('(')
		for i, el := range elems {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeNode(sb, el)
		}
		sb.WriteByte(')')
	}
}

// PrintCursor renders the element at (r, off) as canonical text directly
// from a decode cursor, without materializing an intermediate tree.
func PrintCursor(r *decode.Reader, off int) (string, error) {
	var sb strings.Builder
	if err := writeCursor(&sb, r, off); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeCursor(sb *strings.Builder, r *decode.Reader, off int) error {
	kind, err := nav.Type(r, off)
	if err != nil {
		return err
	}

	switch kind {
	case nav.KindNil:
		sb.WriteString("nil")

	case nav.KindInteger:
		v, err := nav.Integer(r, off)
		if err != nil {
			return err
		}
		sb.WriteString(strconv.FormatInt(v, 10))

	case nav.KindFloat:
		v, err := nav.FloatVal(r, off)
		if err != nil {
			return err
		}
		writeFloat(sb, v)

	case nav.KindSymbol:
		s, err := nav.SymbolName(r, off)
		if err != nil {
			return err
		}
		sb.WriteString(s)

	case nav.KindString:
		s, err := nav.StringVal(r, off)
		if err != nil {
			return err
		}
		writeString(sb, s)

	case nav.KindList:
		children, err := nav.Children(r, off)
		if err != nil {
			return err
		}
		sb.WriteByte('(')
		for i, c := range children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if err := writeCursor(sb, r, c); err != nil {
				return err
			}
		}
		sb.WriteByte(')')
	}

	return nil
}

func writeFloat(sb *strings.Builder, v float64) {
	switch {
	case math.IsNaN(v):
		sb.WriteString("nan")
	case math.IsInf(v, 1):
		sb.WriteString("inf")
	case math.IsInf(v, -1):
		sb.WriteString("-inf")
	default:
		s := strconv.FormatFloat(v, 'g', 17, 64)
		sb.WriteString(s)
		// An integral float such as 1.0 formats as "1"; the ".0" keeps it a
		// float when parsed back.
		if !strings.ContainsAny(s, ".e") {
			sb.WriteString(".0")
		}
	}
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
}
