package sexp

import "github.com/sexpcore/sexp/encode"

// Value is a finite tree whose nodes are one of six variants: Nil, Symbol,
// String, Integer, Float, or List. Nil is the unique empty list.
//
// Value is an in-memory construction aid for building and inspecting trees
// before/after serialization; it is not itself the wire format. Use Write to
// serialize a Value and Parse to build one from text; Open yields a Reader
// cursor over serialized bytes, not a Value.
//
// Every concrete Value variant also implements encode.Node, so a Value can
// be passed directly to an encode.Writer without an adapter layer.
type Value interface {
	isValue()
	encode.Node
}

type nilValue struct{}

func (nilValue) isValue()                 {}
func (nilValue) Kind() encode.Kind        { return encode.KindNil }
func (nilValue) Symbol() string           { return "" }
func (nilValue) Str() string              { return "" }
func (nilValue) Int() int64               { return 0 }
func (nilValue) Float() float64           { return 0 }
func (nilValue) Elements() []encode.Node  { return nil }

// Nil is the unique, process-wide nil/empty-list value.
var Nil Value = nilValue{}

type symbolValue struct{ name string }

func (symbolValue) isValue()                {}
func (symbolValue) Kind() encode.Kind       { return encode.KindSymbol }
func (v symbolValue) Symbol() string        { return v.name }
func (symbolValue) Str() string             { return "" }
func (symbolValue) Int() int64              { return 0 }
func (symbolValue) Float() float64          { return 0 }
func (symbolValue) Elements() []encode.Node { return nil }

// Sym constructs a symbol value from its name.
func Sym(name string) Value { return symbolValue{name: name} }

type stringValue struct{ s string }

func (stringValue) isValue()                {}
func (stringValue) Kind() encode.Kind       { return encode.KindString }
func (stringValue) Symbol() string          { return "" }
func (v stringValue) Str() string           { return v.s }
func (stringValue) Int() int64              { return 0 }
func (stringValue) Float() float64          { return 0 }
func (stringValue) Elements() []encode.Node { return nil }

// Str constructs a string value.
func Str(s string) Value { return stringValue{s: s} }

type integerValue struct{ v int64 }

func (integerValue) isValue()                {}
func (integerValue) Kind() encode.Kind       { return encode.KindInteger }
func (integerValue) Symbol() string          { return "" }
func (integerValue) Str() string             { return "" }
func (v integerValue) Int() int64            { return v.v }
func (integerValue) Float() float64          { return 0 }
func (integerValue) Elements() []encode.Node { return nil }

// Int constructs an integer value.
func Int(v int64) Value { return integerValue{v: v} }

type floatValue struct{ v float64 }

func (floatValue) isValue()                {}
func (floatValue) Kind() encode.Kind       { return encode.KindFloat }
func (floatValue) Symbol() string          { return "" }
func (floatValue) Str() string             { return "" }
func (floatValue) Int() int64              { return 0 }
func (v floatValue) Float() float64        { return v.v }
func (floatValue) Elements() []encode.Node { return nil }

// Float constructs a float value. NaN is permitted; it is never equal to
// itself under Equal, matching IEEE 754 semantics.
func Float(v float64) Value { return floatValue{v: v} }

type listValue struct{ elems []Value }

func (listValue) isValue()           {}
func (listValue) Kind() encode.Kind  { return encode.KindList }
func (listValue) Symbol() string     { return "" }
func (listValue) Str() string        { return "" }
func (listValue) Int() int64         { return 0 }
func (listValue) Float() float64     { return 0 }
func (v listValue) Elements() []encode.Node {
	out := make([]encode.Node, len(v.elems))
	for i, el := range v.elems {
		out[i] = el
	}

	return out
}

// List constructs a list value from its ordered elements. An empty elems
// slice yields Nil, since the format has no representation for a
// zero-element list distinct from nil.
func List(elems ...Value) Value {
	if len(elems) == 0 {
		return Nil
	}

	return listValue{elems: elems}
}
