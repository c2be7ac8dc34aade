// Package model defines the PDF object model: the tagged-variant primitive
// objects (7.3), indirect references and the cross-reference they resolve
// through, and the document graph built on top of them.
//
// Concrete object types satisfy Object. There is deliberately a single
// Object variant shared by the parser, the resolver, and the writer: the
// core never needs a separate "authored" object representation, since the
// author package tracks numbering in its own table rather than on the
// objects themselves.
package model

import (
	"fmt"
	"strconv"
)

// Object is a PDF primitive or composite value: Null, Bool, Integer, Real,
// StringLiteral, StringHex, Name, Array, Dict, Stream, or Ref. It is never
// a Go nil - the PDF null object is its own concrete type, Null{}.
type Object interface {
	fmt.Stringer
	// Clone returns a deep copy, preserving the concrete type.
	Clone() Object
}

// Null represents the PDF null object, and is also what an unresolvable
// reference (free slot, or a reference outside of /Size) resolves to.
type Null struct{}

func (Null) String() string { return "null" }
func (Null) Clone() Object  { return Null{} }

// Bool represents a PDF boolean object.
type Bool bool

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) Clone() Object  { return b }

// Integer represents a PDF integer object (signed 64-bit).
type Integer int64

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Integer) Clone() Object  { return i }

// Real represents a PDF real object (finite IEEE-754 double).
type Real float64

func (r Real) String() string { return strconv.FormatFloat(float64(r), 'f', -1, 64) }
func (r Real) Clone() Object  { return r }

// Name represents a PDF name object: a byte sequence interned by value,
// never empty in valid input (tolerant mode may still produce one).
// Equality is byte-exact after #xx escape resolution, which is already
// done by the tokenizer/parser before a Name ever exists.
type Name string

func (n Name) String() string { return "/" + string(n) }
func (n Name) Clone() Object  { return n }

// StringLiteral is a PDF string written with ( ... ) syntax. Both string
// kinds decode to raw bytes; text semantics (UTF-16BE vs PDFDocEncoding) are
// applied by callers that know the context (7.9.2).
type StringLiteral string

func (s StringLiteral) String() string { return "(" + string(s) + ")" }
func (s StringLiteral) Clone() Object  { return s }

// StringHex is a PDF string written with < ... > syntax.
type StringHex string

func (s StringHex) String() string { return fmt.Sprintf("<%x>", string(s)) }
func (s StringHex) Clone() Object  { return s }

// Bytes returns the raw decoded bytes of either string kind, independent of
// which literal syntax produced it: string equality is byte-exact on the
// decoded bytes.
func Bytes(o Object) ([]byte, bool) {
	switch s := o.(type) {
	case StringLiteral:
		return []byte(s), true
	case StringHex:
		return []byte(s), true
	default:
		return nil, false
	}
}

// Array is an ordered sequence of objects.
type Array []Object

func (a Array) String() string {
	s := "["
	for i, o := range a {
		if i > 0 {
			s += " "
		}
		s += o.String()
	}
	return s + "]"
}

func (a Array) Clone() Object {
	out := make(Array, len(a))
	for i, o := range a {
		out[i] = o.Clone()
	}
	return out
}

// Dict is a mapping from Name keys to objects. Insertion order is not
// semantically meaningful, but Keys is kept so round-tripping a parsed
// document preserves the original key order on write.
type Dict struct {
	values map[Name]Object
	keys   []Name
}

// NewDict returns an empty Dict ready for use.
func NewDict() Dict {
	return Dict{values: map[Name]Object{}}
}

// DictOf builds a Dict from key/value pairs, preserving the given order.
func DictOf(pairs ...struct {
	Key   Name
	Value Object
}) Dict {
	d := NewDict()
	for _, p := range pairs {
		d.Set(p.Key, p.Value)
	}
	return d
}

// Get returns the value for key, and whether it was present.
func (d Dict) Get(key Name) (Object, bool) {
	if d.values == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Set inserts or overwrites key, appending to Keys only on first insertion.
func (d *Dict) Set(key Name, value Object) {
	if d.values == nil {
		d.values = map[Name]Object{}
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Delete removes key, if present.
func (d *Dict) Delete(key Name) {
	if d.values == nil {
		return
	}
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the dictionary's keys in insertion order.
func (d Dict) Keys() []Name { return d.keys }

// Len returns the number of entries.
func (d Dict) Len() int { return len(d.keys) }

func (d Dict) String() string {
	s := "<<"
	for _, k := range d.keys {
		s += fmt.Sprintf(" %s %s", k, d.values[k])
	}
	return s + " >>"
}

func (d Dict) Clone() Object {
	out := NewDict()
	for _, k := range d.keys {
		out.Set(k, d.values[k].Clone())
	}
	return out
}

// Ref is an indirect reference: object number (>= 1) and generation.
type Ref struct {
	Number     uint32
	Generation uint16
}

func (r Ref) String() string { return fmt.Sprintf("%d %d R", r.Number, r.Generation) }
func (r Ref) Clone() Object  { return r }

// Stream is a Dict plus a raw (possibly still filter-encoded) byte payload.
// Its dictionary must carry /Length, directly or through a resolvable
// reference (7.3.8.2); that invariant is checked by the xref loader when it
// reads a stream, not by this type, since a freshly authored Stream may not
// have a /Length yet.
type Stream struct {
	Dict
	Content []byte // as read/written; not decoded
}

func (s Stream) String() string {
	return fmt.Sprintf("%s stream(%d bytes)", s.Dict.String(), len(s.Content))
}

func (s Stream) Clone() Object {
	content := make([]byte, len(s.Content))
	copy(content, s.Content)
	d, _ := s.Dict.Clone().(Dict)
	return Stream{Dict: d, Content: content}
}
