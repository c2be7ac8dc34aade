package model

import "fmt"

// Resolver follows an indirect reference to its materialized Object. It is
// implemented by the xref package's object cache; model stays independent
// of how/where objects are stored so the object-graph views in this package
// can be reused by both the reader (backed by a real xref table) and
// authoring code (backed by a plain in-memory table). The document owns one
// object table; every typed view borrows from it.
type Resolver interface {
	Resolve(Ref) (Object, error)
}

// Deref resolves o if it is a Ref, otherwise returns it unchanged. This is
// the single place indirect references are followed when walking the
// object graph, so every caller gets consistent Null-on-dangling-reference
// behavior (7.3.10: a reference to a free or absent entry resolves to the
// null object).
func Deref(r Resolver, o Object) (Object, error) {
	ref, ok := o.(Ref)
	if !ok {
		return o, nil
	}
	return r.Resolve(ref)
}

// DictAt resolves o and type-asserts it to a Dict, treating Null and any
// other non-dict object as "absent" rather than an error - most optional
// dictionary entries in a PDF file are tolerated this way.
func DictAt(r Resolver, o Object) (Dict, bool, error) {
	v, err := Deref(r, o)
	if err != nil {
		return Dict{}, false, err
	}
	d, ok := v.(Dict)
	return d, ok, nil
}

// ArrayAt mirrors DictAt for arrays.
func ArrayAt(r Resolver, o Object) (Array, bool, error) {
	v, err := Deref(r, o)
	if err != nil {
		return nil, false, err
	}
	a, ok := v.(Array)
	return a, ok, nil
}

// IntAt resolves o and reads it as an Integer.
func IntAt(r Resolver, o Object) (int64, bool, error) {
	v, err := Deref(r, o)
	if err != nil {
		return 0, false, err
	}
	switch n := v.(type) {
	case Integer:
		return int64(n), true, nil
	case Real:
		return int64(n), true, nil
	default:
		return 0, false, nil
	}
}

// NameAt resolves o and reads it as a Name.
func NameAt(r Resolver, o Object) (Name, bool, error) {
	v, err := Deref(r, o)
	if err != nil {
		return "", false, err
	}
	n, ok := v.(Name)
	return n, ok, nil
}

// Trailer is the metadata block naming the catalog and carrying the
// document's /Size, /Info, /ID and (if present) /Encrypt (7.5.5).
type Trailer struct {
	Size    int
	Root    Ref
	Info    Ref // optional, zero Ref if absent
	ID      [2][]byte
	Encrypt Ref // optional, zero Ref if absent
}

// Catalog is the root object of the document graph (7.7.2). Non-essential
// entries (AcroForm, Outlines, Names, PageLabels, StructTreeRoot, ...) are
// kept as raw Objects: interactive features are out of scope for the core,
// which only needs to preserve their object-graph slot on round-trip.
type Catalog struct {
	Pages      Ref
	Extra      Dict // the catalog dict minus /Type, /Pages: AcroForm, Outlines, Names, ...
}

// ParseCatalog reads a Catalog out of a resolved /Root dictionary.
func ParseCatalog(d Dict) (Catalog, error) {
	pagesObj, ok := d.Get("Pages")
	if !ok {
		return Catalog{}, fmt.Errorf("catalog: missing required /Pages entry")
	}
	pages, ok := pagesObj.(Ref)
	if !ok {
		return Catalog{}, fmt.Errorf("catalog: /Pages must be an indirect reference, got %T", pagesObj)
	}
	extra := NewDict()
	for _, k := range d.Keys() {
		if k == "Type" || k == "Pages" {
			continue
		}
		v, _ := d.Get(k)
		extra.Set(k, v)
	}
	return Catalog{Pages: pages, Extra: extra}, nil
}
