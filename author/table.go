// Package author is the authoring-side counterpart of the parsed object
// graph: a Table of already-materialized objects, each given a number the
// moment it is allocated, rather than lazily populated from an xref entry.
//
// A brand-new Document built from scratch (package-level NewDocument) and
// a Document built by the operations package (split/merge/rotate/reorder)
// are both just a Table plus a root reference - the writer package doesn't
// need to know which.
package author

import "github.com/corepdf/corepdf/model"

// Table holds every indirect object of one authored document, keyed by the
// reference it was assigned on allocation. Generation is always 0: authored
// documents never carry free-list history the way an incrementally updated
// file does.
type Table struct {
	objects map[model.Ref]model.Object
	next    uint32
	order   []model.Ref // first-allocation order; the writer emits objects deterministically from it
}

// NewTable returns an empty Table, numbering starting at 1.
func NewTable() *Table {
	return &Table{objects: map[model.Ref]model.Object{}, next: 1}
}

// Alloc reserves the next object number without assigning a body yet, for
// objects that must reference each other before either body is complete
// (a page and its parent /Pages node, a font and the page that uses it).
func (t *Table) Alloc() model.Ref {
	ref := model.Ref{Number: t.next}
	t.next++
	t.order = append(t.order, ref)
	t.objects[ref] = model.Null{}
	return ref
}

// Set assigns (or replaces) the body of a previously allocated reference.
func (t *Table) Set(ref model.Ref, obj model.Object) {
	t.objects[ref] = obj
}

// Add allocates a fresh reference and sets its body in one step.
func (t *Table) Add(obj model.Object) model.Ref {
	ref := t.Alloc()
	t.Set(ref, obj)
	return ref
}

// Get returns ref's current body. ref must have been allocated by this
// table; an unknown ref returns (nil, false) rather than Null, since that
// distinction only matters to model.Resolver callers.
func (t *Table) Get(ref model.Ref) (model.Object, bool) {
	o, ok := t.objects[ref]
	return o, ok
}

// MutateDict fetches ref's current body as a Dict, lets fn modify it, and
// writes the result back. Dict values carry their entries in an internal
// map (mutations to existing keys are visible through any copy) but grow
// their key-order slice by value, so appending a new key needs this
// fetch-mutate-store round trip to stick.
func (t *Table) MutateDict(ref model.Ref, fn func(d *model.Dict)) {
	d, _ := t.objects[ref].(model.Dict)
	fn(&d)
	t.objects[ref] = d
}

// Resolve satisfies model.Resolver, so every model package helper that
// navigates a Catalog/Page/Resources view works unchanged over an authored
// Table, not just a parsed xref.Table. Every reference here was allocated
// by this table; an unknown one still resolves to Null per the general
// free-reference contract.
func (t *Table) Resolve(ref model.Ref) (model.Object, error) {
	if o, ok := t.objects[ref]; ok {
		return o, nil
	}
	return model.Null{}, nil
}

// Refs returns every allocated reference, in first-allocation order.
func (t *Table) Refs() []model.Ref { return t.order }

// Len returns the number of allocated objects.
func (t *Table) Len() int { return len(t.order) }

// MaxNumber returns the highest allocated object number, or 0 if empty.
func (t *Table) MaxNumber() uint32 {
	if len(t.order) == 0 {
		return 0
	}
	return t.order[len(t.order)-1].Number
}
