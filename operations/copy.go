// Package operations implements the document-to-document transforms:
// split, merge, rotate and reorder. Each takes one or more parsed sources
// and produces a freshly authored author.Document - an operation reads
// through the source's views and emits freshly numbered objects into a
// new, empty table, so source and output never share object storage.
package operations

import "github.com/corepdf/corepdf/model"

// copier deep-copies objects from a parsed source into an author.Table,
// remapping every indirect reference it encounters exactly once.
type copier struct {
	src  model.Resolver
	dst  Table
	memo map[model.Ref]model.Ref
}

// Table is the minimal surface copier needs from author.Table, so this file
// has no import cycle with the author package (operations depends on
// author, not the reverse).
type Table interface {
	Alloc() model.Ref
	Set(ref model.Ref, obj model.Object)
}

func newCopier(src model.Resolver, dst Table) *copier {
	return &copier{src: src, dst: dst, memo: map[model.Ref]model.Ref{}}
}

func (c *copier) copyRef(ref model.Ref) model.Ref {
	if mapped, ok := c.memo[ref]; ok {
		return mapped
	}
	newRef := c.dst.Alloc()
	c.memo[ref] = newRef

	obj, err := c.src.Resolve(ref)
	if err != nil {
		c.dst.Set(newRef, model.Null{})
		return newRef
	}
	c.dst.Set(newRef, c.copyObject(obj))
	return newRef
}

func (c *copier) copyObject(o model.Object) model.Object {
	switch v := o.(type) {
	case model.Ref:
		return c.copyRef(v)
	case model.Array:
		out := make(model.Array, len(v))
		for i, e := range v {
			out[i] = c.copyObject(e)
		}
		return out
	case model.Dict:
		return c.copyDict(v)
	case model.Stream:
		dict := c.copyDict(v.Dict)
		content := append([]byte(nil), v.Content...)
		return model.Stream{Dict: dict, Content: content}
	case nil:
		return model.Null{}
	default:
		return v.Clone()
	}
}

func (c *copier) copyDict(d model.Dict) model.Dict {
	out := model.NewDict()
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		out.Set(k, c.copyObject(v))
	}
	return out
}

// copyPageDict copies a leaf page's own dictionary and its transitive
// resource/content closure (Resources, Contents, Annots, and anything else
// the page dict names), excluding /Parent: the caller rewrites that to
// point at the destination's own page tree instead of pulling in the whole
// source tree through the back-pointer.
func copyPageDict(c *copier, src model.Resolver, selfRef model.Ref) (model.Dict, error) {
	d, ok, err := model.DictAt(src, selfRef)
	if err != nil {
		return model.Dict{}, err
	}
	if !ok {
		return model.NewDict(), nil
	}
	out := model.NewDict()
	for _, k := range d.Keys() {
		if k == "Parent" {
			continue
		}
		v, _ := d.Get(k)
		out.Set(k, c.copyObject(v))
	}
	return out, nil
}
