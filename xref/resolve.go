package xref

import (
	"fmt"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/parser"
	"github.com/corepdf/corepdf/pdferr"
	"github.com/corepdf/corepdf/tokenizer"
)

// Resolve satisfies model.Resolver: it materializes the object named by
// ref, checking the cache before seeking to the xref entry's location. A
// free slot or an out-of-range object number resolves to Null (7.3.10).
func (t *Table) Resolve(ref model.Ref) (model.Object, error) {
	return t.resolveDepth(ref, 0)
}

func (t *Table) resolveDepth(ref model.Ref, depth int) (model.Object, error) {
	if t.cfg.MaxRecursionDepth > 0 && depth > t.cfg.MaxRecursionDepth {
		return nil, pdferr.ForObject(pdferr.Limits, "resolve", int(ref.Number),
			fmt.Errorf("max recursion depth %d exceeded", t.cfg.MaxRecursionDepth))
	}
	if err := t.checkDeadline(-1); err != nil {
		return nil, err
	}
	if obj, ok := t.cache.get(ref); ok {
		return obj, nil
	}

	e, ok := t.entries[ref.Number]
	if !ok || e.free {
		t.cache.set(ref, model.Null{})
		return model.Null{}, nil
	}

	// Track the in-flight reference before recursing into the object body
	// so that a self-referential /Length or a cyclic compressed-object
	// chain terminates instead of looping forever.
	if t.resolving[ref] {
		return nil, pdferr.ForObject(pdferr.Reference, "resolve", int(ref.Number),
			fmt.Errorf("circular reference while resolving object %d", ref.Number))
	}
	if t.resolving == nil {
		t.resolving = map[model.Ref]bool{}
	}
	t.resolving[ref] = true
	defer delete(t.resolving, ref)

	var obj model.Object
	var err error
	if e.compressed {
		obj, err = t.resolveCompressed(e, depth)
	} else {
		obj, err = t.resolveInUse(ref, e, depth)
	}
	if err != nil {
		if t.cfg.Tolerant {
			t.warn(pdferr.Structure, e.offset, fmt.Sprintf("object %d: %s (resolved to null)", ref.Number, err.Error()))
			t.cache.set(ref, model.Null{})
			return model.Null{}, nil
		}
		return nil, err
	}
	t.cache.set(ref, obj)
	return obj, nil
}

func (t *Table) resolveInUse(ref model.Ref, e *entry, depth int) (model.Object, error) {
	if e.offset < 0 || e.offset >= int64(len(t.data)) {
		return nil, fmt.Errorf("offset %d out of bounds", e.offset)
	}
	tk := tokenizer.New(t.data[e.offset:])
	num, gen, err := parser.ParseObjectHeader(&tk)
	if err != nil {
		return nil, fmt.Errorf("object header: %w", err)
	}
	if num != ref.Number {
		return nil, fmt.Errorf("object header declares %d, xref points to %d", num, ref.Number)
	}
	_ = gen

	p := parser.FromTokenizer(&tk)
	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("object body: %w", err)
	}

	dict, isDict := obj.(model.Dict)
	if !isDict {
		return obj, nil
	}

	next, err := tk.Peek()
	if err != nil || !next.IsKeyword("stream") {
		return dict, nil
	}
	_, _ = tk.Next()

	length, lengthKnown := t.resolveLength(dict, depth)
	content, err := t.readStreamContent(e.offset, tk.Pos(), length, lengthKnown)
	if err != nil {
		// resolveDepth turns this into Null plus a warning in tolerant mode
		return nil, fmt.Errorf("stream content: %w", err)
	}
	return model.Stream{Dict: dict, Content: content}, nil
}

// resolveLength reads /Length, resolving it if it is an indirect reference
// (7.3.8.2 permits either a direct integer or a reference to one).
func (t *Table) resolveLength(d model.Dict, depth int) (int64, bool) {
	v, ok := d.Get("Length")
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case model.Integer:
		return int64(n), true
	case model.Ref:
		resolved, err := t.resolveDepth(n, depth+1)
		if err != nil {
			return 0, false
		}
		if i, ok := resolved.(model.Integer); ok {
			return int64(i), true
		}
	}
	return 0, false
}

func (t *Table) resolveCompressed(e *entry, depth int) (model.Object, error) {
	objs, err := t.objectStream(e.streamNumber, depth)
	if err != nil {
		return nil, err
	}
	if e.streamIndex < 0 || e.streamIndex >= len(objs) {
		return nil, fmt.Errorf("compressed object index %d out of range (stream %d has %d)", e.streamIndex, e.streamNumber, len(objs))
	}
	return objs[e.streamIndex], nil
}
