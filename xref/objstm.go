package xref

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/parser"
	"github.com/corepdf/corepdf/parser/filters"
)

// objectStream resolves and caches the parsed contents of an /ObjStm
// (7.5.7): N objects packed into one stream, preceded by a prolog of
// object-number/offset pairs.
func (t *Table) objectStream(streamNumber uint32, depth int) ([]model.Object, error) {
	if objs, ok := t.objectStreams[streamNumber]; ok {
		return objs, nil
	}

	obj, err := t.resolveDepth(model.Ref{Number: streamNumber}, depth+1)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", streamNumber, err)
	}
	stream, ok := obj.(model.Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d: object is not a stream (%T)", streamNumber, obj)
	}

	decoded, err := t.decodeStreamFilters(stream, depth)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", streamNumber, err)
	}

	n, ok := intEntry(stream.Dict, "N")
	if !ok {
		return nil, fmt.Errorf("object stream %d: missing /N", streamNumber)
	}
	first, ok := intEntry(stream.Dict, "First")
	if !ok {
		return nil, fmt.Errorf("object stream %d: missing /First", streamNumber)
	}
	if first > len(decoded) {
		return nil, fmt.Errorf("object stream %d: /First %d beyond decoded length %d", streamNumber, first, len(decoded))
	}

	prolog := bytes.ReplaceAll(decoded[:first], []byte{0}, []byte{' '})
	fields := bytes.Fields(prolog)
	if len(fields) < 2*n {
		return nil, fmt.Errorf("object stream %d: prolog too short for %d objects", streamNumber, n)
	}

	offsets := make([]int, n)
	for i := 0; i < n; i++ {
		off, err := strconv.Atoi(string(fields[2*i+1]))
		if err != nil {
			return nil, fmt.Errorf("object stream %d: invalid offset field %q", streamNumber, fields[2*i+1])
		}
		offsets[i] = first + off
		if offsets[i] > len(decoded) {
			return nil, fmt.Errorf("object stream %d: offset %d beyond decoded length", streamNumber, offsets[i])
		}
	}

	objs := make([]model.Object, n)
	for i := range objs {
		end := len(decoded)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		o, err := parser.New(decoded[offsets[i]:end]).ParseObject()
		if err != nil {
			return nil, fmt.Errorf("object stream %d: entry %d: %w", streamNumber, i, err)
		}
		objs[i] = o
	}

	t.objectStreams[streamNumber] = objs
	return objs, nil
}

func intEntry(d model.Dict, key model.Name) (int, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(model.Integer)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// decodeStreamFilters applies a stream's full /Filter chain, resolving any
// indirect /Filter, /DecodeParms, or per-parameter entries through the
// table (filters on compressed-object-bearing streams are always direct
// per 7.5.7, but general content streams may use indirect ones).
func (t *Table) decodeStreamFilters(s model.Stream, depth int) ([]byte, error) {
	filterObj, hasFilter := s.Dict.Get("Filter")
	if !hasFilter {
		return s.Content, nil
	}
	resolved, err := t.resolveObjDepth(filterObj, depth)
	if err != nil {
		return nil, err
	}

	var names []filters.Name
	switch v := resolved.(type) {
	case model.Name:
		names = []filters.Name{filters.Name(v)}
	case model.Array:
		for _, o := range v {
			ro, err := t.resolveObjDepth(o, depth)
			if err != nil {
				return nil, err
			}
			n, ok := ro.(model.Name)
			if !ok {
				return nil, fmt.Errorf("stream /Filter array entry is %T, not a name", ro)
			}
			names = append(names, filters.Name(n))
		}
	default:
		return nil, fmt.Errorf("stream /Filter is %T, not a name or array", resolved)
	}

	parmsObj, _ := s.Dict.Get("DecodeParms")
	parmsObj, err = t.resolveObjDepth(parmsObj, depth)
	if err != nil {
		return nil, err
	}
	var params []filters.Params
	switch v := parmsObj.(type) {
	case model.Dict:
		params = []filters.Params{paramsFromDict(v)}
	case model.Array:
		for _, o := range v {
			ro, err := t.resolveObjDepth(o, depth)
			if err != nil {
				return nil, err
			}
			if pd, ok := ro.(model.Dict); ok {
				params = append(params, paramsFromDict(pd))
			} else {
				params = append(params, filters.Params{})
			}
		}
	}

	return filters.Chain(names, params, s.Content)
}

// resolveObjDepth follows o if it is a Ref, through this table, bounding
// recursion the same way object resolution does.
func (t *Table) resolveObjDepth(o model.Object, depth int) (model.Object, error) {
	if o == nil {
		return model.Null{}, nil
	}
	ref, ok := o.(model.Ref)
	if !ok {
		return o, nil
	}
	return t.resolveDepth(ref, depth+1)
}
