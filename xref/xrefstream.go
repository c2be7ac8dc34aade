package xref

import (
	"fmt"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/parser"
	"github.com/corepdf/corepdf/parser/filters"
	"github.com/corepdf/corepdf/tokenizer"
)

// parseXRefStream parses a cross-reference stream object at offset (7.5.8):
// its own dictionary doubles as the trailer, and its decoded content
// encodes one fixed-width record per object per the /W field widths.
func (t *Table) parseXRefStream(offset int64, trailerSeeded *bool) (int64, error) {
	tk := tokenizer.New(t.data[offset:])
	objNum, _, err := parser.ParseObjectHeader(&tk)
	if err != nil {
		return 0, fmt.Errorf("xref stream header: %w", err)
	}

	p := parser.FromTokenizer(&tk)
	obj, err := p.ParseObject()
	if err != nil {
		return 0, fmt.Errorf("xref stream dict: %w", err)
	}
	dict, ok := obj.(model.Dict)
	if !ok {
		return 0, fmt.Errorf("xref stream: expected dictionary, got %T", obj)
	}

	streamTk, err := tk.Next()
	if err != nil {
		return 0, err
	}
	if !streamTk.IsKeyword("stream") {
		return 0, fmt.Errorf("xref stream: expected \"stream\" keyword, got %q", streamTk.Value)
	}
	// A cross-reference stream's own /Length must be a direct integer
	// (7.5.8.2): the xref table doesn't exist yet to resolve an indirect one.
	length, lengthKnown := int64(0), false
	if v, ok := dict.Get("Length"); ok {
		if n, ok := v.(model.Integer); ok {
			length, lengthKnown = int64(n), true
		}
	}
	content, err := t.readStreamContent(offset, tk.Pos(), length, lengthKnown)
	if err != nil {
		return 0, err
	}

	xd, err := parseXRefStreamDict(dict)
	if err != nil {
		return 0, err
	}
	decoded := content
	if name, params, ok := singleFilterOf(dict); ok {
		decoded, err = filters.Decode(name, params, content)
		if err != nil {
			return 0, fmt.Errorf("xref stream: %w", err)
		}
	}

	if err := t.extractXRefStreamEntries(decoded, xd); err != nil {
		return 0, err
	}

	// The xref stream object itself is not looked up through the usual
	// object table (it's never referenced by anything but the trailer
	// chain), but recording its location lets callers resolve it directly
	// if needed (some producers duplicate catalog-adjacent data there).
	if _, exists := t.entries[objNum]; !exists {
		t.entries[objNum] = &entry{offset: offset}
	}

	return t.mergeTrailer(dict, trailerSeeded)
}

// singleFilterOf reads a stream dictionary's single, direct (non-indirect,
// per 7.5.8.2) /Filter + /DecodeParms pair. ok is false when no /Filter is
// present, meaning the stream content is already raw.
func singleFilterOf(d model.Dict) (filters.Name, filters.Params, bool) {
	v, ok := d.Get("Filter")
	if !ok {
		return "", filters.Params{}, false
	}
	name, ok := v.(model.Name)
	if !ok {
		return "", filters.Params{}, false
	}
	params := filters.Params{}
	if pv, ok := d.Get("DecodeParms"); ok {
		if pd, ok := pv.(model.Dict); ok {
			params = paramsFromDict(pd)
		}
	}
	return filters.Name(name), params, true
}

func paramsFromDict(d model.Dict) filters.Params {
	var p filters.Params
	if v, ok := d.Get("Predictor"); ok {
		if n, ok := v.(model.Integer); ok {
			p.Predictor = int(n)
		}
	}
	if v, ok := d.Get("Colors"); ok {
		if n, ok := v.(model.Integer); ok {
			p.Colors = int(n)
		}
	}
	if v, ok := d.Get("BitsPerComponent"); ok {
		if n, ok := v.(model.Integer); ok {
			p.BitsPerComponent = int(n)
		}
	}
	if v, ok := d.Get("Columns"); ok {
		if n, ok := v.(model.Integer); ok {
			p.Columns = int(n)
		}
	}
	if v, ok := d.Get("EarlyChange"); ok {
		if n, ok := v.(model.Integer); ok {
			p.EarlyChange = n != 0
			p.EarlyChangeSet = true
		}
	}
	return p
}

type xrefStreamDict struct {
	index [][2]int
	w     [3]int
	size  int
	prev  int64
}

func (x xrefStreamDict) count() int {
	total := 0
	for _, sub := range x.index {
		total += sub[1]
	}
	return total
}

func (x xrefStreamDict) entrySize() int { return x.w[0] + x.w[1] + x.w[2] }

func parseXRefStreamDict(d model.Dict) (xrefStreamDict, error) {
	var out xrefStreamDict

	if v, ok := d.Get("Prev"); ok {
		out.prev = offsetOf(v)
	}
	size, ok := d.Get("Size")
	sizeInt, isInt := size.(model.Integer)
	if !ok || !isInt {
		return out, fmt.Errorf("xref stream: missing /Size")
	}
	out.size = int(sizeInt)

	if idxObj, ok := d.Get("Index"); ok {
		arr, ok := idxObj.(model.Array)
		if !ok || len(arr)%2 != 0 {
			return out, fmt.Errorf("xref stream: corrupted /Index")
		}
		for i := 0; i < len(arr); i += 2 {
			start, ok1 := arr[i].(model.Integer)
			count, ok2 := arr[i+1].(model.Integer)
			if !ok1 || !ok2 {
				return out, fmt.Errorf("xref stream: corrupted /Index entry")
			}
			out.index = append(out.index, [2]int{int(start), int(count)})
		}
	} else {
		out.index = [][2]int{{0, out.size}}
	}

	wObj, ok := d.Get("W")
	wArr, isArr := wObj.(model.Array)
	if !ok || !isArr || len(wArr) < 3 {
		return out, fmt.Errorf("xref stream: missing or corrupted /W")
	}
	for i := 0; i < 3; i++ {
		n, ok := wArr[i].(model.Integer)
		if !ok || n < 0 {
			return out, fmt.Errorf("xref stream: corrupted /W entry %d", i)
		}
		out.w[i] = int(n)
	}
	return out, nil
}

func bufToInt64(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// extractXRefStreamEntries decodes one fixed-width record per entry (7.5.8.3,
// Table 17): a one-byte type field (width w[0], defaulting to type 1 if
// w[0]==0) followed by two fields of widths w[1] and w[2].
func (t *Table) extractXRefStreamEntries(decoded []byte, xd xrefStreamDict) error {
	recordLen, count := xd.entrySize(), xd.count()
	needed := recordLen * count
	if len(decoded) < needed {
		return fmt.Errorf("xref stream: decoded content too short (%d < %d)", len(decoded), needed)
	}

	i1, i2, i3 := xd.w[0], xd.w[1], xd.w[2]
	pos := 0
	for _, sub := range xd.index {
		firstObj, n := sub[0], sub[1]
		for i := 0; i < n; i++ {
			rec := decoded[pos*recordLen : (pos+1)*recordLen]
			objNum := uint32(firstObj + i)

			var typ byte = 1
			if i1 > 0 {
				typ = rec[0]
			}
			f2 := bufToInt64(rec[i1 : i1+i2])
			f3 := bufToInt64(rec[i1+i2 : i1+i2+i3])

			if _, exists := t.entries[objNum]; exists {
				pos++
				continue
			}
			switch typ {
			case 0:
				t.entries[objNum] = &entry{free: true, offset: f2, generation: uint16(f3)}
			case 1:
				t.entries[objNum] = &entry{offset: f2, generation: uint16(f3)}
			case 2:
				t.entries[objNum] = &entry{compressed: true, streamNumber: uint32(f2), streamIndex: int(f3)}
			}
			pos++
		}
	}
	return nil
}
