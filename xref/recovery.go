package xref

import (
	"bytes"
	"fmt"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/parser"
	"github.com/corepdf/corepdf/tokenizer"
)

// recoverByLinearScan reconstructs an xref table from scratch by scanning
// the whole file for "<n> <g> obj" headers. It is the fallback for a
// missing startxref, an unusable declared xref chain, or a trailer with no
// /Root.
//
// A later occurrence of the same object number wins, matching how a real
// incremental-update file's later object definitions supersede earlier
// ones even without a working xref to say so.
func (t *Table) recoverByLinearScan() error {
	t.entries = map[uint32]*entry{}

	for offset := 0; offset < len(t.data); offset++ {
		if offset&0xFFFF == 0 {
			if err := t.checkDeadline(int64(offset)); err != nil {
				return err
			}
		}
		if t.data[offset] != 'o' {
			continue
		}
		if !bytes.HasPrefix(t.data[offset:], []byte("obj")) {
			continue
		}
		num, gen, headerStart, ok := backScanObjectHeader(t.data, offset)
		if !ok {
			continue
		}
		t.entries[num] = &entry{offset: int64(headerStart), generation: gen}
	}

	if err := t.recoverTrailer(); err != nil {
		return err
	}
	return nil
}

// backScanObjectHeader looks immediately before an "obj" keyword found at
// objKeywordOffset for "<digits> <digits>" and returns the object number,
// generation, and the byte offset where that header begins.
func backScanObjectHeader(data []byte, objKeywordOffset int) (num uint32, gen uint16, headerStart int, ok bool) {
	p := objKeywordOffset
	p = skipWhitespaceBack(data, p)
	genEnd := p
	p = skipDigitsBack(data, p)
	genStart := p
	if genStart == genEnd {
		return 0, 0, 0, false
	}
	p = skipWhitespaceBack(data, p)
	numEnd := p
	p = skipDigitsBack(data, p)
	numStart := p
	if numStart == numEnd {
		return 0, 0, 0, false
	}

	var n, g int64
	if _, err := fmt.Sscanf(string(data[numStart:numEnd]), "%d", &n); err != nil {
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(string(data[genStart:genEnd]), "%d", &g); err != nil {
		return 0, 0, 0, false
	}
	return uint32(n), uint16(g), numStart, true
}

func skipWhitespaceBack(data []byte, p int) int {
	for p > 0 && isWhitespaceByte(data[p-1]) {
		p--
	}
	return p
}

func isWhitespaceByte(ch byte) bool {
	switch ch {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	default:
		return false
	}
}

func skipDigitsBack(data []byte, p int) int {
	for p > 0 && data[p-1] >= '0' && data[p-1] <= '9' {
		p--
	}
	return p
}

// recoverTrailer finds the last "trailer" dictionary in the file, if any,
// for /Root/Size/Info/ID; failing that, it scans recovered objects for a
// /Type /Catalog dictionary to use as /Root.
func (t *Table) recoverTrailer() error {
	if idx := bytes.LastIndex(t.data, []byte("trailer")); idx != -1 {
		tk := tokenizer.New(t.data[idx+len("trailer"):])
		p := parser.FromTokenizer(&tk)
		if obj, err := p.ParseObject(); err == nil {
			if d, ok := obj.(model.Dict); ok {
				seeded := false
				if _, err := t.mergeTrailer(d, &seeded); err == nil && t.Trailer.Root != (model.Ref{}) {
					return nil
				}
			}
		}
	}

	for num, e := range t.entries {
		if e.free || e.compressed {
			continue
		}
		obj, err := t.resolveInUse(model.Ref{Number: num}, e, 0)
		if err != nil {
			continue
		}
		d, ok := obj.(model.Dict)
		if !ok {
			continue
		}
		if typ, ok := d.Get("Type"); ok {
			if n, ok := typ.(model.Name); ok && n == "Catalog" {
				t.Trailer.Root = model.Ref{Number: num, Generation: e.generation}
				if t.Trailer.Size == 0 {
					t.Trailer.Size = maxObjNum(t.entries) + 1
				}
				return nil
			}
		}
	}
	return fmt.Errorf("recovery scan: no /Root found among %d recovered objects", len(t.entries))
}

func maxObjNum(entries map[uint32]*entry) int {
	max := 0
	for n := range entries {
		if int(n) > max {
			max = int(n)
		}
	}
	return max
}
