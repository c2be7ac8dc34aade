package xref

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/parser"
	"github.com/corepdf/corepdf/pdferr"
	"github.com/corepdf/corepdf/tokenizer"
)

// Load builds a Table from a complete in-memory PDF file. It locates the
// last xref section via the trailing startxref/%%EOF, walks the classic
// table / xref stream / hybrid-file / Prev chain (7.5), and falls back to
// a linear byte scan (recovery mode) when Tolerant is set and the declared
// structure can't be followed.
func Load(data []byte, cfg Config) (*Table, error) {
	t := newTable(data, cfg)

	offset, err := findStartXref(data)
	if err != nil {
		if !cfg.Tolerant {
			return nil, pdferr.New(pdferr.Structure, "xref_load", err)
		}
		log.Printf("reading PDF: %s. trying to rebuild the xref by scanning", err)
		t.warn(pdferr.Structure, -1, "missing startxref, falling back to recovery scan: "+err.Error())
		if err := t.recoverByLinearScan(); err != nil {
			return nil, pdferr.New(pdferr.Structure, "xref_load", err)
		}
		return t, nil
	}

	if err := t.walkXRefChain(offset); err != nil {
		if !cfg.Tolerant {
			return nil, pdferr.At(pdferr.Structure, "xref_load", offset, err)
		}
		log.Printf("reading PDF: unusable xref chain (%s). trying to rebuild it by scanning", err)
		t.warn(pdferr.Structure, offset, "xref chain unusable, falling back to recovery scan: "+err.Error())
		t.entries = map[uint32]*entry{}
		if err := t.recoverByLinearScan(); err != nil {
			return nil, pdferr.New(pdferr.Structure, "xref_load", err)
		}
	}

	if t.Trailer.Root == (model.Ref{}) {
		if cfg.Tolerant {
			t.warn(pdferr.Structure, -1, "trailer missing /Root, attempting recovery scan")
			if err := t.recoverByLinearScan(); err != nil {
				return nil, pdferr.New(pdferr.Structure, "xref_load", err)
			}
		}
		if t.Trailer.Root == (model.Ref{}) {
			return nil, pdferr.New(pdferr.Structure, "xref_load", fmt.Errorf("no /Root found"))
		}
	}

	return t, nil
}

// findStartXref seeks from EOF backwards for "startxref <offset> %%EOF"
// (7.5.5), tolerating trailing bytes after %%EOF.
func findStartXref(data []byte) (int64, error) {
	const kw = "startxref"
	tail := data
	if len(tail) > 2048 {
		tail = tail[len(tail)-2048:]
	}
	idx := bytes.LastIndex(tail, []byte(kw))
	if idx == -1 {
		return 0, fmt.Errorf("no startxref keyword found near end of file")
	}
	rest := tail[idx+len(kw):]
	if eof := bytes.Index(rest, []byte("%%EOF")); eof != -1 {
		rest = rest[:eof]
	}
	offsetStr := strings.TrimSpace(string(rest))
	offset, err := strconv.ParseInt(offsetStr, 10, 64)
	if err != nil || offset < 0 || offset >= int64(len(data)) {
		return 0, fmt.Errorf("corrupted startxref offset %q", offsetStr)
	}
	return offset, nil
}

// walkXRefChain follows /Prev (and, for hybrid files, /XRefStm) starting
// at offset, merging entries and trailer fields from newest to oldest -
// first-encountered wins, matching incremental-update semantics (7.5.6).
func (t *Table) walkXRefChain(offset int64) error {
	seen := map[int64]bool{}
	trailerSeeded := false

	for offset != 0 {
		if err := t.checkDeadline(offset); err != nil {
			return err
		}
		if seen[offset] {
			// A repeated /Prev offset is a malformed loop; stop here with
			// whatever has been merged so far rather than spinning forever.
			return nil
		}
		seen[offset] = true

		if offset < 0 || offset >= int64(len(t.data)) {
			return fmt.Errorf("xref offset %d out of bounds", offset)
		}

		tk := tokenizer.New(t.data[offset:])
		start, err := tk.Peek()
		if err != nil {
			return err
		}

		var next int64
		if start.IsKeyword("xref") {
			_, _ = tk.Next()
			next, err = t.parseClassicSection(&tk, offset, &trailerSeeded)
		} else {
			next, err = t.parseXRefStream(offset, &trailerSeeded)
		}
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

// parseClassicSection parses one or more "N M\n<entries>" subsections
// followed by a trailer dictionary (7.5.4), returning the /Prev offset.
func (t *Table) parseClassicSection(tk *tokenizer.Tokenizer, base int64, trailerSeeded *bool) (int64, error) {
	for {
		if err := t.parseClassicSubsection(tk, base); err != nil {
			return 0, err
		}
		next, err := tk.Peek()
		if err != nil {
			return 0, err
		}
		if next.IsKeyword("trailer") {
			_, _ = tk.Next()
			break
		}
	}

	p := parser.FromTokenizer(tk)
	obj, err := p.ParseObject()
	if err != nil {
		return 0, err
	}
	trailerDict, ok := obj.(model.Dict)
	if !ok {
		return 0, fmt.Errorf("trailer: expected dictionary, got %T", obj)
	}
	return t.mergeTrailer(trailerDict, trailerSeeded)
}

func (t *Table) parseClassicSubsection(tk *tokenizer.Tokenizer, base int64) error {
	startTk, err := tk.Next()
	if err != nil {
		return err
	}
	start, err := startTk.Int()
	if startTk.Kind != tokenizer.Integer || err != nil {
		return fmt.Errorf("xref subsection: invalid start object number")
	}
	countTk, err := tk.Next()
	if err != nil {
		return err
	}
	count, err := countTk.Int()
	if countTk.Kind != tokenizer.Integer || err != nil {
		return fmt.Errorf("xref subsection: invalid count")
	}

	for i := 0; i < count; i++ {
		offsetTk, err := tk.Next()
		if err != nil {
			return err
		}
		off, err := strconv.ParseInt(offsetTk.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("xref entry: invalid offset %q", offsetTk.Value)
		}
		genTk, err := tk.Next()
		if err != nil {
			return err
		}
		gen, err := genTk.Int()
		if err != nil {
			return fmt.Errorf("xref entry: invalid generation")
		}
		kindTk, err := tk.Next()
		if err != nil {
			return err
		}
		if !kindTk.IsKeyword("n") && !kindTk.IsKeyword("f") {
			return fmt.Errorf("xref entry: expected 'n' or 'f', got %q", kindTk.Value)
		}
		objNum := uint32(start + i)
		if _, exists := t.entries[objNum]; exists {
			continue // a newer subsection already claimed this object number
		}
		if kindTk.Value == "f" {
			t.entries[objNum] = &entry{free: true, offset: off, generation: uint16(gen)}
			continue
		}
		if off == 0 {
			continue // malformed in-use entry with a zero offset: skip silently
		}
		_ = base
		t.entries[objNum] = &entry{offset: off, generation: uint16(gen)}
	}
	return nil
}

// mergeTrailer folds a trailer dictionary's fields into t.Trailer
// (first-encountered wins, since we walk newest-to-oldest) and returns the
// /Prev offset to continue the chain, first resolving any hybrid /XRefStm.
func (t *Table) mergeTrailer(d model.Dict, trailerSeeded *bool) (int64, error) {
	if !*trailerSeeded {
		if v, ok := d.Get("Size"); ok {
			if n, ok := v.(model.Integer); ok {
				t.Trailer.Size = int(n)
			}
		}
		if v, ok := d.Get("Root"); ok {
			if ref, ok := v.(model.Ref); ok {
				t.Trailer.Root = ref
			}
		}
		if v, ok := d.Get("Info"); ok {
			if ref, ok := v.(model.Ref); ok {
				t.Trailer.Info = ref
			}
		}
		if v, ok := d.Get("Encrypt"); ok {
			if ref, ok := v.(model.Ref); ok {
				t.Trailer.Encrypt = ref
			}
		}
		if v, ok := d.Get("ID"); ok {
			if arr, ok := v.(model.Array); ok {
				for i := 0; i < 2 && i < len(arr); i++ {
					if b, ok := model.Bytes(arr[i]); ok {
						t.Trailer.ID[i] = b
					}
				}
			}
		}
		*trailerSeeded = true
	}

	// 1.5+ readers process a hybrid file's hidden xref stream before
	// continuing to the previous classic section (7.5.8.4).
	if v, ok := d.Get("XRefStm"); ok {
		if n, ok := v.(model.Integer); ok {
			seeded := true // the main trailer already won; don't let the hybrid stream's trailer override it
			if _, err := t.parseXRefStream(int64(n), &seeded); err != nil {
				return 0, fmt.Errorf("hybrid /XRefStm at %d: %w", n, err)
			}
		}
	}

	if v, ok := d.Get("Prev"); ok {
		return offsetOf(v), nil
	}
	return 0, nil
}

func offsetOf(o model.Object) int64 {
	switch v := o.(type) {
	case model.Integer:
		return int64(v)
	case model.Ref:
		// some buggy producers emit "/Prev NNN 0 R" instead of "/Prev NNN"
		return int64(v.Number)
	default:
		return 0
	}
}
