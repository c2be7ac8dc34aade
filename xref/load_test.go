package xref

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/parser/filters"
)

// buildXRefStreamFile hand-assembles a PDF 1.5 file whose cross reference
// is a /W [1 2 1], Predictor-12 xref stream, with one font object bundled
// inside an /ObjStm.
func buildXRefStreamFile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	offsets := map[int]int{}
	obj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	buf.WriteString("%PDF-1.5\n")
	obj(1, "<</Type /Catalog /Pages 2 0 R>>")
	obj(2, "<</Type /Pages /Kids [3 0 R] /Count 1>>")
	obj(3, "<</Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources <</Font <</F1 5 0 R>>>>>>")

	// object stream 4 bundling object 5
	inner := "<</Type /Font /Subtype /Type1 /BaseFont /Helvetica>>"
	prolog := "5 0 "
	payload := prolog + inner
	obj(4, fmt.Sprintf("<</Type /ObjStm /N 1 /First %d /Length %d>>\nstream\n%s\nendstream",
		len(prolog), len(payload), payload))

	xrefOffset := buf.Len()
	offsets[6] = xrefOffset

	const rowWidth = 1 + 2 + 1
	raw := make([]byte, 0, 7*rowWidth)
	raw = append(raw, 0, 0, 0, 0xFF) // object 0: head of the free list
	for n := 1; n <= 4; n++ {
		off := offsets[n]
		raw = append(raw, 1, byte(off>>8), byte(off), 0)
	}
	raw = append(raw, 2, 0, 4, 0) // object 5: in stream 4, index 0
	raw = append(raw, 1, byte(xrefOffset>>8), byte(xrefOffset), 0)

	encoded, err := filters.Encode(filters.Flate, filters.Params{Predictor: 12, Columns: rowWidth}, raw)
	if err != nil {
		t.Fatalf("encode xref rows: %v", err)
	}

	fmt.Fprintf(&buf, "6 0 obj\n<</Type /XRef /Size 7 /W [1 2 1] "+
		"/Filter /FlateDecode /DecodeParms <</Predictor 12 /Columns %d>> "+
		"/Root 1 0 R /Length %d>>\nstream\n", rowWidth, len(encoded))
	buf.Write(encoded)
	buf.WriteString("\nendstream\nendobj\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)
	return buf.Bytes()
}

// TestXRefStreamWithPredictor loads a stream-form cross reference and
// resolves a compressed entry through its object-stream host.
func TestXRefStreamWithPredictor(t *testing.T) {
	data := buildXRefStreamFile(t)
	tbl, err := Load(data, DefaultConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Trailer.Size != 7 {
		t.Fatalf("trailer /Size = %d, want 7", tbl.Trailer.Size)
	}
	if len(tbl.entries) != 7 {
		t.Fatalf("got %d xref entries, want 7", len(tbl.entries))
	}

	var free, inUse, compressed int
	for _, e := range tbl.entries {
		switch {
		case e.free:
			free++
		case e.compressed:
			compressed++
		default:
			inUse++
		}
	}
	if free != 1 || compressed != 1 || inUse != 5 {
		t.Fatalf("entry mix = %d free / %d in-use / %d compressed", free, inUse, compressed)
	}

	// the compressed entry must resolve through its /ObjStm host
	obj, err := tbl.Resolve(model.Ref{Number: 5})
	if err != nil {
		t.Fatalf("resolve compressed object: %v", err)
	}
	d, ok := obj.(model.Dict)
	if !ok {
		t.Fatalf("object 5 is %T, want Dict", obj)
	}
	if base, _ := d.Get("BaseFont"); base != model.Name("Helvetica") {
		t.Fatalf("object 5 /BaseFont = %v", base)
	}

	n, err := model.CountPages(tbl, pagesRootOf(t, tbl))
	if err != nil {
		t.Fatalf("CountPages: %v", err)
	}
	if n != 1 {
		t.Fatalf("page_count = %d, want 1", n)
	}
}

func pagesRootOf(t *testing.T, tbl *Table) model.Ref {
	t.Helper()
	catalogObj, err := tbl.Resolve(tbl.Trailer.Root)
	if err != nil {
		t.Fatalf("resolve catalog: %v", err)
	}
	catalog, err := model.ParseCatalog(catalogObj.(model.Dict))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	return catalog.Pages
}

// truncatedFile is a document cut off right inside a stream body: no
// endstream, no xref, no trailer.
const truncatedFile = `%PDF-1.7
1 0 obj
<</Type /Catalog /Pages 2 0 R>>
endobj
2 0 obj
<</Type /Pages /Kids [3 0 R] /Count 1>>
endobj
3 0 obj
<</Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R>>
endobj
4 0 obj
<</Length 100>>
stream
BT /F1 12 Tf (Hel`

// TestTolerantRecoveryOfTruncatedStream opens a truncated file in
// tolerant mode and expects a usable page tree plus recorded warnings.
func TestTolerantRecoveryOfTruncatedStream(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRecoveryBytes = 5000
	cfg.CollectWarnings = true

	tbl, err := Load([]byte(truncatedFile), cfg)
	if err != nil {
		t.Fatalf("tolerant Load: %v", err)
	}
	n, err := model.CountPages(tbl, pagesRootOf(t, tbl))
	if err != nil {
		t.Fatalf("CountPages: %v", err)
	}
	if n != 1 {
		t.Fatalf("recovered page_count = %d, want 1", n)
	}

	// the truncated content stream resolves to Null with a warning rather
	// than failing the whole document
	obj, err := tbl.Resolve(model.Ref{Number: 4})
	if err != nil {
		t.Fatalf("resolve truncated stream: %v", err)
	}
	if _, ok := obj.(model.Null); !ok {
		t.Fatalf("object 4 = %T, want Null", obj)
	}
	if len(tbl.Warnings) == 0 {
		t.Fatal("expected at least one warning from tolerant recovery")
	}
}

func TestStrictModeRejectsTruncatedFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tolerant = false
	if _, err := Load([]byte(truncatedFile), cfg); err == nil {
		t.Fatal("strict mode must fail on a file with no trailer")
	}
}

func TestLRUCacheEvictsAndCounts(t *testing.T) {
	c := newLRUCache(2)
	r1, r2, r3 := model.Ref{Number: 1}, model.Ref{Number: 2}, model.Ref{Number: 3}
	c.set(r1, model.Integer(1))
	c.set(r2, model.Integer(2))
	if _, ok := c.get(r1); !ok {
		t.Fatal("r1 should be cached")
	}
	c.set(r3, model.Integer(3)) // evicts r2 (least recently used)
	if _, ok := c.get(r2); ok {
		t.Fatal("r2 should have been evicted")
	}
	if _, ok := c.get(r3); !ok {
		t.Fatal("r3 should be cached")
	}
	s := c.stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Fatalf("stats = %+v, want 2 hits / 1 miss", s)
	}
}
