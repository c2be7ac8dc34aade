package writer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/contentstream"
	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/text"
	"github.com/corepdf/corepdf/writer"
	"github.com/corepdf/corepdf/xref"
)

// reopen writes doc, reads it back through the xref loader, and returns the
// table (satisfying model.Resolver) plus the raw bytes for inspection.
func reopen(t *testing.T, doc *author.Document, cfg writer.Config) (*xref.Table, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if err := writer.Write(doc, &buf, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tbl, err := xref.Load(buf.Bytes(), xref.DefaultConfig())
	if err != nil {
		t.Fatalf("xref.Load: %v\n--- output ---\n%s", err, buf.String())
	}
	return tbl, buf.Bytes()
}

// TestMinimalEmptyDocument round-trips one empty 612x792 page and expects
// an empty text extraction.
func TestMinimalEmptyDocument(t *testing.T) {
	doc := author.NewDocument()
	doc.AddPage(model.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792})

	tbl, _ := reopen(t, doc, writer.DefaultConfig())

	catalogObj, err := tbl.Resolve(tbl.Trailer.Root)
	if err != nil {
		t.Fatalf("resolve catalog: %v", err)
	}
	catalogDict := catalogObj.(model.Dict)
	catalog, err := model.ParseCatalog(catalogDict)
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	n, err := model.CountPages(tbl, catalog.Pages)
	if err != nil {
		t.Fatalf("CountPages: %v", err)
	}
	if n != 1 {
		t.Fatalf("page_count = %d, want 1", n)
	}

	page, err := model.GetPage(tbl, catalog.Pages, 0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if page.MediaBox.Width() != 612 || page.MediaBox.Height() != 792 {
		t.Fatalf("mediabox = %+v", page.MediaBox)
	}

	res, err := extractPageText(t, tbl, page)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Text != "" {
		t.Fatalf("expected empty text, got %q", res.Text)
	}
}

// TestTextRoundTrip checks authored text survives a save/reopen/extract
// round trip.
func TestTextRoundTrip(t *testing.T) {
	doc := author.NewDocument()
	page := doc.AddPage(model.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792})
	page.AddStandardFont("F1", "Helvetica")

	b := contentstream.NewBuilder()
	b.BeginText().SetFont("F1", 12).MoveText(100, 700).ShowText("Hello, World!").EndText()
	page.SetContent(b.Bytes())

	cfg := writer.DefaultConfig()
	cfg.CompressStreams = false
	tbl, _ := reopen(t, doc, cfg)

	catalogObj, _ := tbl.Resolve(tbl.Trailer.Root)
	catalog, _ := model.ParseCatalog(catalogObj.(model.Dict))
	pg, err := model.GetPage(tbl, catalog.Pages, 0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}

	res, err := extractPageText(t, tbl, pg)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(res.Text, "Hello, World!") {
		t.Fatalf("extracted text %q does not contain %q", res.Text, "Hello, World!")
	}
}

// TestXRefStreamRoundTrip exercises the PDF 1.5+ xref-stream writer path
// together with object-stream bundling.
func TestXRefStreamRoundTrip(t *testing.T) {
	doc := author.NewDocument()
	doc.AddPage(model.Rectangle{LLx: 0, LLy: 0, URx: 200, URy: 200})
	doc.AddPage(model.Rectangle{LLx: 0, LLy: 0, URx: 300, URy: 300})

	cfg := writer.DefaultConfig()
	cfg.UseXRefStreams = true
	cfg.ObjectStreams = true
	tbl, raw := reopen(t, doc, cfg)

	if !bytes.Contains(raw, []byte("/Type/XRef")) && !bytes.Contains(raw, []byte("/Type /XRef")) {
		t.Fatalf("expected an /XRef stream in output")
	}

	catalogObj, err := tbl.Resolve(tbl.Trailer.Root)
	if err != nil {
		t.Fatalf("resolve catalog: %v", err)
	}
	catalog, err := model.ParseCatalog(catalogObj.(model.Dict))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	n, err := model.CountPages(tbl, catalog.Pages)
	if err != nil {
		t.Fatalf("CountPages: %v", err)
	}
	if n != 2 {
		t.Fatalf("page_count = %d, want 2", n)
	}
}

func extractPageText(t *testing.T, tbl *xref.Table, page model.Page) (text.Result, error) {
	t.Helper()
	content, err := concatenatedContent(tbl, page)
	if err != nil {
		return text.Result{}, err
	}
	res := model.NewResources(tbl, page.Resources)
	return text.Extract(content, tbl, res, tbl.DecodedStream, text.Options{})
}

func concatenatedContent(tbl *xref.Table, page model.Page) ([]byte, error) {
	var out []byte
	for _, ref := range page.Contents {
		b, err := tbl.DecodedStream(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		out = append(out, '\n')
	}
	return out, nil
}
