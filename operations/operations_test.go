package operations_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/contentstream"
	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/operations"
	"github.com/corepdf/corepdf/text"
	"github.com/corepdf/corepdf/writer"
	"github.com/corepdf/corepdf/xref"
)

// buildDoc authors an n-page document, each page's content showing the
// corresponding label in texts, and returns the reopened table plus its
// catalog /Pages root.
func buildDoc(t *testing.T, texts []string) (*xref.Table, model.Ref) {
	t.Helper()
	doc := author.NewDocument()
	for _, label := range texts {
		page := doc.AddPage(model.Rectangle{LLx: 0, LLy: 0, URx: 200, URy: 200})
		page.AddStandardFont("F1", "Helvetica")
		b := contentstream.NewBuilder()
		b.BeginText().SetFont("F1", 12).MoveText(10, 100).ShowText(label).EndText()
		page.SetContent(b.Bytes())
	}

	var buf bytes.Buffer
	cfg := writer.DefaultConfig()
	cfg.CompressStreams = false
	if err := writer.Write(doc, &buf, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tbl, err := xref.Load(buf.Bytes(), xref.DefaultConfig())
	if err != nil {
		t.Fatalf("xref.Load: %v", err)
	}
	catalogObj, err := tbl.Resolve(tbl.Trailer.Root)
	if err != nil {
		t.Fatalf("resolve catalog: %v", err)
	}
	catalog, err := model.ParseCatalog(catalogObj.(model.Dict))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	return tbl, catalog.Pages
}

func pageText(t *testing.T, tbl *xref.Table, page model.Page) string {
	t.Helper()
	var content []byte
	for _, ref := range page.Contents {
		b, err := tbl.DecodedStream(ref)
		if err != nil {
			t.Fatalf("decode content: %v", err)
		}
		content = append(content, b...)
		content = append(content, '\n')
	}
	res := model.NewResources(tbl, page.Resources)
	result, err := text.Extract(content, tbl, res, tbl.DecodedStream, text.Options{})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return result.Text
}

func reopenAuthored(t *testing.T, doc *author.Document) (*xref.Table, model.Ref) {
	t.Helper()
	var buf bytes.Buffer
	if err := writer.Write(doc, &buf, writer.DefaultConfig()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tbl, err := xref.Load(buf.Bytes(), xref.DefaultConfig())
	if err != nil {
		t.Fatalf("xref.Load: %v\n%s", err, buf.String())
	}
	catalogObj, err := tbl.Resolve(tbl.Trailer.Root)
	if err != nil {
		t.Fatalf("resolve catalog: %v", err)
	}
	catalog, err := model.ParseCatalog(catalogObj.(model.Dict))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	return tbl, catalog.Pages
}

// TestMergePreservesPages merges a 3-page and a 2-page document and
// checks count, order and per-page text after a reopen.
func TestMergePreservesPages(t *testing.T) {
	tblA, pagesA := buildDoc(t, []string{"A1", "A2", "A3"})
	tblB, pagesB := buildDoc(t, []string{"B1", "B2"})

	merged, err := operations.Merge([]operations.MergeInput{
		{Source: tblA, Root: pagesA},
		{Source: tblB, Root: pagesB},
	}, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.PageCount() != 5 {
		t.Fatalf("page_count = %d, want 5", merged.PageCount())
	}

	tbl, pagesRootOut := reopenAuthored(t, merged)
	n, err := model.CountPages(tbl, pagesRootOut)
	if err != nil {
		t.Fatalf("CountPages: %v", err)
	}
	if n != 5 {
		t.Fatalf("reopened page_count = %d, want 5", n)
	}

	want := []string{"A1", "A2", "A3", "B1", "B2"}
	for i, label := range want {
		page, err := model.GetPage(tbl, pagesRootOut, i)
		if err != nil {
			t.Fatalf("GetPage(%d): %v", i, err)
		}
		if got := pageText(t, tbl, page); !strings.Contains(got, label) {
			t.Fatalf("page %d text = %q, want to contain %q", i, got, label)
		}
	}
}

// TestSplitSinglePages splits a 5-page document into single pages and
// checks each reopened output keeps its own text.
func TestSplitSinglePages(t *testing.T) {
	tbl, pagesRoot := buildDoc(t, []string{"P1", "P2", "P3", "P4", "P5"})

	docs, err := operations.Split(tbl, pagesRoot, model.DocumentInfo{}, operations.SplitOptions{Mode: operations.SplitSinglePages})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(docs) != 5 {
		t.Fatalf("got %d output documents, want 5", len(docs))
	}

	for i, d := range docs {
		if d.PageCount() != 1 {
			t.Fatalf("doc %d page_count = %d, want 1", i, d.PageCount())
		}
		rt, rootOut := reopenAuthored(t, d)
		n, err := model.CountPages(rt, rootOut)
		if err != nil {
			t.Fatalf("CountPages: %v", err)
		}
		if n != 1 {
			t.Fatalf("doc %d reopened page_count = %d, want 1", i, n)
		}
		page, err := model.GetPage(rt, rootOut, 0)
		if err != nil {
			t.Fatalf("GetPage: %v", err)
		}
		want := "P" + string(rune('1'+i))
		if got := pageText(t, rt, page); !strings.Contains(got, want) {
			t.Fatalf("doc %d text = %q, want to contain %q", i, got, want)
		}
	}
}

// TestRotateMetadata checks that /Rotate accumulates modulo 360 across
// two rotate-and-reopen passes.
func TestRotateMetadata(t *testing.T) {
	tbl, pagesRoot := buildDoc(t, []string{"R1"})

	rotated, err := operations.Rotate(tbl, pagesRoot, model.DocumentInfo{}, nil, 90)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	rt, rootOut := reopenAuthored(t, rotated)
	page, err := model.GetPage(rt, rootOut, 0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if page.Rotate != 90 {
		t.Fatalf("rotate = %d, want 90", page.Rotate)
	}

	rotatedAgain, err := operations.Rotate(rt, rootOut, model.DocumentInfo{}, nil, 270)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	rt2, rootOut2 := reopenAuthored(t, rotatedAgain)
	page2, err := model.GetPage(rt2, rootOut2, 0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if page2.Rotate != 0 {
		t.Fatalf("rotate = %d, want 0", page2.Rotate)
	}
}

// TestReorderDropsUnlisted checks that Reorder both permutes and drops.
func TestReorderDropsUnlisted(t *testing.T) {
	tbl, pagesRoot := buildDoc(t, []string{"X1", "X2", "X3"})

	reordered, err := operations.Reorder(tbl, pagesRoot, model.DocumentInfo{}, []int{2, 0})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if reordered.PageCount() != 2 {
		t.Fatalf("page_count = %d, want 2", reordered.PageCount())
	}
	rt, rootOut := reopenAuthored(t, reordered)
	first, _ := model.GetPage(rt, rootOut, 0)
	second, _ := model.GetPage(rt, rootOut, 1)
	if got := pageText(t, rt, first); !strings.Contains(got, "X3") {
		t.Fatalf("page 0 text = %q, want to contain X3", got)
	}
	if got := pageText(t, rt, second); !strings.Contains(got, "X1") {
		t.Fatalf("page 1 text = %q, want to contain X1", got)
	}
}
