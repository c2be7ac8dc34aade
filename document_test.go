package corepdf_test

import (
	"bytes"
	"strings"
	"testing"

	corepdf "github.com/corepdf/corepdf"
	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/operations"
	"github.com/corepdf/corepdf/text"
)

func TestOpenSaveRoundTrip(t *testing.T) {
	doc := corepdf.NewAuthoredDocument()
	page := doc.AddPage(model.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792})
	page.AddStandardFont("F1", "Helvetica")

	b := corepdf.ContentBuilder()
	b.BeginText().SetFont("F1", 12).MoveText(72, 720).ShowText("Hello, World!").EndText()
	page.SetContent(b.Bytes())
	page.AddAnnotation(annotationDict("Text", "a note"))

	doc.Info.Title = "Sample"

	var buf bytes.Buffer
	cfg := corepdf.DefaultWriterConfig()
	cfg.CompressStreams = false
	if err := corepdf.Save(doc, &buf, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	opened, err := corepdf.Open(buf.Bytes(), corepdf.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	n, err := opened.PageCount()
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("page_count = %d, want 1", n)
	}

	p, err := opened.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if p.MediaBox.Width() != 612 || p.MediaBox.Height() != 792 {
		t.Fatalf("mediabox = %+v", p.MediaBox)
	}

	meta, err := opened.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.Title != "Sample" {
		t.Fatalf("title = %q, want %q", meta.Title, "Sample")
	}

	res, err := opened.ExtractText(0, text.Options{})
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(res.Text, "Hello, World!") {
		t.Fatalf("text = %q", res.Text)
	}

	annots, err := opened.GetAllAnnotations()
	if err != nil {
		t.Fatalf("GetAllAnnotations: %v", err)
	}
	if len(annots) != 1 {
		t.Fatalf("got %d annotations, want 1", len(annots))
	}
	if annots[0].PageIndex != 0 {
		t.Fatalf("annotation page index = %d, want 0", annots[0].PageIndex)
	}
}

func TestFacadeMergeAndSplit(t *testing.T) {
	a := corepdf.NewAuthoredDocument()
	addLabeledPage(a, "A1")
	addLabeledPage(a, "A2")

	bDoc := corepdf.NewAuthoredDocument()
	addLabeledPage(bDoc, "B1")

	var bufA, bufB bytes.Buffer
	if err := corepdf.Save(a, &bufA, corepdf.DefaultWriterConfig()); err != nil {
		t.Fatalf("Save A: %v", err)
	}
	if err := corepdf.Save(bDoc, &bufB, corepdf.DefaultWriterConfig()); err != nil {
		t.Fatalf("Save B: %v", err)
	}

	openedA, err := corepdf.Open(bufA.Bytes(), corepdf.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Open A: %v", err)
	}
	openedB, err := corepdf.Open(bufB.Bytes(), corepdf.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Open B: %v", err)
	}

	merged, err := corepdf.Merge([]corepdf.MergeInput{{Document: openedA}, {Document: openedB}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.PageCount() != 3 {
		t.Fatalf("merged page_count = %d, want 3", merged.PageCount())
	}

	var mergedBuf bytes.Buffer
	if err := corepdf.Save(merged, &mergedBuf, corepdf.DefaultWriterConfig()); err != nil {
		t.Fatalf("Save merged: %v", err)
	}
	openedMerged, err := corepdf.Open(mergedBuf.Bytes(), corepdf.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Open merged: %v", err)
	}

	docs, err := openedMerged.Split(operations.SplitOptions{Mode: operations.SplitSinglePages})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d split documents, want 3", len(docs))
	}
}

func addLabeledPage(doc *author.Document, label string) {
	page := doc.AddPage(model.Rectangle{LLx: 0, LLy: 0, URx: 200, URy: 200})
	page.AddStandardFont("F1", "Helvetica")
	b := corepdf.ContentBuilder()
	b.BeginText().SetFont("F1", 12).MoveText(10, 100).ShowText(label).EndText()
	page.SetContent(b.Bytes())
}

func annotationDict(subtype model.Name, contents string) model.Dict {
	d := model.NewDict()
	d.Set("Type", model.Name("Annot"))
	d.Set("Subtype", subtype)
	d.Set("Rect", model.Array{model.Real(0), model.Real(0), model.Real(10), model.Real(10)})
	d.Set("Contents", model.StringLiteral(contents))
	return d
}
