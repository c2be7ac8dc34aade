// Package corepdf is the public entry point of the engine: open a
// document, read its pages and metadata, extract text, enumerate
// annotations, save an authored copy, and run the four document-to-document
// operations. It is a thin facade gluing xref (the reader), model (the
// object graph), text (extraction), author/writer (authoring and
// serialization) and operations (split/merge/rotate/reorder) behind one
// import path.
package corepdf

import (
	"io"

	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/contentstream"
	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/operations"
	"github.com/corepdf/corepdf/text"
	"github.com/corepdf/corepdf/writer"
	"github.com/corepdf/corepdf/xref"
)

// ParseOptions controls how Open loads a document; it is xref.Config by
// another name at the package boundary, kept distinct so callers of this
// package never need to import xref directly.
type ParseOptions = xref.Config

// DefaultParseOptions enables tolerant parsing with the default limits.
func DefaultParseOptions() ParseOptions { return xref.DefaultConfig() }

// WriterConfig controls Document.Save.
type WriterConfig = writer.Config

// DefaultWriterConfig favors maximal compatibility.
func DefaultWriterConfig() WriterConfig { return writer.DefaultConfig() }

// Metadata mirrors the /Info dictionary's text fields.
type Metadata = model.DocumentInfo

// Document is an opened, parsed PDF: a loaded cross-reference table plus
// its catalog, ready for page access, text extraction, and operations.
type Document struct {
	table      *xref.Table
	catalog    model.Catalog
	encryption *model.EncryptionInfo // nil when the trailer has no /Encrypt
}

// Open loads data as a complete PDF file: locating its trailer/xref chain, recovering via linear
// scan in tolerant mode if needed, and resolving the catalog.
func Open(data []byte, opts ParseOptions) (*Document, error) {
	tbl, err := xref.Load(data, opts)
	if err != nil {
		return nil, err
	}
	catalogObj, err := tbl.Resolve(tbl.Trailer.Root)
	if err != nil {
		return nil, err
	}
	catalogDict, ok := catalogObj.(model.Dict)
	if !ok {
		return nil, &pdfStructureError{"catalog object is not a dictionary"}
	}
	catalog, err := model.ParseCatalog(catalogDict)
	if err != nil {
		return nil, err
	}
	doc := &Document{table: tbl, catalog: catalog}

	// Surface the encryption dictionary and identify the algorithm;
	// applying the cipher is a separate subsystem, so streams of an
	// encrypted document stay opaque until a future unlock step.
	if tbl.Trailer.Encrypt != (model.Ref{}) {
		encDict, ok, err := model.DictAt(tbl, tbl.Trailer.Encrypt)
		if err == nil && ok {
			if info, err := model.ParseEncryptionInfo(tbl, encDict); err == nil {
				doc.encryption = &info
			}
		}
	}
	return doc, nil
}

// Encryption identifies the document's /Encrypt algorithm, or nil for an
// unencrypted document. Only identification is surfaced; payloads stay
// opaque until a separate unlock step supplies a key.
func (d *Document) Encryption() *model.EncryptionInfo { return d.encryption }

type pdfStructureError struct{ msg string }

func (e *pdfStructureError) Error() string { return e.msg }

// Warnings returns the non-fatal recoveries collect_warnings accumulated
// while loading d, if ParseOptions.CollectWarnings was set.
func (d *Document) Warnings() []string {
	out := make([]string, len(d.table.Warnings))
	for i, w := range d.table.Warnings {
		out[i] = w.String()
	}
	return out
}

// Resolver exposes the underlying object resolver, for callers that need to
// navigate the object graph directly (building a Resources view, etc.).
func (d *Document) Resolver() model.Resolver { return d.table }

// PagesRoot returns the catalog's /Pages reference, the root operations.*
// functions expect.
func (d *Document) PagesRoot() model.Ref { return d.catalog.Pages }

// PageCount returns the number of leaf pages in the document.
func (d *Document) PageCount() (int, error) {
	return model.CountPages(d.table, d.catalog.Pages)
}

// Page returns the 0-based index-th leaf page, with inheritance resolved.
func (d *Document) Page(index int) (model.Page, error) {
	return model.GetPage(d.table, d.catalog.Pages, index)
}

// Metadata reads the document's /Info dictionary.
func (d *Document) Metadata() (Metadata, error) {
	return model.ParseDocumentInfo(d.table, d.table.Trailer.Info)
}

// ExtractText extracts the text of the page at index.
func (d *Document) ExtractText(index int, opts text.Options) (text.Result, error) {
	page, err := d.Page(index)
	if err != nil {
		return text.Result{}, err
	}
	content, err := d.pageContent(page)
	if err != nil {
		return text.Result{}, err
	}
	res := model.NewResources(d.table, page.Resources)
	return text.Extract(content, d.table, res, d.streamBytes, opts)
}

func (d *Document) pageContent(page model.Page) ([]byte, error) {
	var out []byte
	for _, ref := range page.Contents {
		b, err := d.streamBytes(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		out = append(out, '\n')
	}
	return out, nil
}

func (d *Document) streamBytes(ref model.Ref) ([]byte, error) {
	return d.table.DecodedStream(ref)
}

// Annotation pairs a page index with one of its resolved /Annots
// dictionaries.
type Annotation struct {
	PageIndex int
	Dict      model.Dict
}

// GetAllAnnotations enumerates every page's /Annots entries, in page then
// array order.
func (d *Document) GetAllAnnotations() ([]Annotation, error) {
	pages, err := model.CollectPages(d.table, d.catalog.Pages)
	if err != nil {
		return nil, err
	}
	var out []Annotation
	for i, p := range pages {
		for _, a := range p.Annots {
			dict, ok, err := model.DictAt(d.table, a)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, Annotation{PageIndex: i, Dict: dict})
		}
	}
	return out, nil
}

// Save writes an authored document to dst.
func Save(doc *author.Document, dst io.Writer, cfg WriterConfig) error {
	return writer.Write(doc, dst, cfg)
}

// Save re-authors d's pages into a fresh object table and serializes the
// result to dst. Parsed objects are never written in place: the copy is
// what guarantees freshly contiguous object numbers and a consistent xref.
func (d *Document) Save(dst io.Writer, cfg WriterConfig) error {
	info, err := d.Metadata()
	if err != nil {
		return err
	}
	n, err := d.PageCount()
	if err != nil {
		return err
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	doc, err := operations.Reorder(d.table, d.catalog.Pages, info, order)
	if err != nil {
		return err
	}
	doc.ID = d.table.Trailer.ID
	return writer.Write(doc, dst, cfg)
}

// NewAuthoredDocument starts an empty document for programmatic authoring,
// re-exported from the author package so callers only need this package's
// import for the common build-then-save path.
func NewAuthoredDocument() *author.Document { return author.NewDocument() }

// ContentBuilder re-exports contentstream.NewBuilder for the same reason.
func ContentBuilder() *contentstream.Builder { return contentstream.NewBuilder() }

// Split partitions d's pages per opts into freshly authored documents.
func (d *Document) Split(opts operations.SplitOptions) ([]*author.Document, error) {
	info, err := d.Metadata()
	if err != nil {
		return nil, err
	}
	return operations.Split(d.table, d.catalog.Pages, info, opts)
}

// Rotate rewrites the selected pages' /Rotate by degrees, returning a new
// authored document. A nil pageIndices rotates every page.
func (d *Document) Rotate(pageIndices []int, degrees int) (*author.Document, error) {
	info, err := d.Metadata()
	if err != nil {
		return nil, err
	}
	return operations.Rotate(d.table, d.catalog.Pages, info, pageIndices, degrees)
}

// Reorder permutes (and optionally drops) d's pages per order, returning a
// new authored document.
func (d *Document) Reorder(order []int) (*author.Document, error) {
	info, err := d.Metadata()
	if err != nil {
		return nil, err
	}
	return operations.Reorder(d.table, d.catalog.Pages, info, order)
}

// MergeInput names one opened document and, optionally, the subset of its
// pages to include (nil means all pages).
type MergeInput struct {
	Document *Document
	Pages    []int
}

// Merge concatenates the selected pages of each input, in order, into one
// authored document. The first input whose metadata is not empty supplies
// the merged document's metadata.
func Merge(inputs []MergeInput) (*author.Document, error) {
	opInputs := make([]operations.MergeInput, len(inputs))
	infos := make([]model.DocumentInfo, len(inputs))
	for i, in := range inputs {
		opInputs[i] = operations.MergeInput{Source: in.Document.table, Root: in.Document.catalog.Pages, Pages: in.Pages}
		info, err := in.Document.Metadata()
		if err != nil {
			return nil, err
		}
		infos[i] = info
	}
	return operations.Merge(opInputs, infos)
}
