package author

import (
	"time"

	"github.com/corepdf/corepdf/model"
)

// DocumentInfo mirrors the /Info dictionary's text fields (14.3.3).
type DocumentInfo struct {
	Title, Author, Subject, Keywords, Creator, Producer string
	CreationDate, ModDate                               time.Time
}

// Document is an authored (as opposed to parsed) PDF: a catalog, a page
// tree, and the Table every one of their indirect references lives in. It
// is what the writer package serializes, and what the operations package
// (split, merge, rotate, reorder) produces from a parsed source.
type Document struct {
	Table    *Table
	Root     model.Ref // catalog
	pagesRef model.Ref // /Pages tree root
	Info     DocumentInfo
	ID       [2][]byte // optional; Write seeds one from content if both are nil
	leaves   []model.Ref
}

// NewDocument starts an empty authored document: an empty /Pages root and
// a /Catalog pointing to it, with no pages yet.
func NewDocument() *Document {
	t := NewTable()

	pages := model.NewDict()
	pages.Set("Type", model.Name("Pages"))
	pages.Set("Kids", model.Array{})
	pages.Set("Count", model.Integer(0))
	pagesRef := t.Add(pages)

	catalog := model.NewDict()
	catalog.Set("Type", model.Name("Catalog"))
	catalog.Set("Pages", pagesRef)
	root := t.Add(catalog)

	return &Document{Table: t, Root: root, pagesRef: pagesRef}
}

// PagesRef returns the /Pages tree root reference, for operations code
// that needs to graft in pre-built leaf subtrees directly.
func (d *Document) PagesRef() model.Ref { return d.pagesRef }

// PageCount returns the number of leaf pages added so far.
func (d *Document) PageCount() int { return len(d.leaves) }

// PageRefs returns every leaf page reference, in document order.
func (d *Document) PageRefs() []model.Ref { return append([]model.Ref(nil), d.leaves...) }

// Page wraps an already-allocated leaf reference (typically one AddLeaf just
// grafted in) for further mutation through the Page methods below.
func (d *Document) Page(ref model.Ref) *Page { return &Page{doc: d, Ref: ref} }

// Page is a handle to one leaf /Page node under construction.
type Page struct {
	doc *Document
	Ref model.Ref
}

func rectArray(r model.Rectangle) model.Array {
	return model.Array{model.Real(r.LLx), model.Real(r.LLy), model.Real(r.URx), model.Real(r.URy)}
}

// AddPage appends a new page of the given size to the end of the document,
// with empty resources and no content yet.
func (d *Document) AddPage(mediaBox model.Rectangle) *Page {
	dict := model.NewDict()
	dict.Set("Type", model.Name("Page"))
	dict.Set("Parent", d.pagesRef)
	dict.Set("MediaBox", rectArray(mediaBox))
	dict.Set("Resources", model.NewDict())
	ref := d.Table.Add(dict)

	d.Table.MutateDict(d.pagesRef, func(p *model.Dict) {
		kidsObj, _ := p.Get("Kids")
		kids, _ := kidsObj.(model.Array)
		kids = append(kids, ref)
		p.Set("Kids", kids)

		countObj, _ := p.Get("Count")
		n, _ := countObj.(model.Integer)
		p.Set("Count", n+1)
	})

	d.leaves = append(d.leaves, ref)
	return &Page{doc: d, Ref: ref}
}

// AddLeaf grafts an already-built leaf /Page object (typically copied from
// a parsed source by the operations package, with its /Parent already
// pointing at d.pagesRef) onto the end of the page tree.
func (d *Document) AddLeaf(ref model.Ref) {
	d.Table.MutateDict(d.pagesRef, func(p *model.Dict) {
		kidsObj, _ := p.Get("Kids")
		kids, _ := kidsObj.(model.Array)
		kids = append(kids, ref)
		p.Set("Kids", kids)

		countObj, _ := p.Get("Count")
		n, _ := countObj.(model.Integer)
		p.Set("Count", n+1)
	})
	d.leaves = append(d.leaves, ref)
}

func normalizeRotate(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

// SetRotate rewrites /Rotate to deg, normalized to [0, 360).
func (p *Page) SetRotate(deg int) {
	p.doc.Table.MutateDict(p.Ref, func(d *model.Dict) {
		d.Set("Rotate", model.Integer(normalizeRotate(deg)))
	})
}

// SetCropBox sets /CropBox, overriding the inherited /MediaBox for display.
func (p *Page) SetCropBox(box model.Rectangle) {
	p.doc.Table.MutateDict(p.Ref, func(d *model.Dict) {
		d.Set("CropBox", rectArray(box))
	})
}

// SetContent replaces this page's /Contents with a single freshly-authored
// stream carrying raw (not yet filter-encoded) bytes. The writer decides
// at serialization time whether to FlateDecode it.
func (p *Page) SetContent(content []byte) {
	ref := p.doc.Table.Add(model.Stream{Dict: model.NewDict(), Content: content})
	p.doc.Table.MutateDict(p.Ref, func(d *model.Dict) {
		d.Set("Contents", ref)
	})
}

// AddContent appends another content stream, turning a single-stream
// /Contents into an array as needed (7.7.3.3: /Contents may be a stream or
// an array of streams, concatenated in array order).
func (p *Page) AddContent(content []byte) {
	ref := p.doc.Table.Add(model.Stream{Dict: model.NewDict(), Content: content})
	p.doc.Table.MutateDict(p.Ref, func(d *model.Dict) {
		existing, ok := d.Get("Contents")
		if !ok {
			d.Set("Contents", ref)
			return
		}
		switch e := existing.(type) {
		case model.Array:
			d.Set("Contents", append(e, ref))
		case model.Ref:
			d.Set("Contents", model.Array{e, ref})
		default:
			d.Set("Contents", ref)
		}
	})
}

// AddStandardFont registers one of the 14 standard fonts (9.6.2.2) under
// resourceName in this page's /Resources /Font dictionary, returning the
// reference a content stream built with contentstream.Builder.SetFont can
// select via the same resourceName.
func (p *Page) AddStandardFont(resourceName model.Name, baseFont model.Name) model.Ref {
	fontDict := model.NewDict()
	fontDict.Set("Type", model.Name("Font"))
	fontDict.Set("Subtype", model.Name("Type1"))
	fontDict.Set("BaseFont", baseFont)
	fontDict.Set("Encoding", model.Name(model.EncodingWinAnsi))
	ref := p.doc.Table.Add(fontDict)

	p.doc.Table.MutateDict(p.Ref, func(d *model.Dict) {
		resObj, _ := d.Get("Resources")
		res, _ := resObj.(model.Dict)

		fontsObj, hasFonts := res.Get("Font")
		fonts, _ := fontsObj.(model.Dict)
		if !hasFonts {
			fonts = model.NewDict()
		}
		fonts.Set(resourceName, ref)
		res.Set("Font", fonts)
		d.Set("Resources", res)
	})
	return ref
}

// SetResources replaces this page's entire /Resources dictionary, for
// callers (the operations package) that already built a complete merged
// resource dictionary elsewhere.
func (p *Page) SetResources(res model.Dict) {
	p.doc.Table.MutateDict(p.Ref, func(d *model.Dict) {
		d.Set("Resources", res)
	})
}

// AddAnnotation appends annot as a freshly allocated indirect object in
// this page's /Annots array (7.7.3.3 Table 28: /Annots is an indirect-
// reference array).
func (p *Page) AddAnnotation(annot model.Dict) model.Ref {
	ref := p.doc.Table.Add(annot)
	p.doc.Table.MutateDict(p.Ref, func(d *model.Dict) {
		existing, _ := d.Get("Annots")
		arr, _ := existing.(model.Array)
		d.Set("Annots", append(arr, ref))
	})
	return ref
}
