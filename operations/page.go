package operations

import (
	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/model"
)

// copyPageInto deep-copies one source leaf page (and its transitive
// resource/content closure) as a new leaf grafted onto doc's page tree,
// applying rotate as an additional normalized /Rotate delta on top of
// whatever the source page already carried.
//
// Attributes the source leaf inherited from a /Pages ancestor (MediaBox,
// Resources, Rotate, CropBox) are materialized onto the copied leaf: the
// destination tree has a fresh, attribute-less /Pages root, so inherited
// values would otherwise be lost in the copy.
func copyPageInto(doc *author.Document, src model.Resolver, page model.Page, rotateDelta int) (model.Ref, error) {
	c := newCopier(src, doc.Table)
	dict, err := copyPageDict(c, src, page.Self)
	if err != nil {
		return model.Ref{}, err
	}
	dict.Set("Type", model.Name("Page"))
	dict.Set("Parent", doc.PagesRef())

	if _, ok := dict.Get("MediaBox"); !ok {
		dict.Set("MediaBox", rectArray(page.MediaBox))
	}
	if _, ok := dict.Get("Resources"); !ok && page.Resources.Len() > 0 {
		dict.Set("Resources", c.copyObject(page.Resources))
	}
	if _, ok := dict.Get("Rotate"); !ok && page.Rotate != 0 {
		dict.Set("Rotate", model.Integer(page.Rotate))
	}
	if _, ok := dict.Get("CropBox"); !ok && page.CropBox != nil {
		dict.Set("CropBox", rectArray(*page.CropBox))
	}

	ref := doc.Table.Add(dict)
	doc.AddLeaf(ref)

	if rotateDelta != 0 {
		doc.Page(ref).SetRotate(page.Rotate + rotateDelta)
	}
	return ref, nil
}

func rectArray(r model.Rectangle) model.Array {
	return model.Array{model.Real(r.LLx), model.Real(r.LLy), model.Real(r.URx), model.Real(r.URy)}
}

func toAuthorInfo(info model.DocumentInfo) author.DocumentInfo {
	return author.DocumentInfo{
		Title:        info.Title,
		Author:       info.Author,
		Subject:      info.Subject,
		Keywords:     info.Keywords,
		Creator:      info.Creator,
		Producer:     info.Producer,
		CreationDate: info.CreationDate,
		ModDate:      info.ModDate,
	}
}
