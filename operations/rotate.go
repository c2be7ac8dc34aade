package operations

import (
	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/model"
)

// Rotate copies every page reachable from root into a new authored
// document, adding degrees (normalized mod 360 by author.Page.SetRotate) to
// the /Rotate of each page whose index appears in pageIndices. A nil
// pageIndices rotates every page.
func Rotate(src model.Resolver, root model.Ref, info model.DocumentInfo, pageIndices []int, degrees int) (*author.Document, error) {
	pages, err := model.CollectPages(src, root)
	if err != nil {
		return nil, err
	}
	selected := pageIndices
	all := selected == nil
	set := map[int]bool{}
	for _, i := range selected {
		set[i] = true
	}

	doc := author.NewDocument()
	doc.Info = toAuthorInfo(info)
	for i, p := range pages {
		delta := 0
		if all || set[i] {
			delta = degrees
		}
		if _, err := copyPageInto(doc, src, p, delta); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
