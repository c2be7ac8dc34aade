package operations

import (
	"fmt"

	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/model"
)

// Reorder copies the pages reachable from root into a new authored document
// following order (a permutation, and possibly a subset, of source page
// indices): pages not named in order are dropped.
func Reorder(src model.Resolver, root model.Ref, info model.DocumentInfo, order []int) (*author.Document, error) {
	pages, err := model.CollectPages(src, root)
	if err != nil {
		return nil, err
	}
	doc := author.NewDocument()
	doc.Info = toAuthorInfo(info)
	for _, i := range order {
		if i < 0 || i >= len(pages) {
			return nil, fmt.Errorf("reorder: page index %d out of range [0, %d)", i, len(pages))
		}
		if _, err := copyPageInto(doc, src, pages[i], 0); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
