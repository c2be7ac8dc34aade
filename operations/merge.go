package operations

import (
	"fmt"

	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/model"
)

// MergeInput names one source document and, optionally, the subset of its
// pages to include (nil Pages means all pages, in source order).
type MergeInput struct {
	Source model.Resolver
	Root   model.Ref
	Pages  []int
}

// Merge concatenates the selected pages of each input, in order, into one
// authored document, remapping every copied reference into the output's own
// table. The first input with a non-empty Info supplies the merged
// document's metadata.
func Merge(inputs []MergeInput, infos []model.DocumentInfo) (*author.Document, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("merge: no inputs")
	}
	doc := author.NewDocument()
	for i, info := range infos {
		if i >= len(inputs) {
			break
		}
		if info != (model.DocumentInfo{}) {
			doc.Info = toAuthorInfo(info)
			break
		}
	}

	for _, in := range inputs {
		pages, err := model.CollectPages(in.Source, in.Root)
		if err != nil {
			return nil, err
		}
		indices := in.Pages
		if indices == nil {
			indices = rangeInts(0, len(pages))
		}
		for _, i := range indices {
			if i < 0 || i >= len(pages) {
				return nil, fmt.Errorf("merge: page index %d out of range [0, %d)", i, len(pages))
			}
			if _, err := copyPageInto(doc, in.Source, pages[i], 0); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}
