package operations

import (
	"fmt"

	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/model"
)

// SplitMode selects how Split partitions a source document's pages into
// output groups.
type SplitMode int

const (
	// SplitSinglePages emits one output document per page.
	SplitSinglePages SplitMode = iota
	// SplitChunks emits one output document per ChunkSize consecutive pages.
	SplitChunks
	// SplitExplicitIndices emits one output document per entry of Groups,
	// each entry listing the 0-based source page indices it contains.
	SplitExplicitIndices
	// SplitAtPages starts a new output document at each index in Points
	// (0 is implicit), so e.g. Points = []int{3, 5} on an 8-page source
	// yields groups [0,1,2], [3,4], [5,6,7].
	SplitAtPages
)

// SplitOptions configures Split. Only the field(s) relevant to Mode are
// read.
type SplitOptions struct {
	Mode      SplitMode
	ChunkSize int     // SplitChunks
	Groups    [][]int // SplitExplicitIndices
	Points    []int   // SplitAtPages
}

// Split partitions the pages reachable from root into groups per opts,
// copying each group's transitive page/resource closure into its own
// authored document (metadata carried through from src's /Info). Source
// page order is preserved within each output group.
func Split(src model.Resolver, root model.Ref, info model.DocumentInfo, opts SplitOptions) ([]*author.Document, error) {
	pages, err := model.CollectPages(src, root)
	if err != nil {
		return nil, err
	}
	groups, err := splitGroups(len(pages), opts)
	if err != nil {
		return nil, err
	}

	docs := make([]*author.Document, 0, len(groups))
	for _, idxs := range groups {
		doc := author.NewDocument()
		doc.Info = toAuthorInfo(info)
		for _, i := range idxs {
			if i < 0 || i >= len(pages) {
				return nil, fmt.Errorf("split: page index %d out of range [0, %d)", i, len(pages))
			}
			if _, err := copyPageInto(doc, src, pages[i], 0); err != nil {
				return nil, err
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func splitGroups(n int, opts SplitOptions) ([][]int, error) {
	switch opts.Mode {
	case SplitSinglePages:
		groups := make([][]int, n)
		for i := range groups {
			groups[i] = []int{i}
		}
		return groups, nil

	case SplitChunks:
		if opts.ChunkSize <= 0 {
			return nil, fmt.Errorf("split: chunk size must be positive")
		}
		var groups [][]int
		for start := 0; start < n; start += opts.ChunkSize {
			end := start + opts.ChunkSize
			if end > n {
				end = n
			}
			groups = append(groups, rangeInts(start, end))
		}
		return groups, nil

	case SplitExplicitIndices:
		if len(opts.Groups) == 0 {
			return nil, fmt.Errorf("split: explicit-indices mode requires at least one group")
		}
		return opts.Groups, nil

	case SplitAtPages:
		points := append([]int(nil), opts.Points...)
		var groups [][]int
		start := 0
		for _, p := range points {
			if p <= start || p > n {
				return nil, fmt.Errorf("split: split point %d invalid for %d pages", p, n)
			}
			groups = append(groups, rangeInts(start, p))
			start = p
		}
		if start < n {
			groups = append(groups, rangeInts(start, n))
		}
		return groups, nil

	default:
		return nil, fmt.Errorf("split: unknown mode %d", opts.Mode)
	}
}

func rangeInts(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
