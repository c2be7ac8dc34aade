package xref

import (
	"fmt"
	"time"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/pdferr"
)

// entry is one cross-reference table slot: either a free slot, a regular
// object at a byte offset, or an object compressed inside an object stream
// (7.5.4, 7.5.7).
type entry struct {
	free       bool
	offset     int64
	generation uint16

	compressed    bool
	streamNumber  uint32 // object number of the containing /ObjStm
	streamIndex   int    // index within the object stream
}

// Table is the fully-loaded cross-reference table for one PDF file: entry
// locations, the trailer, and the materialized-object cache. It implements
// model.Resolver directly.
type Table struct {
	data    []byte
	cfg     Config
	entries map[uint32]*entry

	objectStreams map[uint32][]model.Object // cache of parsed /ObjStm contents
	resolving     map[model.Ref]bool        // reference-visit stack scoped to the current resolution chain

	cache    objectCache
	deadline time.Time // zero if no ParseDeadline configured

	Trailer  model.Trailer
	Warnings []pdferr.Warning
}

func newTable(data []byte, cfg Config) *Table {
	var cache objectCache
	if cfg.CacheSize > 0 {
		cache = newLRUCache(cfg.CacheSize)
	} else {
		cache = newUnboundedCache()
	}
	t := &Table{
		data:          data,
		cfg:           cfg,
		entries:       map[uint32]*entry{},
		objectStreams: map[uint32][]model.Object{},
		cache:         cache,
	}
	if cfg.ParseDeadline > 0 {
		t.deadline = time.Now().Add(cfg.ParseDeadline)
	}
	return t
}

// checkDeadline enforces ParseDeadline. It is called at resolution
// boundaries and at the recovery scan's loop head, so even a pathological
// file can't hold a caller past its budget.
func (t *Table) checkDeadline(offset int64) error {
	if t.deadline.IsZero() || time.Now().Before(t.deadline) {
		return nil
	}
	return pdferr.At(pdferr.Limits, "parse", offset,
		fmt.Errorf("parse deadline of %s exceeded", t.cfg.ParseDeadline))
}

// CacheStats reports the resolver's hit/miss counters.
func (t *Table) CacheStats() CacheStats { return t.cache.stats() }

func (t *Table) warn(kind pdferr.Kind, offset int64, msg string) {
	if t.cfg.CollectWarnings {
		t.Warnings = append(t.Warnings, pdferr.Warning{Kind: kind, Msg: msg, Offset: offset})
	}
}
