package writer

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"

	"github.com/corepdf/corepdf/author"
	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/parser/filters"
)

// writer accumulates output bytes and the byte offset of every emitted
// object, keyed by object number directly since author.Table already
// assigned every number.
type writer struct {
	dst     io.Writer
	err     error
	written int64

	offsets      map[uint32]int64    // object number -> byte offset, for directly-written objects
	compressedIn map[uint32][2]int64 // object number -> (objstm number, index), for bundled objects
}

func newWriter(dst io.Writer) *writer {
	return &writer{dst: dst, offsets: map[uint32]int64{}, compressedIn: map[uint32][2]int64{}}
}

func (w *writer) bytes(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.dst.Write(b)
	w.written += int64(n)
	if err != nil {
		w.err = err
	}
}

func (w *writer) str(s string) { w.bytes([]byte(s)) }

// Write serializes doc as a complete PDF file to dst, per cfg.
func Write(doc *author.Document, dst io.Writer, cfg Config) error {
	cfg = normalizeConfig(cfg)
	w := newWriter(dst)

	w.writeHeader(cfg)

	refs := doc.Table.Refs()
	var streamRefs, plainRefs []model.Ref
	for _, ref := range refs {
		obj, _ := doc.Table.Get(ref)
		if _, isStream := obj.(model.Stream); isStream {
			streamRefs = append(streamRefs, ref)
		} else {
			plainRefs = append(plainRefs, ref)
		}
	}

	nextNum := doc.Table.MaxNumber() + 1

	// Direct objects: every stream (content, already-bundled /ObjStm can
	// never itself recurse), and every plain object when not bundling.
	direct := streamRefs
	if !cfg.ObjectStreams {
		direct = append(append([]model.Ref(nil), streamRefs...), plainRefs...)
	}
	for _, ref := range direct {
		obj, _ := doc.Table.Get(ref)
		w.emitDirect(ref, obj, cfg)
	}

	if cfg.ObjectStreams {
		batch := cfg.ObjectStreamBatch
		if batch <= 0 {
			batch = len(plainRefs)
		}
		if batch == 0 {
			batch = 1
		}
		for start := 0; start < len(plainRefs); start += batch {
			end := start + batch
			if end > len(plainRefs) {
				end = len(plainRefs)
			}
			group := plainRefs[start:end]
			objStmNum := nextNum
			nextNum++
			for i, ref := range group {
				w.compressedIn[ref.Number] = [2]int64{int64(objStmNum), int64(i)}
			}
			dict, content := buildObjStm(doc, group)
			w.emitDirect(model.Ref{Number: objStmNum}, model.Stream{Dict: dict, Content: content}, cfg)
		}
	}

	var infoRef model.Ref
	if hasInfo(doc.Info) {
		infoRef = model.Ref{Number: nextNum}
		nextNum++
		w.emitDirect(infoRef, infoDict(doc.Info), cfg)
	}

	id := resolveID(doc)

	if cfg.UseXRefStreams {
		xrefNum := nextNum
		w.writeXRefStream(xrefNum, doc.Root, infoRef, id, cfg)
	} else {
		w.writeClassicXref(nextNum, doc.Root, infoRef, id)
	}

	return w.err
}

func normalizeConfig(cfg Config) Config {
	if cfg.PDFVersion == "" {
		cfg.PDFVersion = "1.7"
	}
	if cfg.ObjectStreams {
		cfg.UseXRefStreams = true
	}
	if cfg.UseXRefStreams {
		switch cfg.PDFVersion {
		case "1.0", "1.1", "1.2", "1.3", "1.4":
			cfg.PDFVersion = "1.5"
		}
	}
	return cfg
}

func (w *writer) writeHeader(cfg Config) {
	w.str(fmt.Sprintf("%%PDF-%s\n", cfg.PDFVersion))
	// Binary marker comment line: four bytes >= 0x80 signal a binary
	// file to tools that sniff the first few lines.
	w.bytes([]byte{'%', 0xE2, 0xE3, 0xCF, 0xD3, '\n'})
}

// emitDirect writes one indirect object at the current position, recording
// its offset for the cross reference.
func (w *writer) emitDirect(ref model.Ref, obj model.Object, cfg Config) {
	w.offsets[ref.Number] = w.written
	w.str(fmt.Sprintf("%d %d obj\n", ref.Number, ref.Generation))

	if s, ok := obj.(model.Stream); ok {
		dict, content := finalizeStream(s, cfg)
		var buf bytes.Buffer
		writeDict(&buf, dict)
		w.bytes(buf.Bytes())
		w.str("\nstream\n")
		w.bytes(content)
		w.str("\nendstream")
	} else {
		var buf bytes.Buffer
		writeObjectBody(&buf, obj)
		w.bytes(buf.Bytes())
	}
	w.str("\nendobj\n")
}

// finalizeStream decides a fresh stream's encoding and always recomputes
// /Length as a direct integer: a stream already carrying /Filter
// (copied verbatim by an operation) is left alone beyond that.
func finalizeStream(s model.Stream, cfg Config) (model.Dict, []byte) {
	dict, _ := s.Dict.Clone().(model.Dict)
	content := s.Content
	if _, hasFilter := dict.Get("Filter"); !hasFilter && cfg.CompressStreams && len(content) > 64 {
		if encoded, err := filters.Encode(filters.Flate, filters.Params{}, content); err == nil {
			dict.Set("Filter", model.Name(filters.Flate))
			content = encoded
		}
	}
	dict.Set("Length", model.Integer(len(content)))
	return dict, content
}

// buildObjStm packs group's current bodies into one /ObjStm payload
// (7.5.7): N pairs of (object number, byte offset from /First) followed by
// the concatenated bodies.
func buildObjStm(doc *author.Document, group []model.Ref) (model.Dict, []byte) {
	var header bytes.Buffer
	var bodies [][]byte
	offset := 0
	for _, ref := range group {
		obj, _ := doc.Table.Get(ref)
		var buf bytes.Buffer
		writeObjectBody(&buf, obj)
		bodies = append(bodies, buf.Bytes())
		fmt.Fprintf(&header, "%d %d ", ref.Number, offset)
		offset += buf.Len() + 1
	}

	var payload bytes.Buffer
	payload.Write(header.Bytes())
	first := payload.Len()
	for _, b := range bodies {
		payload.Write(b)
		payload.WriteByte(' ')
	}

	dict := model.NewDict()
	dict.Set("Type", model.Name("ObjStm"))
	dict.Set("N", model.Integer(len(group)))
	dict.Set("First", model.Integer(first))
	return dict, payload.Bytes()
}

func hasInfo(info author.DocumentInfo) bool {
	return info.Title != "" || info.Author != "" || info.Subject != "" ||
		info.Keywords != "" || info.Creator != "" || info.Producer != "" ||
		!info.CreationDate.IsZero() || !info.ModDate.IsZero()
}

func infoDict(info author.DocumentInfo) model.Dict {
	d := model.NewDict()
	set := func(key model.Name, v string) {
		if v != "" {
			d.Set(key, model.StringLiteral(model.EncodeTextString(v)))
		}
	}
	set("Title", info.Title)
	set("Author", info.Author)
	set("Subject", info.Subject)
	set("Keywords", info.Keywords)
	set("Creator", info.Creator)
	if info.Producer != "" {
		set("Producer", info.Producer)
	} else {
		set("Producer", "corepdf")
	}
	if !info.CreationDate.IsZero() {
		d.Set("CreationDate", model.StringLiteral(dateString(info.CreationDate)))
	}
	if !info.ModDate.IsZero() {
		d.Set("ModDate", model.StringLiteral(dateString(info.ModDate)))
	}
	return d
}

func resolveID(doc *author.Document) [2][]byte {
	if doc.ID[0] != nil || doc.ID[1] != nil {
		return doc.ID
	}
	h := md5.New()
	for _, ref := range doc.Table.Refs() {
		obj, _ := doc.Table.Get(ref)
		fmt.Fprintf(h, "%d:%s;", ref.Number, obj.String())
	}
	sum := h.Sum(nil)
	return [2][]byte{sum, sum}
}

func (w *writer) writeClassicXref(size uint32, root, info model.Ref, id [2][]byte) {
	xrefOffset := w.written

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for n := uint32(1); n < size; n++ {
		off, ok := w.offsets[n]
		if !ok {
			buf.WriteString("0000000000 00000 f \n")
			continue
		}
		fmt.Fprintf(&buf, "%010d %05d n \n", off, 0)
	}

	buf.WriteString("trailer\n<<\n")
	fmt.Fprintf(&buf, "/Size %d\n", size)
	fmt.Fprintf(&buf, "/Root %d 0 R\n", root.Number)
	if info.Number != 0 {
		fmt.Fprintf(&buf, "/Info %d 0 R\n", info.Number)
	}
	if id[0] != nil {
		fmt.Fprintf(&buf, "/ID [<%x> <%x>]\n", id[0], id[1])
	}
	buf.WriteString(">>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n%%%%EOF", xrefOffset)

	w.bytes(buf.Bytes())
}

func (w *writer) writeXRefStream(xrefNum uint32, root, info model.Ref, id [2][]byte, cfg Config) {
	size := xrefNum + 1
	xrefOffset := w.written
	w.offsets[xrefNum] = xrefOffset

	const rowWidth = 1 + 4 + 2
	raw := make([]byte, 0, int(size)*rowWidth)
	for n := uint32(0); n < size; n++ {
		switch {
		case n == 0:
			raw = append(raw, 0, 0, 0, 0, 0, 0xFF, 0xFF)
		default:
			if loc, ok := w.compressedIn[n]; ok {
				raw = append(raw, 2,
					byte(loc[0]>>24), byte(loc[0]>>16), byte(loc[0]>>8), byte(loc[0]),
					byte(loc[1]>>8), byte(loc[1]))
			} else if off, ok := w.offsets[n]; ok {
				raw = append(raw, 1,
					byte(off>>24), byte(off>>16), byte(off>>8), byte(off),
					0, 0)
			} else {
				raw = append(raw, 0, 0, 0, 0, 0, 0, 0)
			}
		}
	}

	params := filters.Params{Predictor: 12, Colors: 1, BitsPerComponent: 8, Columns: rowWidth}
	encoded, err := filters.Encode(filters.Flate, params, raw)
	if err != nil {
		encoded = raw // never expected; fall back to the uncompressed stream rather than fail the whole write
	}

	dict := model.NewDict()
	dict.Set("Type", model.Name("XRef"))
	dict.Set("Size", model.Integer(size))
	dict.Set("W", model.Array{model.Integer(1), model.Integer(4), model.Integer(2)})
	dict.Set("Root", root)
	if info.Number != 0 {
		dict.Set("Info", info)
	}
	if id[0] != nil {
		dict.Set("ID", model.Array{model.StringHex(string(id[0])), model.StringHex(string(id[1]))})
	}
	if err == nil {
		dict.Set("Filter", model.Name(filters.Flate))
		parms := model.NewDict()
		parms.Set("Predictor", model.Integer(12))
		parms.Set("Colors", model.Integer(1))
		parms.Set("BitsPerComponent", model.Integer(8))
		parms.Set("Columns", model.Integer(rowWidth))
		dict.Set("DecodeParms", parms)
	}
	dict.Set("Length", model.Integer(len(encoded)))

	w.str(fmt.Sprintf("%d 0 obj\n", xrefNum))
	var buf bytes.Buffer
	writeDict(&buf, dict)
	w.bytes(buf.Bytes())
	w.str("\nstream\n")
	w.bytes(encoded)
	w.str("\nendstream\nendobj\n")

	w.str(fmt.Sprintf("startxref\n%d\n%%%%EOF", xrefOffset))
}
