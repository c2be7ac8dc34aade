// Package writer serializes an author.Document into a byte-exact PDF file:
// object numbering was already decided by the Table, so Write only has to
// assign byte offsets, choose string/stream encodings, and emit a cross
// reference - classic table or xref stream, with optional object-stream
// bundling.
package writer

// Config controls how Write serializes an authored document.
type Config struct {
	// PDFVersion is the header string to emit, e.g. "1.7". Must be >= the
	// minimum version needed by any feature in use (xref streams need 1.5,
	// object streams need 1.5).
	PDFVersion string

	// UseXRefStreams selects a PDF 1.5+ cross-reference stream instead of
	// the classic plain-text table.
	UseXRefStreams bool

	// CompressStreams applies FlateDecode to freshly-authored content
	// streams longer than 64 bytes that don't already carry a /Filter
	// (streams copied verbatim by an operation keep whatever encoding they
	// arrived with; shorter streams are written uncompressed).
	CompressStreams bool

	// ObjectStreams bundles non-stream objects into one or more /ObjStm
	// compressed containers. Requires UseXRefStreams (object streams are
	// only locatable through a cross-reference stream's compressed
	// entries, 7.5.7).
	ObjectStreams bool

	// ObjectStreamBatch caps how many objects go in a single /ObjStm
	// before starting a new one. Zero means unbounded (one /ObjStm for the
	// whole document).
	ObjectStreamBatch int
}

// DefaultConfig favors the maximally-compatible classic table: callers
// that want smaller output opt into xref/object streams explicitly.
func DefaultConfig() Config {
	return Config{PDFVersion: "1.7", CompressStreams: true}
}
