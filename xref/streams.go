package xref

import (
	"bytes"
	"fmt"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/pdferr"
)

// DecodedStream resolves ref to a stream and returns its payload with the
// full /Filter chain applied, the form content-stream interpretation and
// ToUnicode CMap parsing need. A ref that resolves to a non-stream object
// yields (nil, nil). When the document is encrypted, the payload is still
// cipher text (6.1: encrypted payloads stay opaque until unlocked) and an
// Unsupported error is returned instead.
func (t *Table) DecodedStream(ref model.Ref) ([]byte, error) {
	obj, err := t.Resolve(ref)
	if err != nil {
		return nil, err
	}
	s, ok := obj.(model.Stream)
	if !ok {
		return nil, nil
	}
	if t.Trailer.Encrypt != (model.Ref{}) {
		return nil, pdferrUnsupportedEncrypted(ref)
	}
	return t.decodeStreamFilters(s, 0)
}

func pdferrUnsupportedEncrypted(ref model.Ref) error {
	return pdferr.ForObject(pdferr.Unsupported, "decode_stream", int(ref.Number),
		fmt.Errorf("stream belongs to an encrypted document and no key is available"))
}

// skipStreamEOL consumes the single EOL marker required between the
// "stream" keyword and its content (7.3.8.1): CRLF, LF, or tolerantly a
// bare CR.
func skipStreamEOL(data []byte, pos int) int {
	if pos < len(data) && data[pos] == '\r' {
		pos++
	}
	if pos < len(data) && data[pos] == '\n' {
		pos++
	}
	return pos
}

// readStreamContent extracts a stream's raw (still filter-encoded) bytes.
// relPosAfterKeyword is the tokenizer position immediately after the
// "stream" keyword, relative to base. In tolerant mode the declared /Length
// is trusted only if "endstream" actually appears shortly after where it
// says the content ends; otherwise (or if Length is unresolvable) this
// falls back to scanning for the literal "endstream" marker, bounded by
// MaxRecoveryBytes. In strict mode a missing or out-of-bounds /Length is
// an error.
func (t *Table) readStreamContent(base int64, relPosAfterKeyword int, length int64, lengthKnown bool) ([]byte, error) {
	relStart := skipStreamEOL(t.data[base:], relPosAfterKeyword)
	absStart := base + int64(relStart)
	if absStart > int64(len(t.data)) {
		absStart = int64(len(t.data))
	}

	if lengthKnown && length >= 0 && absStart+length <= int64(len(t.data)) {
		end := absStart + length
		if !t.cfg.Tolerant || endstreamNear(t.data, end) {
			return t.data[absStart:end], nil
		}
	}

	if !t.cfg.Tolerant {
		return nil, fmt.Errorf("stream: /Length missing or out of bounds")
	}
	return t.scanForEndstream(absStart)
}

// endstreamNear reports whether "endstream" appears within a small window
// after end, tolerating the handful of whitespace bytes producers
// sometimes leave before it.
func endstreamNear(data []byte, end int64) bool {
	lo := end
	hi := end + 32
	if hi > int64(len(data)) {
		hi = int64(len(data))
	}
	if lo >= hi {
		return false
	}
	return bytes.Contains(data[lo:hi], []byte("endstream"))
}

func (t *Table) scanForEndstream(absStart int64) ([]byte, error) {
	if absStart > int64(len(t.data)) {
		absStart = int64(len(t.data))
	}
	limit := int64(len(t.data))
	if t.cfg.MaxRecoveryBytes > 0 && absStart+int64(t.cfg.MaxRecoveryBytes) < limit {
		limit = absStart + int64(t.cfg.MaxRecoveryBytes)
	}
	window := t.data[absStart:limit]
	idx := bytes.Index(window, []byte("endstream"))
	if idx == -1 {
		return nil, fmt.Errorf("stream: \"endstream\" not found within recovery window")
	}
	return bytes.TrimRight(window[:idx], "\r\n"), nil
}
