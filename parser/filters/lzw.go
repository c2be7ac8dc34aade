package filters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hhrutter/lzw"
)

// decodeLZW decodes PDF's variable-width (9-12 bit) LZW stream. PDF's LZW
// differs from the GIF variant compress/lzw implements (early code-size
// bump, big-endian bit packing), hence hhrutter/lzw rather than a second
// hand-rolled LZW implementation.
func decodeLZW(p Params, encoded []byte) ([]byte, error) {
	r := lzw.NewReader(bytes.NewReader(encoded), p.earlyChange())
	defer r.Close()
	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("LZWDecode: %w", err)
	}
	return applyPredictorDecode(p, decompressed)
}

func encodeLZW(p Params, raw []byte) ([]byte, error) {
	predicted, err := applyPredictorEncode(p, raw)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, p.earlyChange())
	if _, err := w.Write(predicted); err != nil {
		return nil, fmt.Errorf("LZWDecode encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("LZWDecode encode: %w", err)
	}
	return buf.Bytes(), nil
}
