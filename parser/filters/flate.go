package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// decodeFlate inflates a zlib-wrapped deflate stream (PDF's FlateDecode is
// always zlib-framed, RFC 1950) and reverses any predictor.
func decodeFlate(p Params, encoded []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("FlateDecode: %w", err)
	}
	defer zr.Close()
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("FlateDecode: %w", err)
	}
	return applyPredictorDecode(p, decompressed)
}

// encodeFlate is the writer-side counterpart: apply predictor, then deflate
// at default compression.
func encodeFlate(p Params, raw []byte) ([]byte, error) {
	predicted, err := applyPredictorEncode(p, raw)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(predicted); err != nil {
		return nil, fmt.Errorf("FlateDecode encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("FlateDecode encode: %w", err)
	}
	return buf.Bytes(), nil
}
