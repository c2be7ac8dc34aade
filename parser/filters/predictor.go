package filters

import (
	"bytes"
	"fmt"
	"io"
)

// applyPredictorDecode reverses the byte-level differencing scheme applied
// before Flate/LZW compression (Predictor 2 = TIFF, 10-15 = PNG variants,
// 7.4.4.4 Table 10).
func applyPredictorDecode(p Params, decompressed []byte) ([]byte, error) {
	if p.Predictor == 0 || p.Predictor == int(PredictorNone) {
		return decompressed, nil
	}

	colors, bpc, columns := p.colors(), p.bpc(), p.columns()
	bytesPerPixel := (bpc*colors + 7) / 8
	rowSize := bpc * colors * columns / 8
	if p.Predictor != int(PredictorTIFF) {
		rowSize++ // PNG rows are prefixed with a filter-type byte
	}

	r := bytes.NewReader(decompressed)
	cr := make([]byte, rowSize)
	pr := make([]byte, rowSize)

	var out []byte
	for {
		_, err := io.ReadFull(r, cr)
		if err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				break
			}
			return nil, err
		}
		d, err := unfilterRow(pr, cr, p.Predictor, bytesPerPixel)
		if err != nil {
			return nil, err
		}
		out = append(out, d...)
		pr, cr = cr, pr
	}

	plainRowSize := bpc * colors * columns / 8
	if plainRowSize != 0 && len(out)%plainRowSize != 0 {
		return nil, fmt.Errorf("predictor: unexpected output size (%d bytes, row size %d)", len(out), plainRowSize)
	}
	return out, nil
}

func unfilterRow(pr, cr []byte, predictor, bytesPerPixel int) ([]byte, error) {
	if predictor == int(PredictorTIFF) {
		applyHorizontalDiff(cr, bytesPerPixel)
		return cr, nil
	}

	cdat := cr[1:]
	pdat := pr[1:]
	switch tag := cr[0]; tag {
	case 0: // None
	case 1: // Sub
		for i := bytesPerPixel; i < len(cdat); i++ {
			cdat[i] += cdat[i-bytesPerPixel]
		}
	case 2: // Up
		for i, p := range pdat {
			cdat[i] += p
		}
	case 3: // Average
		for i := 0; i < bytesPerPixel; i++ {
			cdat[i] += pdat[i] / 2
		}
		for i := bytesPerPixel; i < len(cdat); i++ {
			cdat[i] += byte((int(cdat[i-bytesPerPixel]) + int(pdat[i])) / 2)
		}
	case 4: // Paeth
		paethUnfilter(cdat, pdat, bytesPerPixel)
	default:
		return nil, fmt.Errorf("predictor: unknown PNG row filter tag %d", tag)
	}
	return cdat, nil
}

// applyHorizontalDiff reverses TIFF predictor 2 (8-bit samples only).
func applyHorizontalDiff(row []byte, bytesPerPixel int) {
	for i := bytesPerPixel; i < len(row); i++ {
		row[i] += row[i-bytesPerPixel]
	}
}

func abs32(x int32) int32 {
	m := x >> 31
	return (x ^ m) - m
}

func paethUnfilter(cdat, pdat []byte, bytesPerPixel int) {
	var a, b, c, pa, pb, pc int32
	for i := 0; i < bytesPerPixel; i++ {
		a, c = 0, 0
		for j := i; j < len(cdat); j += bytesPerPixel {
			b = int32(pdat[j])
			pa = abs32(b - c)
			pb = abs32(a - c)
			pc = abs32(a + b - 2*c)
			var predicted int32
			switch {
			case pa <= pb && pa <= pc:
				predicted = a
			case pb <= pc:
				predicted = b
			default:
				predicted = c
			}
			a = (predicted + int32(cdat[j])) & 0xff
			cdat[j] = byte(a)
			c = b
		}
	}
}

// applyPredictorEncode is the symmetric pre-processing step used by the
// writer. Only PredictorNone (no-op) and PNG "Up" (predictor 12, the PDF
// spec's recommendation for xref streams, 7.5.8.2) are produced - the core
// never needs to author TIFF-predicted or Paeth-predicted streams.
func applyPredictorEncode(p Params, raw []byte) ([]byte, error) {
	if p.Predictor == 0 || p.Predictor == int(PredictorNone) {
		return raw, nil
	}
	if p.Predictor != 12 {
		return nil, fmt.Errorf("predictor: encoding only supports predictor 12 (PNG Up), got %d", p.Predictor)
	}

	colors, bpc, columns := p.colors(), p.bpc(), p.columns()
	rowSize := bpc * colors * columns / 8
	if rowSize == 0 {
		return nil, fmt.Errorf("predictor: zero row size")
	}
	if len(raw)%rowSize != 0 {
		return nil, fmt.Errorf("predictor: input not a multiple of row size %d", rowSize)
	}

	prev := make([]byte, rowSize)
	out := make([]byte, 0, len(raw)+len(raw)/rowSize)
	for off := 0; off < len(raw); off += rowSize {
		row := raw[off : off+rowSize]
		out = append(out, 2) // PNG "Up" tag
		for i, b := range row {
			out = append(out, b-prev[i])
		}
		prev = row
	}
	return out, nil
}
