// Package filters implements the PDF stream filters: pure transforms from
// encoded bytes to raw bytes (Decode) and back (Encode). Filters are modeled
// as a closed tagged variant over filter Names rather than an open plugin
// registry - there is no third-party filter the core does not already know
// about, and new filter kinds require a spec revision, not a runtime
// extension point.
package filters

import (
	"fmt"
)

// Name identifies a PDF filter, matching the /Filter dictionary value
// exactly (7.4 in the PDF spec).
type Name string

const (
	ASCII85   Name = "ASCII85Decode"
	ASCIIHex  Name = "ASCIIHexDecode"
	RunLength Name = "RunLengthDecode"
	LZW       Name = "LZWDecode"
	Flate     Name = "FlateDecode"
	DCT       Name = "DCTDecode"
	CCITTFax  Name = "CCITTFaxDecode"
	JBIG2     Name = "JBIG2Decode"
	JPX       Name = "JPXDecode"
)

// opaqueImageCodecs are filters the core preserves but never decodes to
// pixels: that is squarely a rendering/rasterization concern, out of scope
// for this library.
var opaqueImageCodecs = map[Name]bool{
	DCT:      true,
	CCITTFax: true,
	JBIG2:    true,
	JPX:      true,
}

// IsOpaque reports whether n is an image codec the core passes through
// without decoding.
func IsOpaque(n Name) bool { return opaqueImageCodecs[n] }

// Valid reports whether n is one of the filters named by the PDF spec.
func Valid(n Name) bool {
	switch n {
	case ASCII85, ASCIIHex, RunLength, LZW, Flate, DCT, CCITTFax, JBIG2, JPX:
		return true
	default:
		return false
	}
}

// Predictor identifies the post-processing scheme applied on top of
// Flate/LZW decoded bytes (7.4.4.4, Table 8).
type Predictor int

const (
	PredictorNone Predictor = 1
	PredictorTIFF Predictor = 2
	// PNG predictors (10-15) select per-row filters automatically; the
	// value only distinguishes "PNG prediction in use" from "none"/"TIFF" -
	// the actual per-row tag is read from a leading filter-type byte.
	PredictorPNGFirst Predictor = 10
)

// Params bundles the /DecodeParms entries relevant to a given filter. Zero
// value is the PDF-defined default for every field.
type Params struct {
	Predictor        int
	Colors           int // default 1
	BitsPerComponent int // default 8
	Columns          int // default 1
	EarlyChange      bool
	// defaults to true: a missing /EarlyChange is equivalent to 1 (7.4.4.2)
	EarlyChangeSet bool
}

func (p Params) colors() int {
	if p.Colors == 0 {
		return 1
	}
	return p.Colors
}

func (p Params) bpc() int {
	if p.BitsPerComponent == 0 {
		return 8
	}
	return p.BitsPerComponent
}

func (p Params) columns() int {
	if p.Columns == 0 {
		return 1
	}
	return p.Columns
}

func (p Params) earlyChange() bool {
	if !p.EarlyChangeSet {
		return true
	}
	return p.EarlyChange
}

// Decode applies the single named filter to encoded, returning the raw
// bytes. Opaque image codecs return their input unchanged: decoding pixels
// is not a core concern, but the payload itself must still round-trip.
func Decode(name Name, params Params, encoded []byte) ([]byte, error) {
	switch name {
	case Flate:
		return decodeFlate(params, encoded)
	case LZW:
		return decodeLZW(params, encoded)
	case ASCII85:
		return decodeASCII85(encoded)
	case ASCIIHex:
		return decodeASCIIHex(encoded)
	case RunLength:
		return decodeRunLength(encoded)
	case DCT, CCITTFax, JBIG2, JPX:
		return encoded, nil
	default:
		return nil, fmt.Errorf("filter %q: unsupported", name)
	}
}

// Encode is the symmetric counterpart used by the writer. Opaque image
// codecs are never produced by the core's encoder path (images are written
// with whatever filter they already carry), so Encode rejects them.
func Encode(name Name, params Params, raw []byte) ([]byte, error) {
	switch name {
	case Flate:
		return encodeFlate(params, raw)
	case LZW:
		return encodeLZW(params, raw)
	case ASCII85:
		return encodeASCII85(raw), nil
	case ASCIIHex:
		return encodeASCIIHex(raw), nil
	case RunLength:
		return encodeRunLength(raw), nil
	default:
		return nil, fmt.Errorf("filter %q: no encoder available", name)
	}
}

// Chain decodes encoded through each filter in names in order, as required
// by /Filter being an array (7.3.8.2: "If there are multiple filters, their
// order... corresponds to the order of application").
func Chain(names []Name, params []Params, encoded []byte) ([]byte, error) {
	out := encoded
	for i, n := range names {
		p := Params{}
		if i < len(params) {
			p = params[i]
		}
		var err error
		out, err = Decode(n, p, out)
		if err != nil {
			return nil, fmt.Errorf("filter %d/%d (%s): %w", i+1, len(names), n, err)
		}
	}
	return out, nil
}
