// Package text extracts Unicode strings from a page's content stream by
// combining the content-stream interpreter's glyph runs with per-font
// decoding: ToUnicode CMaps first (9.10.3), then named simple encodings,
// then a StandardEncoding/WinAnsiEncoding default.
//
// Layout preservation is heuristic: fragments are sorted into reading
// order and newlines/spaces are inserted from Y/X gaps, which is as much
// as extraction can promise without laying text out.
package text

import (
	"sort"
	"strings"

	"github.com/corepdf/corepdf/contentstream"
	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/text/cmap"
)

// Options configures extraction.
type Options struct {
	// PreserveLayout enables the reading-order Y-sort/X-gap heuristics; if
	// false, fragments are emitted in content-stream encounter order with
	// a single space between them.
	PreserveLayout bool
	Strict         bool // passed through to the content-stream interpreter
}

// Fragment is one positioned run of extracted text.
type Fragment struct {
	Text     string
	X, Y     float64
	FontSize float64
}

// Result is the output of ExtractText.
type Result struct {
	Text      string
	Fragments []Fragment
}

// decoder maps a font resource's character codes to Unicode strings,
// selected by the three-tier fallback of 9.10.2: ToUnicode, then a simple
// encoding, then a subtype-based default.
type decoder struct {
	toUnicode *cmap.CMap
	encoding  *model.SimpleEncoding
	identity  bool // Identity-H/V CID font with no ToUnicode: codes pass through as-is, best effort
}

func (d decoder) splitAndDecode(code []byte) string {
	if d.toUnicode != nil {
		var out strings.Builder
		for _, c := range d.toUnicode.SplitCodes(code) {
			if s, ok := d.toUnicode.Lookup(c); ok {
				out.WriteString(s)
			}
		}
		return out.String()
	}
	if d.encoding != nil {
		var out strings.Builder
		for _, b := range code {
			out.WriteRune(d.encoding.Decode(b))
		}
		return out.String()
	}
	// No usable encoding: best-effort Latin-1-ish passthrough rather than
	// dropping the run silently.
	var out strings.Builder
	for _, b := range code {
		out.WriteByte(b)
	}
	return out.String()
}

// resourceDecoders builds one decoder per font name declared in a page's
// /Resources /Font dictionary.
func resourceDecoders(r model.Resolver, res model.Resources, getStream func(model.Ref) ([]byte, error)) (map[model.Name]decoder, error) {
	out := map[model.Name]decoder{}
	fonts, err := res.Font()
	if err != nil {
		return nil, err
	}
	for _, name := range fonts.Keys() {
		fontDict, ok, err := res.FontByName(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		fd, err := model.ParseFontDescriptor(r, fontDict)
		if err != nil {
			return nil, err
		}
		var dec decoder
		if fd.ToUnicode != (model.Ref{}) && getStream != nil {
			if raw, err := getStream(fd.ToUnicode); err == nil {
				if cm, err := cmap.Parse(raw); err == nil {
					dec.toUnicode = cm
				}
			}
		}
		if dec.toUnicode == nil {
			switch fd.Encoding {
			case model.EncodingWinAnsi, model.EncodingMacRoman, model.EncodingStandard, model.EncodingMacExpert:
				enc := model.LookupSimpleEncoding(fd.Encoding)
				dec.encoding = &enc
			case "Identity-H", "Identity-V":
				dec.toUnicode = cmap.Identity(fd.Encoding == "Identity-V")
			default:
				if fd.Subtype == "TrueType" {
					enc := model.LookupSimpleEncoding(model.EncodingWinAnsi)
					dec.encoding = &enc
				} else {
					enc := model.LookupSimpleEncoding(model.EncodingStandard)
					dec.encoding = &enc
				}
			}
		}
		out[name] = dec
	}
	return out, nil
}

// Extract runs the content-stream interpreter over content and decodes
// each glyph run through the resource dictionary's fonts.
func Extract(content []byte, r model.Resolver, res model.Resources, getStream func(model.Ref) ([]byte, error), opts Options) (Result, error) {
	ir, err := contentstream.Interpret(content, opts.Strict)
	if err != nil {
		return Result{}, err
	}

	decoders, err := resourceDecoders(r, res, getStream)
	if err != nil {
		return Result{}, err
	}

	frags := make([]Fragment, 0, len(ir.Runs))
	for _, run := range ir.Runs {
		dec := decoders[run.Font]
		s := dec.splitAndDecode(run.Bytes)
		if s == "" {
			continue
		}
		frags = append(frags, Fragment{Text: s, X: run.X, Y: run.Y, FontSize: run.FontSize})
	}

	if opts.PreserveLayout {
		return layoutResult(frags), nil
	}
	return simpleResult(frags), nil
}

func simpleResult(frags []Fragment) Result {
	parts := make([]string, len(frags))
	for i, f := range frags {
		parts[i] = f.Text
	}
	return Result{Text: strings.Join(parts, " "), Fragments: frags}
}

// layoutResult sorts fragments into reading order, decreasing Y then
// increasing X, inserting a newline when the Y gap exceeds half the font
// size and a space when the X gap exceeds an estimated space width.
func layoutResult(frags []Fragment) Result {
	sorted := append([]Fragment(nil), frags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var out strings.Builder
	for i, f := range sorted {
		if i == 0 {
			out.WriteString(f.Text)
			continue
		}
		prev := sorted[i-1]
		yGap := prev.Y - f.Y
		if yGap > 0.5*maxF(prev.FontSize, f.FontSize) {
			out.WriteByte('\n')
		} else {
			xGap := f.X - (prev.X + estimatedWidth(prev))
			if xGap > estimatedSpaceWidth(f.FontSize) {
				out.WriteByte(' ')
			}
		}
		out.WriteString(f.Text)
	}
	return Result{Text: out.String(), Fragments: sorted}
}

// estimatedWidth approximates a fragment's rendered width from its glyph
// count and font size, since the full per-glyph metrics used during
// interpretation aren't retained on the Fragment.
func estimatedWidth(f Fragment) float64 {
	return float64(len([]rune(f.Text))) * f.FontSize * 0.5
}

func estimatedSpaceWidth(fontSize float64) float64 {
	return fontSize * 0.25
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
