// Package cmap parses PDF CMap streams (9.7.5): the PostScript-like
// syntax a /ToUnicode entry or a predefined CID CMap uses to map input
// character codes, possibly multi-byte, to destination values.
//
// The parser reuses corepdf's own tokenizer rather than a hand-rolled
// byte scanner: a CMap stream's tokens - hex strings, names, arrays,
// integers - are ordinary PDF lexical tokens plus a handful of PostScript
// operator keywords the tokenizer already treats as Keyword tokens.
// Covered blocks: codespacerange, bfchar, bfrange (scalar and array
// destinations), usecmap, and WMode.
package cmap

import (
	"unicode/utf16"

	"github.com/corepdf/corepdf/pdferr"
	"github.com/corepdf/corepdf/tokenizer"
)

// CodespaceRange is one byte-range tuple from a codespacerange block: codes
// between Low and High (inclusive, compared byte-for-byte) are len(Low)
// bytes wide (9.7.6.2).
type CodespaceRange struct {
	Low, High []byte
}

func (c CodespaceRange) matches(code []byte) bool {
	if len(code) != len(c.Low) {
		return false
	}
	for i := range code {
		if code[i] < c.Low[i] || code[i] > c.High[i] {
			return false
		}
	}
	return true
}

type rangeEntry struct {
	lo, hi    []byte
	dstScalar []uint16 // used when the bfrange destination is a single code
	dstArray  [][]uint16
}

// CMap is a parsed character map: codespace ranges (for variable-width
// code splitting), explicit single-code mappings (bfchar), and range
// mappings (bfrange), following a WMode and, optionally, a base CMap
// included via usecmap.
type CMap struct {
	Name       string
	WMode      int // 0 horizontal, 1 vertical (9.7.5.3)
	Codespaces []CodespaceRange
	singles    map[string][]uint16
	ranges     []rangeEntry
	base       *CMap
}

// Identity builds one of the two predefined identity CMaps on demand
// (Identity-H, Identity-V; 9.7.5.2): a 2-byte
// code maps to itself as a single UTF-16 code unit, which is the right
// degenerate behavior for text extraction over a CIDFont with no
// ToUnicode - callers that need actual glyph-to-Unicode mapping for
// Identity-encoded fonts must consult the font's ToUnicode instead, since
// Identity-H/V is a CID encoding, not a text encoding (9.7.4.2).
func Identity(vertical bool) *CMap {
	name := "Identity-H"
	wmode := 0
	if vertical {
		name = "Identity-V"
		wmode = 1
	}
	return &CMap{
		Name:       name,
		WMode:      wmode,
		Codespaces: []CodespaceRange{{Low: []byte{0x00, 0x00}, High: []byte{0xFF, 0xFF}}},
		ranges: []rangeEntry{{
			lo:        []byte{0x00, 0x00},
			hi:        []byte{0xFF, 0xFF},
			dstScalar: []uint16{0x0000},
		}},
	}
}

// Parse reads a decoded CMap stream (9.7.5.1) into a CMap.
func Parse(data []byte) (*CMap, error) {
	m := &CMap{singles: map[string][]uint16{}}
	tk := tokenizer.New(data)
	var lastName string
	var lastInt int
	for {
		t, err := tk.Next()
		if err != nil {
			return nil, pdferr.New(pdferr.Syntax, "cmap_parse", err)
		}
		if t.Kind == tokenizer.EOF {
			break
		}
		if t.Kind == tokenizer.Name {
			lastName = t.Value
			continue
		}
		if t.Kind == tokenizer.Integer {
			lastInt, _ = t.Int()
			continue
		}
		if t.Kind != tokenizer.Keyword {
			continue
		}
		switch t.Value {
		case "begincodespacerange":
			if err := m.parseCodespaceRange(&tk); err != nil {
				return nil, err
			}
		case "beginbfchar":
			if err := m.parseBfChar(&tk); err != nil {
				return nil, err
			}
		case "beginbfrange":
			if err := m.parseBfRange(&tk); err != nil {
				return nil, err
			}
		case "usecmap":
			// Preceded by a name token naming the base CMap (9.7.5.2); only
			// the two predefined identity CMaps are resolvable without a
			// filesystem of CMap resources, which is out of scope for a
			// zero-dependency core.
			if lastName == "Identity-H" {
				m.base = Identity(false)
			} else if lastName == "Identity-V" {
				m.base = Identity(true)
			}
		case "def":
			// "/WMode 1 def" (9.7.5.3)
			if lastName == "WMode" {
				m.WMode = lastInt
			}
		}
	}
	return m, nil
}

func (m *CMap) parseCodespaceRange(tk *tokenizer.Tokenizer) error {
	for {
		t, err := tk.Next()
		if err != nil {
			return err
		}
		if t.Kind == tokenizer.EOF || t.IsKeyword("endcodespacerange") {
			return nil
		}
		if t.Kind != tokenizer.HexString {
			continue
		}
		hi, err := tk.Next()
		if err != nil {
			return err
		}
		if hi.Kind != tokenizer.HexString {
			continue
		}
		m.Codespaces = append(m.Codespaces, CodespaceRange{Low: []byte(t.Value), High: []byte(hi.Value)})
	}
}

func (m *CMap) parseBfChar(tk *tokenizer.Tokenizer) error {
	for {
		t, err := tk.Next()
		if err != nil {
			return err
		}
		if t.Kind == tokenizer.EOF || t.IsKeyword("endbfchar") {
			return nil
		}
		if t.Kind != tokenizer.HexString {
			continue
		}
		src := []byte(t.Value)
		dst, err := tk.Next()
		if err != nil {
			return err
		}
		units, ok := destUnits(dst)
		if !ok {
			continue
		}
		m.singles[string(src)] = units
	}
}

func (m *CMap) parseBfRange(tk *tokenizer.Tokenizer) error {
	for {
		lo, err := tk.Next()
		if err != nil {
			return err
		}
		if lo.Kind == tokenizer.EOF || lo.IsKeyword("endbfrange") {
			return nil
		}
		if lo.Kind != tokenizer.HexString {
			continue
		}
		hi, err := tk.Next()
		if err != nil {
			return err
		}
		if hi.Kind != tokenizer.HexString {
			continue
		}
		dst, err := tk.Next()
		if err != nil {
			return err
		}
		entry := rangeEntry{lo: []byte(lo.Value), hi: []byte(hi.Value)}
		switch dst.Kind {
		case tokenizer.HexString:
			units, ok := destUnits(dst)
			if !ok {
				continue
			}
			entry.dstScalar = units
		case tokenizer.StartArray:
			arr, err := readHexArray(tk)
			if err != nil {
				return err
			}
			entry.dstArray = arr
		default:
			continue
		}
		m.ranges = append(m.ranges, entry)
	}
}

func readHexArray(tk *tokenizer.Tokenizer) ([][]uint16, error) {
	var out [][]uint16
	for {
		t, err := tk.Next()
		if err != nil {
			return nil, err
		}
		if t.Kind == tokenizer.EndArray || t.Kind == tokenizer.EOF {
			return out, nil
		}
		if units, ok := destUnits(t); ok {
			out = append(out, units)
		}
	}
}

// destUnits decodes a bfchar/bfrange destination hex string into UTF-16BE
// code units (9.7.5.3 permits more than one, e.g. for ligature mappings).
func destUnits(t tokenizer.Token) ([]uint16, bool) {
	if t.Kind != tokenizer.HexString {
		return nil, false
	}
	b := []byte(t.Value)
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return units, true
}

// SplitCodes breaks data into variable-width codes per the codespacerange
// entries (9.7.6.2: "the codespace ranges... define the set of valid input
// codes and the byte length of each"). A byte run matching no declared
// range falls back to the shortest declared width, or 1 byte if none are
// declared (simple fonts with no explicit CMap never call this - their
// codes are always 1 byte).
func (m *CMap) SplitCodes(data []byte) [][]byte {
	if len(m.Codespaces) == 0 {
		out := make([][]byte, len(data))
		for i, b := range data {
			out[i] = []byte{b}
		}
		return out
	}
	var out [][]byte
	for i := 0; i < len(data); {
		width := m.codeWidthAt(data, i)
		end := i + width
		if end > len(data) {
			end = len(data)
		}
		out = append(out, data[i:end])
		i = end
	}
	return out
}

func (m *CMap) codeWidthAt(data []byte, pos int) int {
	shortest := 0
	for _, cs := range m.Codespaces {
		w := len(cs.Low)
		if shortest == 0 || w < shortest {
			shortest = w
		}
		if pos+w <= len(data) && cs.matches(data[pos : pos+w]) {
			return w
		}
	}
	if shortest == 0 {
		return 1
	}
	return shortest
}

// Lookup maps one already-split code to its Unicode string, trying this
// CMap's own bfchar/bfrange tables, then its usecmap base if set.
func (m *CMap) Lookup(code []byte) (string, bool) {
	if units, ok := m.singles[string(code)]; ok {
		return utf16ToString(units), true
	}
	for _, r := range m.ranges {
		if len(code) != len(r.lo) || !inRange(code, r.lo, r.hi) {
			continue
		}
		offset := bytesToUint32(code) - bytesToUint32(r.lo)
		if r.dstArray != nil {
			if int(offset) < len(r.dstArray) {
				return utf16ToString(r.dstArray[offset]), true
			}
			continue
		}
		if len(r.dstScalar) == 0 {
			continue
		}
		units := append([]uint16(nil), r.dstScalar...)
		units[len(units)-1] += uint16(offset)
		return utf16ToString(units), true
	}
	if m.base != nil {
		return m.base.Lookup(code)
	}
	return "", false
}

func inRange(code, lo, hi []byte) bool {
	for i := range code {
		if code[i] < lo[i] || code[i] > hi[i] {
			return false
		}
	}
	return true
}

func bytesToUint32(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

func utf16ToString(units []uint16) string {
	return string(utf16.Decode(units))
}
