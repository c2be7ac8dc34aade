package model

import (
	"strconv"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// pdfDocEncodingHigh is PDFDocEncoding's upper half (codes 128-255); the
// lower half agrees with ASCII/Latin-1 except for a handful of C0 control
// codes real producers never emit (7.9.2.2, Annex D.2).
var pdfDocEncodingHigh = [128]rune{
	0x02D8, 0x02C7, 0x02C6, 0x02D9, 0x02DD, 0x02DB, 0x02DA, 0x02DC,
	0x2013, 0x2014, 0x2018, 0x2019, 0x201C, 0x201D, 0x2039, 0x203A,
	0x2026, 0x2030, 0x2020, 0x2021, 0x2022, 0x2122, 0x0192, 0x2044,
	0x2212, 0xFB01, 0xFB02, 0x0141, 0x0152, 0x0160, 0x0178, 0x017D,
	0x00A0, 0x00A1, 0x00A2, 0x00A3, 0x00A4, 0x00A5, 0x00A6, 0x00A7,
	0x00A8, 0x00A9, 0x00AA, 0x00AB, 0x00AC, 0x00AD, 0x00AE, 0x00AF,
	0x00B0, 0x00B1, 0x00B2, 0x00B3, 0x00B4, 0x00B5, 0x00B6, 0x00B7,
	0x00B8, 0x00B9, 0x00BA, 0x00BB, 0x00BC, 0x00BD, 0x00BE, 0x00BF,
	0x00C0, 0x00C1, 0x00C2, 0x00C3, 0x00C4, 0x00C5, 0x00C6, 0x00C7,
	0x00C8, 0x00C9, 0x00CA, 0x00CB, 0x00CC, 0x00CD, 0x00CE, 0x00CF,
	0x00D0, 0x00D1, 0x00D2, 0x00D3, 0x00D4, 0x00D5, 0x00D6, 0x00D7,
	0x00D8, 0x00D9, 0x00DA, 0x00DB, 0x00DC, 0x00DD, 0x00DE, 0x00DF,
	0x00E0, 0x00E1, 0x00E2, 0x00E3, 0x00E4, 0x00E5, 0x00E6, 0x00E7,
	0x00E8, 0x00E9, 0x00EA, 0x00EB, 0x00EC, 0x00ED, 0x00EE, 0x00EF,
	0x00F0, 0x00F1, 0x00F2, 0x00F3, 0x00F4, 0x00F5, 0x00F6, 0x00F7,
	0x00F8, 0x00F9, 0x00FA, 0x00FB, 0x00FC, 0x00FD, 0x00FE, 0x00FF,
}

var textUTF16 = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)

// pdfDocEncodingReverse inverts pdfDocEncodingHigh for the encode side.
var pdfDocEncodingReverse = func() map[rune]byte {
	m := make(map[rune]byte, len(pdfDocEncodingHigh))
	for i, r := range pdfDocEncodingHigh {
		m[r] = byte(0x80 + i)
	}
	return m
}()

// StringToPDFDocEncoding encodes s as PDFDocEncoding bytes, reporting
// whether every rune fits. Writers try this first to produce a simpler
// file, falling back to UTF-16BE only when it fails (7.9.2.2).
func StringToPDFDocEncoding(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		b, ok := pdfDocEncodingReverse[r]
		if !ok {
			return nil, false
		}
		out = append(out, b)
	}
	return out, true
}

// EncodeTextString produces the raw bytes of a PDF text string:
// PDFDocEncoding when the string fits, UTF-16BE with a leading BOM
// otherwise.
func EncodeTextString(s string) []byte {
	if b, ok := StringToPDFDocEncoding(s); ok {
		return b
	}
	b, err := textUTF16.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// the UTF-16 encoder only fails on invalid UTF-8; pass the bytes
		// through rather than dropping the entry
		return []byte(s)
	}
	return b
}

func isUTF16BOM(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFE && b[1] == 0xFF) || (b[0] == 0xFF && b[1] == 0xFE))
}

// DecodeTextString converts a PDF text string's raw bytes (7.9.2.2: either
// UTF-16BE with a leading BOM, or PDFDocEncoding) to a UTF-8 Go string.
func DecodeTextString(raw []byte) string {
	if isUTF16BOM(raw) {
		out, err := textUTF16.NewDecoder().Bytes(raw)
		if err == nil {
			return string(out)
		}
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		if b < 0x80 {
			runes[i] = rune(b)
		} else {
			runes[i] = pdfDocEncodingHigh[b-0x80]
		}
	}
	return string(runes)
}

// stringBytes extracts the raw bytes backing a text-string-shaped Object,
// treating anything else as absent.
func stringBytes(r Resolver, o Object) ([]byte, bool) {
	v, err := Deref(r, o)
	if err != nil {
		return nil, false
	}
	return Bytes(v)
}

func textStringAt(r Resolver, d Dict, key Name) string {
	v, ok := d.Get(key)
	if !ok {
		return ""
	}
	raw, ok := stringBytes(r, v)
	if !ok {
		return ""
	}
	return DecodeTextString(raw)
}

// ParseDate parses a PDF date string body (7.9.4, "D:YYYYMMDDHHmmSSOHH'mm'"),
// tolerating the common truncations (year-only, no timezone suffix).
func ParseDate(s string) (time.Time, bool) {
	if len(s) >= 2 && s[:2] == "D:" {
		s = s[2:]
	}
	if len(s) < 4 {
		return time.Time{}, false
	}
	year, s, ok := fieldOr(s, 4, 0)
	if !ok {
		return time.Time{}, false
	}
	month, s, ok := fieldOr(s, 2, 1)
	if !ok {
		month = 1
	}
	day, s, ok := fieldOr(s, 2, 1)
	if !ok {
		day = 1
	}
	hour, s, _ := fieldOr(s, 2, 0)
	minute, s, _ := fieldOr(s, 2, 0)
	second, s, _ := fieldOr(s, 2, 0)

	loc := time.UTC
	if len(s) > 0 {
		switch s[0] {
		case '+', '-':
			sign := 1
			if s[0] == '-' {
				sign = -1
			}
			s = s[1:]
			tzh, rest, _ := fieldOr(s, 2, 0)
			tzm := 0
			if len(rest) > 0 && rest[0] == '\'' {
				rest = rest[1:]
				tzm, _, _ = fieldOr(rest, 2, 0)
			}
			loc = time.FixedZone("", sign*(tzh*3600+tzm*60))
		}
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), true
}

func fieldOr(s string, n int, def int) (int, string, bool) {
	if len(s) < n {
		return def, s, false
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return def, s, false
	}
	return v, s[n:], true
}

// DocumentInfo mirrors the /Info dictionary (7.9.5).
type DocumentInfo struct {
	Title, Author, Subject, Keywords, Creator, Producer string
	CreationDate, ModDate                               time.Time
}

// ParseDocumentInfo reads the /Info dictionary named by infoRef. A zero Ref
// (no /Info entry in the trailer) yields the zero DocumentInfo.
func ParseDocumentInfo(r Resolver, infoRef Ref) (DocumentInfo, error) {
	var out DocumentInfo
	if infoRef == (Ref{}) {
		return out, nil
	}
	d, ok, err := DictAt(r, infoRef)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, nil
	}
	out.Title = textStringAt(r, d, "Title")
	out.Author = textStringAt(r, d, "Author")
	out.Subject = textStringAt(r, d, "Subject")
	out.Keywords = textStringAt(r, d, "Keywords")
	out.Creator = textStringAt(r, d, "Creator")
	out.Producer = textStringAt(r, d, "Producer")
	if s := textStringAt(r, d, "CreationDate"); s != "" {
		if t, ok := ParseDate(s); ok {
			out.CreationDate = t
		}
	}
	if s := textStringAt(r, d, "ModDate"); s != "" {
		if t, ok := ParseDate(s); ok {
			out.ModDate = t
		}
	}
	return out, nil
}
