package cmap

import "testing"

const sampleCMap = `
/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Test-UCS def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0003> <0043>
<0004> <0044>
endbfchar
1 beginbfrange
<0010> <0012> <0061>
endbfrange
1 beginbfrange
<0020> <0021> [<0042> <0062>]
endbfrange
endcmap
end end
`

func TestParseBfChar(t *testing.T) {
	m, err := Parse([]byte(sampleCMap))
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := m.Lookup([]byte{0x00, 0x03}); !ok || s != "C" {
		t.Fatalf("bfchar lookup failed: %q, %v", s, ok)
	}
	if s, ok := m.Lookup([]byte{0x00, 0x04}); !ok || s != "D" {
		t.Fatalf("bfchar lookup failed: %q, %v", s, ok)
	}
}

func TestParseBfRangeScalar(t *testing.T) {
	m, err := Parse([]byte(sampleCMap))
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := m.Lookup([]byte{0x00, 0x10}); !ok || s != "a" {
		t.Fatalf("bfrange scalar lookup failed: %q, %v", s, ok)
	}
	if s, ok := m.Lookup([]byte{0x00, 0x12}); !ok || s != "c" {
		t.Fatalf("bfrange scalar offset failed: %q, %v", s, ok)
	}
}

func TestParseBfRangeArray(t *testing.T) {
	m, err := Parse([]byte(sampleCMap))
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := m.Lookup([]byte{0x00, 0x20}); !ok || s != "B" {
		t.Fatalf("bfrange array lookup failed: %q, %v", s, ok)
	}
	if s, ok := m.Lookup([]byte{0x00, 0x21}); !ok || s != "b" {
		t.Fatalf("bfrange array lookup failed: %q, %v", s, ok)
	}
}

func TestSplitCodesUsesCodespaceWidth(t *testing.T) {
	m, err := Parse([]byte(sampleCMap))
	if err != nil {
		t.Fatal(err)
	}
	codes := m.SplitCodes([]byte{0x00, 0x03, 0x00, 0x04})
	if len(codes) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(codes))
	}
}

func TestIdentityCMapIsTwoBytePassthroughCode(t *testing.T) {
	m := Identity(false)
	codes := m.SplitCodes([]byte{0x00, 0x41, 0x00, 0x42})
	if len(codes) != 2 || len(codes[0]) != 2 {
		t.Fatalf("expected two 2-byte codes, got %v", codes)
	}
}
