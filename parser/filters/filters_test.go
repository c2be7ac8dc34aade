package filters

import (
	"bytes"
	"testing"
)

func roundtrip(t *testing.T, name Name, params Params, data []byte) {
	t.Helper()
	encoded, err := Encode(name, params, data)
	if err != nil {
		t.Fatalf("%s: encode: %v", name, err)
	}
	decoded, err := Decode(name, params, encoded)
	if err != nil {
		t.Fatalf("%s: decode: %v", name, err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("%s: roundtrip mismatch:\n in: %q\nout: %q", name, data, decoded)
	}
}

func TestRoundtripNoPredictor(t *testing.T) {
	samples := [][]byte{
		nil,
		[]byte(""),
		[]byte("hello, world"),
		[]byte{0, 0, 0, 0, 1, 2, 3, 0xff, 0xfe},
		bytes.Repeat([]byte("abcabcabc "), 200),
	}
	for _, name := range []Name{Flate, LZW, ASCII85, ASCIIHex, RunLength} {
		for _, s := range samples {
			roundtrip(t, name, Params{}, s)
		}
	}
}

func TestRoundtripWithPNGPredictor(t *testing.T) {
	// 4 rows of 4 RGB(8-bit) pixels = 4*3 = 12 bytes/row, 48 bytes in all
	params := Params{Predictor: 12, Colors: 3, BitsPerComponent: 8, Columns: 4}
	raw := make([]byte, 4*4*3)
	for i := range raw {
		raw[i] = byte(i * 7)
	}
	for _, name := range []Name{Flate} {
		roundtrip(t, name, params, raw)
	}
}

func TestASCIIHexOddDigitPadded(t *testing.T) {
	decoded, err := decodeASCIIHex([]byte("48656C6C6>"))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x48, 0x65, 0x6C, 0x6C, 0x60}
	if !bytes.Equal(decoded, want) {
		t.Fatalf("expected %x, got %x", want, decoded)
	}
}

func TestASCII85ZShorthand(t *testing.T) {
	decoded, err := decodeASCII85([]byte("z~>"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, []byte{0, 0, 0, 0}) {
		t.Fatalf("expected 4 zero bytes, got %v", decoded)
	}
}

func TestRunLengthLiteralAndRepeat(t *testing.T) {
	// 3 literal bytes "abc", then repeat 'x' 5 times, then EOD
	encoded := []byte{2, 'a', 'b', 'c', byte(257 - 5), 'x', 128}
	decoded, err := decodeRunLength(encoded)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("abcxxxxx")
	if !bytes.Equal(decoded, want) {
		t.Fatalf("expected %q, got %q", want, decoded)
	}
}

func TestOpaqueCodecsPassThrough(t *testing.T) {
	data := []byte{0xff, 0xd8, 0xff, 0xe0}
	for _, name := range []Name{DCT, CCITTFax, JBIG2, JPX} {
		if !IsOpaque(name) {
			t.Fatalf("%s should be opaque", name)
		}
		out, err := Decode(name, Params{}, data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("%s: expected passthrough, got %q", name, out)
		}
	}
}
