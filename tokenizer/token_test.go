package tokenizer

import "testing"

func collect(data []byte) ([]Token, error) {
	tk := New(data)
	var out []Token
	for {
		t, err := tk.Next()
		if err != nil {
			return out, err
		}
		if t.Kind == EOF {
			return out, nil
		}
		out = append(out, t)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		f    float64
	}{
		{"12", Integer, 12},
		{"-12", Integer, -12},
		{"+12", Integer, 12},
		{"12.5", Real, 12.5},
		{".5", Real, 0.5},
		{"4.", Real, 4},
		{"-.002", Real, -0.002},
	}
	for _, c := range cases {
		toks, err := collect([]byte(c.in))
		if err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if len(toks) != 1 || toks[0].Kind != c.kind {
			t.Fatalf("%s: expected single %s token, got %v", c.in, c.kind, toks)
		}
		f, err := toks[0].Float()
		if err != nil || f != c.f {
			t.Fatalf("%s: expected %v, got %v (%v)", c.in, c.f, f, err)
		}
	}
}

func TestIntegerOverflowFallsBackToReal(t *testing.T) {
	toks, err := collect([]byte("99999999999999999999999999"))
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 1 || toks[0].Kind != Real {
		t.Fatalf("expected overflowed integer to become a Real token, got %v", toks)
	}
}

func TestNames(t *testing.T) {
	toks, err := collect([]byte("/Name1 /ASomewhatLongerName /A;Name_With-Various***Characters? /1.2 /#41#42"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Name1", "ASomewhatLongerName", "A;Name_With-Various***Characters?", "1.2", "AB"}
	if len(toks) != len(want) {
		t.Fatalf("expected %d names, got %d (%v)", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Kind != Name || toks[i].Value != w {
			t.Errorf("token %d: expected Name %q, got %s %q", i, w, toks[i].Kind, toks[i].Value)
		}
	}
}

func TestEmptyName(t *testing.T) {
	toks, err := collect([]byte("/"))
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 1 || toks[0].Kind != Name || toks[0].Value != "" {
		t.Fatalf("expected a single empty Name token, got %v", toks)
	}
}

func TestLiteralStrings(t *testing.T) {
	cases := []struct{ in, want string }{
		{`(a literal string)`, "a literal string"},
		{"(nested (parens) ok)", "nested (parens) ok"},
		{`(escaped \) paren)`, "escaped ) paren"},
		{"(line\\\ncontinuation)", "linecontinuation"},
		{`(octal \101\102\103)`, "octal ABC"},
		{`(tab\tnewline\n)`, "tab\tnewline\n"},
	}
	for _, c := range cases {
		toks, err := collect([]byte(c.in))
		if err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if len(toks) != 1 || toks[0].Kind != String || toks[0].Value != c.want {
			t.Fatalf("%s: expected String %q, got %v", c.in, c.want, toks)
		}
	}
}

func TestHexStrings(t *testing.T) {
	toks, err := collect([]byte("<48656C6C6F> <48 65 6C 6C 6F> <48656C6C6>"))
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 3 {
		t.Fatalf("expected 3 hex strings, got %v", toks)
	}
	for _, tk := range toks[:2] {
		if tk.Kind != HexString || tk.Value != "Hello" {
			t.Errorf("expected Hello, got %q", tk.Value)
		}
	}
	// odd trailing digit is padded with a '0' nibble
	if toks[2].Value != "Hell\x60" {
		t.Errorf("expected padded odd hex string, got %q", toks[2].Value)
	}
}

func TestDelimitersAndKeywords(t *testing.T) {
	toks, err := collect([]byte("<< /Type /Catalog >> [1 2 R] obj endobj true false null"))
	if err != nil {
		t.Fatal(err)
	}
	wantKinds := []Kind{StartDict, Name, Name, EndDict, StartArray, Integer, Integer, Keyword, EndArray,
		Keyword, Keyword, Keyword, Keyword, Keyword}
	if len(toks) != len(wantKinds) {
		t.Fatalf("expected %d tokens, got %d (%v)", len(wantKinds), len(toks), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s (%q)", i, k, toks[i].Kind, toks[i].Value)
		}
	}
}

func TestCommentsIgnored(t *testing.T) {
	toks, err := collect([]byte("1 %this is a comment\r\n2"))
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 2 || toks[0].Value != "1" || toks[1].Value != "2" {
		t.Fatalf("expected [1 2], got %v", toks)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	tk := New([]byte("1 2 3"))
	p1, _ := tk.Peek()
	p2, _ := tk.PeekPeek()
	n1, _ := tk.Next()
	if p1 != n1 {
		t.Fatalf("Peek/Next mismatch: %v != %v", p1, n1)
	}
	n2, _ := tk.Next()
	if p2 != n2 {
		t.Fatalf("PeekPeek/Next mismatch: %v != %v", p2, n2)
	}
}

func TestSkipBytes(t *testing.T) {
	tk := New([]byte("stream\nBINARYDATAendstream"))
	kw, _ := tk.Next()
	if kw.Value != "stream" {
		t.Fatalf("expected stream keyword, got %q", kw.Value)
	}
	// consume the mandatory EOL then the 10 bytes of payload
	tk.SkipBytes(1)
	payload := tk.SkipBytes(10)
	if string(payload) != "BINARYDATA" {
		t.Fatalf("expected BINARYDATA, got %q", payload)
	}
	kw, _ = tk.Next()
	if kw.Value != "endstream" {
		t.Fatalf("expected endstream keyword, got %q", kw.Value)
	}
}
