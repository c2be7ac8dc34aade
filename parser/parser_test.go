package parser

import (
	"strings"
	"testing"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/tokenizer"
)

func tokenizerFor(t *testing.T, data string) tokenizer.Tokenizer {
	t.Helper()
	return tokenizer.New([]byte(data))
}

func parseOne(t *testing.T, data string) model.Object {
	t.Helper()
	obj, err := New([]byte(data)).ParseObject()
	if err != nil {
		t.Fatalf("parsing %q: %v", data, err)
	}
	return obj
}

func TestParseScalars(t *testing.T) {
	if got := parseOne(t, "123"); got != model.Integer(123) {
		t.Fatalf("got %v", got)
	}
	if got := parseOne(t, "1.5"); got != model.Real(1.5) {
		t.Fatalf("got %v", got)
	}
	if got := parseOne(t, "/Name"); got != model.Name("Name") {
		t.Fatalf("got %v", got)
	}
	if got := parseOne(t, "true"); got != model.Bool(true) {
		t.Fatalf("got %v", got)
	}
	if _, ok := parseOne(t, "null").(model.Null); !ok {
		t.Fatalf("expected Null")
	}
}

func TestParseIndirectReference(t *testing.T) {
	got := parseOne(t, "12 0 R")
	ref, ok := got.(model.Ref)
	if !ok || ref.Number != 12 || ref.Generation != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestParseBareIntegerNotMistakenForRef(t *testing.T) {
	got := parseOne(t, "12 0 obj")
	if got != model.Integer(12) {
		t.Fatalf("got %v, want Integer(12) with obj left unconsumed", got)
	}
}

func TestParseArray(t *testing.T) {
	got := parseOne(t, "[1 2 /Three (four) 5 0 R]")
	arr, ok := got.(model.Array)
	if !ok || len(arr) != 5 {
		t.Fatalf("got %v", got)
	}
	if arr[0] != model.Integer(1) || arr[2] != model.Name("Three") {
		t.Fatalf("unexpected array contents: %v", arr)
	}
	if ref, ok := arr[4].(model.Ref); !ok || ref.Number != 5 {
		t.Fatalf("expected trailing ref, got %v", arr[4])
	}
}

func TestParseDict(t *testing.T) {
	got := parseOne(t, "<< /Type /Catalog /Pages 2 0 R >>")
	d, ok := got.(model.Dict)
	if !ok {
		t.Fatalf("got %v", got)
	}
	ty, ok := d.Get("Type")
	if !ok || ty != model.Name("Catalog") {
		t.Fatalf("got Type=%v", ty)
	}
	pages, ok := d.Get("Pages")
	if !ok || pages != (model.Ref{Number: 2, Generation: 0}) {
		t.Fatalf("got Pages=%v", pages)
	}
}

func TestParseNestedArrayAndDict(t *testing.T) {
	got := parseOne(t, "<< /Kids [1 0 R 2 0 R] /Count 2 >>")
	d := got.(model.Dict)
	kids, ok := d.Get("Kids")
	if !ok {
		t.Fatal("missing Kids")
	}
	arr, ok := kids.(model.Array)
	if !ok || len(arr) != 2 {
		t.Fatalf("got %v", kids)
	}
}

func TestParseDictDuplicateKeyIsError(t *testing.T) {
	_, err := New([]byte("<< /A 1 /A 2 >>")).ParseObject()
	if err == nil {
		t.Fatal("expected duplicate-key error")
	}
}

func TestParseUnterminatedArray(t *testing.T) {
	_, err := New([]byte("[1 2 3")).ParseObject()
	if err == nil {
		t.Fatal("expected unterminated-array error")
	}
}

func TestContentStreamModeHasNoIndirectRefs(t *testing.T) {
	p := New([]byte("12 0 re"))
	p.ContentStreamMode = true
	obj, err := p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj != model.Integer(12) {
		t.Fatalf("got %v, want bare Integer(12)", obj)
	}
}

func TestContentStreamModeReturnsOperator(t *testing.T) {
	p := New([]byte("re"))
	p.ContentStreamMode = true
	obj, err := p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	if op, ok := obj.(Operator); !ok || op != "re" {
		t.Fatalf("got %v", obj)
	}
}

func TestParseObjectHeader(t *testing.T) {
	tk := tokenizerFor(t, "7 0 obj")
	n, g, err := ParseObjectHeader(&tk)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 || g != 0 {
		t.Fatalf("got %d %d", n, g)
	}
}

func TestParseDeeplyNestedArrayHitsDepthLimit(t *testing.T) {
	p := New([]byte(strings.Repeat("[", 50)))
	p.MaxDepth = 20
	if _, err := p.ParseObject(); err == nil {
		t.Fatal("expected nesting-depth error")
	}
}

func TestParseNestingWithinLimitSucceeds(t *testing.T) {
	data := strings.Repeat("[", 10) + "1" + strings.Repeat("]", 10)
	if _, err := New([]byte(data)).ParseObject(); err != nil {
		t.Fatalf("10 levels should parse: %v", err)
	}
}
